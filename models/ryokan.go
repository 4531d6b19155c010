package models

import "time"

// RawRyokan holds the fields extracted from one detail page, before
// geocoding. Numeric fields are pointers so that "missing on the source
// page" stays distinguishable from a genuine zero all the way to the CSV.
type RawRyokan struct {
	Name             string
	Address          string
	PriceMin         *int
	PriceMax         *int
	Rating           *float64
	RoomsOpenAirBath int
	HasPrivateOnsen  bool
	RentalOpenAir    bool
	RentalIndoor     bool
	RentalBoth       bool
	Tags             []string
	Description      string
	Transportation   string
	URL              string
	ScrapedAt        time.Time
}

// Ryokan is the final record written to the output table: the scraped
// fields plus coordinates. Lat/Lon stay nil when geocoding found no match,
// the row is kept either way.
type Ryokan struct {
	RawRyokan
	Lat *float64
	Lon *float64
}

// Geocoded reports whether the record carries coordinates.
func (r *Ryokan) Geocoded() bool {
	return r.Lat != nil && r.Lon != nil
}

// InsightReport holds the summary printed after a batch run.
type InsightReport struct {
	TotalRyokans      int
	GeocodedCount     int
	PrivateOnsenCount int
	AveragePrice      float64
	MinPrice          float64
	MaxPrice          float64
	MostExpensive     *Ryokan
	TopRated          []*Ryokan
}
