package services

import (
	"testing"

	"ryokan-explorer/models"
	"ryokan-explorer/utils"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }

func sampleRyokans() []*models.Ryokan {
	return []*models.Ryokan{
		{RawRyokan: models.RawRyokan{Name: "Inn A", PriceMin: intPtr(30000), Rating: floatPtr(4.9), HasPrivateOnsen: true}, Lat: floatPtr(33.2), Lon: floatPtr(131.3)},
		{RawRyokan: models.RawRyokan{Name: "Inn B", PriceMin: intPtr(12000), Rating: floatPtr(4.5)}},
		{RawRyokan: models.RawRyokan{Name: "Inn C", PriceMin: intPtr(80000), Rating: floatPtr(4.8), HasPrivateOnsen: true}, Lat: floatPtr(35.0), Lon: floatPtr(137.0)},
		{RawRyokan: models.RawRyokan{Name: "Inn D"}},
		{RawRyokan: models.RawRyokan{Name: "Inn E", Rating: floatPtr(4.7)}, Lat: floatPtr(36.0), Lon: floatPtr(138.0)},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleRyokans())

	if r.TotalRyokans != 5 {
		t.Errorf("TotalRyokans: got %d, want 5", r.TotalRyokans)
	}
	if r.GeocodedCount != 3 {
		t.Errorf("GeocodedCount: got %d, want 3", r.GeocodedCount)
	}
	if r.PrivateOnsenCount != 2 {
		t.Errorf("PrivateOnsenCount: got %d, want 2", r.PrivateOnsenCount)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleRyokans())

	// Only the three listings with a published price count.
	if want := 40666.67; r.AveragePrice != want {
		t.Errorf("AveragePrice: got %.2f, want %.2f", r.AveragePrice, want)
	}
	if r.MinPrice != 12000 {
		t.Errorf("MinPrice: got %.0f, want 12000", r.MinPrice)
	}
	if r.MaxPrice != 80000 {
		t.Errorf("MaxPrice: got %.0f, want 80000", r.MaxPrice)
	}
	if r.MostExpensive == nil || r.MostExpensive.Name != "Inn C" {
		t.Errorf("MostExpensive: got %v, want Inn C", r.MostExpensive)
	}
}

func TestInsightTopRated(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleRyokans())

	if len(r.TopRated) != 4 {
		t.Fatalf("TopRated: got %d entries, want 4", len(r.TopRated))
	}
	if r.TopRated[0].Name != "Inn A" {
		t.Errorf("TopRated[0]: got %q, want Inn A", r.TopRated[0].Name)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(nil)

	if r.TotalRyokans != 0 || r.MostExpensive != nil || len(r.TopRated) != 0 {
		t.Errorf("empty input should yield an empty report, got %+v", r)
	}
}
