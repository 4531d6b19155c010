// Package viewer serves the persisted ryokan table over HTTP. It is the
// data side of the dashboard: filtering happens here, rendering is the
// frontend's job.
package viewer

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ryokan-explorer/models"
	"ryokan-explorer/rates"
	"ryokan-explorer/utils"
)

// Server holds the table loaded at startup. The batch pipeline replaces the
// file on disk atomically; a restart picks up the new data.
type Server struct {
	ryokans []*models.Ryokan
	rates   *rates.Client
	logger  *utils.Logger
}

func NewServer(ryokans []*models.Ryokan, ratesClient *rates.Client, logger *utils.Logger) *Server {
	return &Server{ryokans: ryokans, rates: ratesClient, logger: logger}
}

// Router wires up the API routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/ryokans", s.handleRyokans).Methods("GET")
	r.HandleFunc("/api/rates", s.handleRates).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	return r
}

// ryokanJSON is the wire shape of one record. Pointer fields render as
// null when the source data was absent.
type ryokanJSON struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	PriceMin         *int     `json:"price_min"`
	PriceMax         *int     `json:"price_max"`
	RoomsOpenAirBath int      `json:"rooms_open_air_bath"`
	HasPrivateOnsen  bool     `json:"has_private_onsen"`
	RentalOpenAir    bool     `json:"rental_open_air"`
	RentalIndoor     bool     `json:"rental_indoor"`
	RentalBoth       bool     `json:"rental_both"`
	Rating           *float64 `json:"rating"`
	Tags             []string `json:"tags"`
	Description      string   `json:"description"`
	Transportation   string   `json:"transportation"`
	URL              string   `json:"url"`
	Lat              *float64 `json:"lat"`
	Lon              *float64 `json:"lon"`
}

// filters mirrors the sidebar controls of the dashboard.
type filters struct {
	minPrice     *int
	maxPrice     *int
	minRating    *float64
	privateOnsen bool
	rentalOpen   bool
	rentalIndoor bool
	rentalBoth   bool
	geocoded     bool
}

func (s *Server) handleRyokans(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	out := make([]ryokanJSON, 0)
	for _, ry := range s.ryokans {
		if f.matches(ry) {
			out = append(out, toJSON(ry))
		}
	}

	writeJSON(w, out)
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"base":  "JPY",
		"rates": s.rates.Current(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "ok", "ryokans": len(s.ryokans)})
}

func parseFilters(r *http.Request) (*filters, error) {
	q := r.URL.Query()
	f := &filters{}

	var err error
	if f.minPrice, err = intParam(q.Get("min_price")); err != nil {
		return nil, err
	}
	if f.maxPrice, err = intParam(q.Get("max_price")); err != nil {
		return nil, err
	}
	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		f.minRating = &rating
	}

	f.privateOnsen = q.Get("private_onsen") == "true"
	f.rentalOpen = q.Get("rental_open") == "true"
	f.rentalIndoor = q.Get("rental_indoor") == "true"
	f.rentalBoth = q.Get("rental_both") == "true"
	f.geocoded = q.Get("geocoded") == "true"

	return f, nil
}

func intParam(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// matches applies the filter set. Price and rating filters exclude rows
// where the field is absent: an unpriced inn cannot satisfy a price range.
func (f *filters) matches(r *models.Ryokan) bool {
	if f.minPrice != nil && (r.PriceMin == nil || *r.PriceMin < *f.minPrice) {
		return false
	}
	if f.maxPrice != nil && (r.PriceMin == nil || *r.PriceMin > *f.maxPrice) {
		return false
	}
	if f.minRating != nil && (r.Rating == nil || *r.Rating < *f.minRating) {
		return false
	}
	if f.privateOnsen && !r.HasPrivateOnsen {
		return false
	}
	if f.rentalOpen && !r.RentalOpenAir {
		return false
	}
	if f.rentalIndoor && !r.RentalIndoor {
		return false
	}
	if f.rentalBoth && !r.RentalBoth {
		return false
	}
	if f.geocoded && !r.Geocoded() {
		return false
	}
	return true
}

func toJSON(r *models.Ryokan) ryokanJSON {
	return ryokanJSON{
		Name:             r.Name,
		Address:          r.Address,
		PriceMin:         r.PriceMin,
		PriceMax:         r.PriceMax,
		RoomsOpenAirBath: r.RoomsOpenAirBath,
		HasPrivateOnsen:  r.HasPrivateOnsen,
		RentalOpenAir:    r.RentalOpenAir,
		RentalIndoor:     r.RentalIndoor,
		RentalBoth:       r.RentalBoth,
		Rating:           r.Rating,
		Tags:             r.Tags,
		Description:      r.Description,
		Transportation:   r.Transportation,
		URL:              r.URL,
		Lat:              r.Lat,
		Lon:              r.Lon,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
