// Package geocode resolves free-text addresses to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"ryokan-explorer/utils"
)

// ErrNoMatch is returned when the lookup succeeds but finds no place for
// the query. Callers treat it as a per-listing miss, not a batch failure.
var ErrNoMatch = errors.New("geocode: no match")

// Result holds the coordinates of a resolved place.
type Result struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// Geocoder resolves a free-text query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// searchResponse is shaped for the Nominatim /search JSON response.
type searchResponse []struct {
	PlaceID     int64  `json:"place_id"`
	Licence     string `json:"licence"`
	OsmType     string `json:"osm_type"`
	OsmID       int64  `json:"osm_id"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Class       string `json:"class"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

// Nominatim is a Geocoder backed by a Nominatim server. It enforces the
// usage-policy minimum interval between requests, so lookups are safe to
// issue in a tight sequential loop.
type Nominatim struct {
	client  *resty.Client
	baseURL string
	limiter *utils.RateLimiter
}

// Options configures a Nominatim client.
type Options struct {
	BaseURL     string
	UserAgent   string
	RateLimitMs int
	TimeoutSec  int
}

// NewNominatim creates a Nominatim geocoder.
func NewNominatim(opts Options) *Nominatim {
	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	if opts.TimeoutSec > 0 {
		client.SetTimeout(time.Duration(opts.TimeoutSec) * time.Second)
	}

	return &Nominatim{
		client:  client,
		baseURL: opts.BaseURL,
		limiter: utils.NewRateLimiter(opts.RateLimitMs),
	}
}

// Geocode looks up a query and returns the best match.
func (n *Nominatim) Geocode(ctx context.Context, query string) (*Result, error) {
	n.limiter.Wait()

	res, err := n.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":               query,
			"format":          "json",
			"limit":           "1",
			"accept-language": "en",
		}).
		Get(n.baseURL + "/search")
	if err != nil {
		return nil, err
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("geocode: unexpected status %d", res.StatusCode())
	}

	var results searchResponse
	if err := json.Unmarshal(res.Body(), &results); err != nil {
		return nil, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}

	first := results[0]
	lat, err := strconv.ParseFloat(first.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad latitude %q: %w", first.Lat, err)
	}
	lon, err := strconv.ParseFloat(first.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode: bad longitude %q: %w", first.Lon, err)
	}

	return &Result{Lat: lat, Lon: lon, DisplayName: first.DisplayName}, nil
}
