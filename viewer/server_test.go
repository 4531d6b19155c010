package viewer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ryokan-explorer/models"
	"ryokan-explorer/rates"
	"ryokan-explorer/utils"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testServer(t *testing.T, ratesURL string) *httptest.Server {
	t.Helper()

	ryokans := []*models.Ryokan{
		{
			RawRyokan: models.RawRyokan{
				Name: "Yufuin Sansuikan", PriceMin: intPtr(30000),
				Rating: floatPtr(4.5), HasPrivateOnsen: true, RentalOpenAir: true,
			},
			Lat: floatPtr(33.26), Lon: floatPtr(131.35),
		},
		{
			RawRyokan: models.RawRyokan{
				Name: "Hidden Mountain Inn", PriceMin: intPtr(42000), Rating: floatPtr(4.0),
			},
		},
		{
			RawRyokan: models.RawRyokan{Name: "Bare Inn"},
		},
	}

	logger := utils.NewLogger()
	srv := NewServer(ryokans, rates.NewClient(ratesURL, logger), logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func fetchNames(t *testing.T, url string) []string {
	t.Helper()

	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}

	var records []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&records); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

func TestRyokansFilters(t *testing.T) {
	ts := testServer(t, "http://invalid.localhost")

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"no filters", "", []string{"Yufuin Sansuikan", "Hidden Mountain Inn", "Bare Inn"}},
		{"min price excludes unpriced", "?min_price=1", []string{"Yufuin Sansuikan", "Hidden Mountain Inn"}},
		{"price window", "?min_price=40000&max_price=50000", []string{"Hidden Mountain Inn"}},
		{"min rating", "?min_rating=4.2", []string{"Yufuin Sansuikan"}},
		{"private onsen", "?private_onsen=true", []string{"Yufuin Sansuikan"}},
		{"rental open-air", "?rental_open=true", []string{"Yufuin Sansuikan"}},
		{"geocoded only", "?geocoded=true", []string{"Yufuin Sansuikan"}},
		{"rental indoor matches none", "?rental_indoor=true", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fetchNames(t, ts.URL+"/api/ryokans"+tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestRyokansBadFilterValue(t *testing.T) {
	ts := testServer(t, "http://invalid.localhost")

	res, err := http.Get(ts.URL + "/api/ryokans?min_price=expensive")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
}

func TestRatesEndpointUsesFallbackWhenUpstreamDown(t *testing.T) {
	ts := testServer(t, "http://invalid.localhost")

	res, err := http.Get(ts.URL + "/api/rates")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Base != "JPY" {
		t.Errorf("base = %q, want JPY", body.Base)
	}
	if body.Rates["JPY"] != 1.0 {
		t.Errorf("JPY rate = %v, want 1.0", body.Rates["JPY"])
	}
}

func TestHealthz(t *testing.T) {
	ts := testServer(t, "http://invalid.localhost")

	res, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", res.StatusCode)
	}
}
