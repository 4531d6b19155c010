package services

import (
	"context"
	"errors"
	"testing"

	"ryokan-explorer/geocode"
	"ryokan-explorer/models"
	"ryokan-explorer/utils"
)

// geocoderFunc adapts a function to the geocode.Geocoder interface.
type geocoderFunc func(ctx context.Context, query string) (*geocode.Result, error)

func (f geocoderFunc) Geocode(ctx context.Context, query string) (*geocode.Result, error) {
	return f(ctx, query)
}

func TestResolveAttachesCoordinates(t *testing.T) {
	fake := geocoderFunc(func(_ context.Context, query string) (*geocode.Result, error) {
		if query != "1-2-3 Kawakami, Yufuin, Oita" {
			t.Errorf("unexpected query %q", query)
		}
		return &geocode.Result{Lat: 33.26, Lon: 131.35}, nil
	})

	r := NewResolver(fake, utils.NewLogger())
	got := r.Resolve(context.Background(), []*models.RawRyokan{
		{Name: "Yufuin Sansuikan", Address: "1-2-3 Kawakami, Yufuin, Oita"},
	})

	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !got[0].Geocoded() {
		t.Fatal("record should be geocoded")
	}
	if *got[0].Lat != 33.26 || *got[0].Lon != 131.35 {
		t.Errorf("coordinates = (%v, %v)", *got[0].Lat, *got[0].Lon)
	}
}

func TestResolveFallsBackToName(t *testing.T) {
	var queries []string
	fake := geocoderFunc(func(_ context.Context, query string) (*geocode.Result, error) {
		queries = append(queries, query)
		if query == "Yufuin Sansuikan Japan" {
			return &geocode.Result{Lat: 33.0, Lon: 131.0}, nil
		}
		return nil, geocode.ErrNoMatch
	})

	r := NewResolver(fake, utils.NewLogger())
	got := r.Resolve(context.Background(), []*models.RawRyokan{
		{Name: "Yufuin Sansuikan", Address: "unresolvable street"},
	})

	if len(queries) != 2 {
		t.Fatalf("expected 2 lookups (address then name), got %v", queries)
	}
	if !got[0].Geocoded() {
		t.Fatal("record should be geocoded via name fallback")
	}
}

func TestResolveEmptyAddressSkipsAddressLookup(t *testing.T) {
	var queries []string
	fake := geocoderFunc(func(_ context.Context, query string) (*geocode.Result, error) {
		queries = append(queries, query)
		return nil, geocode.ErrNoMatch
	})

	r := NewResolver(fake, utils.NewLogger())
	r.Resolve(context.Background(), []*models.RawRyokan{
		{Name: "Hidden Mountain Inn", Address: ""},
	})

	if len(queries) != 1 || queries[0] != "Hidden Mountain Inn Japan" {
		t.Errorf("expected single name lookup, got %v", queries)
	}
}

func TestResolveMissKeepsRow(t *testing.T) {
	fake := geocoderFunc(func(_ context.Context, _ string) (*geocode.Result, error) {
		return nil, errors.New("network down")
	})

	r := NewResolver(fake, utils.NewLogger())
	got := r.Resolve(context.Background(), []*models.RawRyokan{
		{Name: "Inn A", Address: "somewhere"},
		{Name: "Inn B", Address: "elsewhere"},
	})

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: misses must not drop rows", len(got))
	}
	for _, ry := range got {
		if ry.Geocoded() {
			t.Errorf("%s should not be geocoded", ry.Name)
		}
	}
}

func TestResolveUnknownNameSkipsFallback(t *testing.T) {
	var queries []string
	fake := geocoderFunc(func(_ context.Context, query string) (*geocode.Result, error) {
		queries = append(queries, query)
		return nil, geocode.ErrNoMatch
	})

	r := NewResolver(fake, utils.NewLogger())
	r.Resolve(context.Background(), []*models.RawRyokan{
		{Name: "Unknown", Address: ""},
	})

	if len(queries) != 0 {
		t.Errorf("expected no lookups for placeholder name, got %v", queries)
	}
}
