package services

import (
	"context"
	"strings"

	"ryokan-explorer/geocode"
	"ryokan-explorer/models"
	"ryokan-explorer/utils"
)

// Resolver turns raw scraped listings into final records by resolving each
// address to coordinates. A lookup miss leaves the coordinates absent and
// keeps the row; geocoding failures never abort the batch.
type Resolver struct {
	geocoder geocode.Geocoder
	logger   *utils.Logger
}

// NewResolver creates a Resolver using the given geocoder.
func NewResolver(geocoder geocode.Geocoder, logger *utils.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, logger: logger}
}

// Resolve geocodes every listing in input order. Lookup strategy per
// listing: the cleaned address first, then "{name} Japan" as a fallback
// when the address is empty or finds no match.
func (r *Resolver) Resolve(ctx context.Context, raws []*models.RawRyokan) []*models.Ryokan {
	ryokans := make([]*models.Ryokan, 0, len(raws))
	located := 0

	for _, raw := range raws {
		ryokan := &models.Ryokan{RawRyokan: *raw}

		if result := r.lookup(ctx, raw); result != nil {
			lat, lon := result.Lat, result.Lon
			ryokan.Lat = &lat
			ryokan.Lon = &lon
			located++
		}

		ryokans = append(ryokans, ryokan)
	}

	r.logger.Info("[resolver] Located %d/%d listings", located, len(ryokans))
	return ryokans
}

func (r *Resolver) lookup(ctx context.Context, raw *models.RawRyokan) *geocode.Result {
	if address := cleanAddress(raw.Address); address != "" {
		result, err := r.geocoder.Geocode(ctx, address)
		if err == nil {
			return result
		}
		r.logger.Warn("[resolver] Address lookup failed for %q: %v", raw.Name, err)
	}

	if name := strings.TrimSpace(raw.Name); name != "" && name != "Unknown" {
		result, err := r.geocoder.Geocode(ctx, name+" Japan")
		if err == nil {
			return result
		}
		r.logger.Warn("[resolver] Name lookup failed for %q: %v", raw.Name, err)
	}

	return nil
}

// cleanAddress strips scrape artifacts that confuse the geocoder.
func cleanAddress(address string) string {
	return strings.TrimSpace(strings.ReplaceAll(address, "Show map", ""))
}
