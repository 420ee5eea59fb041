// README: Geocoding wrapper around the Google Maps client.
package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GeocodeService resolves street addresses to coordinates. It backfills
// ride requests that arrive without lat/lng; callers treat failures as
// non-fatal.
type GeocodeService struct {
	client *maps.Client
}

func NewGeocodeService(apiKey string) (*GeocodeService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client}, nil
}

// Geocode returns the coordinates of the best match for address.
func (s *GeocodeService) Geocode(ctx context.Context, address string) (lat, lng float64, err error) {
	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, fmt.Errorf("geocode api error: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocode result for %q", address)
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
