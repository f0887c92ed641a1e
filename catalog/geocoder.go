package catalog

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"itineraryplanner/planner"
)

// Geocoder resolves a place name to a centroid when the local catalog has
// no matching destination row. It is an enrichment over C3's pure-catalog
// contract, not a replacement for it: FindDestinationByNameLike is always
// tried first.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (lat, lon float64, err error)
}

// GoogleGeocoder wraps googlemaps.github.io/maps, grounded directly on the
// teacher's places/api.go PlaceDetails handler (same client construction
// and context usage, generalized from a Gin handler into a plain method).
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder builds a GoogleGeocoder from an API key. Returns an
// error if the client cannot be constructed (invalid key format).
func NewGoogleGeocoder(apiKey string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("construct google maps client: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Resolve(ctx context.Context, name string) (float64, float64, error) {
	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		return 0, 0, planner.Wrap(planner.RepositoryUnavailable, "geocode destination name", err)
	}
	if len(resp) == 0 {
		return 0, 0, planner.New(planner.DestinationNotFound, fmt.Sprintf("no geocoding match for %q", name))
	}
	loc := resp[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}
