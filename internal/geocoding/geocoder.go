// Package geocoding turns free-text locations into coordinates.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrNoMatch is returned when the provider knows no place for the query.
var ErrNoMatch = errors.New("no geocoding match")

// ErrProvider wraps failures talking to the provider.
var ErrProvider = errors.New("geocoding provider error")

// Point is a resolved location.
type Point struct {
	Lat float64
	Lng float64
}

// IGeocoder resolves a free-text query to the single best match.
type IGeocoder interface {
	Forward(ctx context.Context, query string) (*Point, error)
}

// googleGeocoder queries the Google Geocoding API. client is nil when no API
// key is configured, and every lookup then fails with ErrProvider.
type googleGeocoder struct {
	client *maps.Client
	region string
}

// NewGoogleGeocoder creates a geocoder. region biases results (e.g. "in",
// "us") and may be empty. opts are passed on to the maps client.
func NewGoogleGeocoder(apiKey, region string, opts ...maps.ClientOption) (IGeocoder, error) {
	if apiKey == "" {
		log.Println("GEOCODER_API_KEY is not set; listing locations cannot be resolved.")
		return &googleGeocoder{region: region}, nil
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &googleGeocoder{client: client, region: region}, nil
}

func (g *googleGeocoder) Forward(ctx context.Context, query string) (*Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoMatch
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.client == nil {
		return nil, fmt.Errorf("%w: no API key configured", ErrProvider)
	}

	// ZERO_RESULTS comes back as an empty slice without an error.
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query, Region: g.region})
	if err != nil {
		return nil, fmt.Errorf("%w: lookup %q: %v", ErrProvider, query, err)
	}
	if len(results) == 0 {
		return nil, ErrNoMatch
	}
	loc := results[0].Geometry.Location
	return &Point{Lat: loc.Lat, Lng: loc.Lng}, nil
}
