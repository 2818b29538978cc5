package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ishanKurnal/WanderLust/internal/geocoding"
	"github.com/ishanKurnal/WanderLust/internal/models"
)

// ILocationService defines the interface for location operations.
type ILocationService interface {
	Geocode(ctx context.Context, query string) (*models.GeoJSON, error)
}

const geocodeCachePrefix = "geocode:"

// locationService implements ILocationService.
type locationService struct {
	geocoder geocoding.IGeocoder
	rdb      *redis.Client // optional result cache
	cacheTTL time.Duration
}

// NewLocationService creates a new LocationService. rdb may be nil to disable caching.
func NewLocationService(geocoder geocoding.IGeocoder, rdb *redis.Client, cacheTTL time.Duration) ILocationService {
	return &locationService{geocoder: geocoder, rdb: rdb, cacheTTL: cacheTTL}
}

// Geocode resolves a free-text location to a single GeoJSON point, taking the
// provider's first match. Successful lookups are cached.
func (s *locationService) Geocode(ctx context.Context, query string) (*models.GeoJSON, error) {
	key := geocodeCacheKey(query)
	if key == geocodeCachePrefix {
		return nil, ErrLocationNotFound
	}

	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	point, err := s.geocoder.Forward(ctx, query)
	if err != nil {
		if errors.Is(err, geocoding.ErrNoMatch) {
			return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExternalProvider, err)
	}

	geometry := models.NewPoint(point.Lat, point.Lng)
	s.toCache(ctx, key, geometry)
	return geometry, nil
}

func geocodeCacheKey(query string) string {
	return geocodeCachePrefix + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (s *locationService) fromCache(ctx context.Context, key string) *models.GeoJSON {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Geocode cache read failed for %s: %v", key, err)
		}
		return nil
	}
	var geometry models.GeoJSON
	if err := json.Unmarshal(raw, &geometry); err != nil || geometry.Validate() != nil {
		return nil
	}
	return &geometry
}

func (s *locationService) toCache(ctx context.Context, key string, geometry *models.GeoJSON) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(geometry)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		log.Printf("Geocode cache write failed for %s: %v", key, err)
	}
}
