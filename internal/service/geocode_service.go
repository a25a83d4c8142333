package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"placemark-api/internal/models"
)

// GazetteerRepository interface for dependency injection.
type GazetteerRepository interface {
	SearchByText(ctx context.Context, query string) ([]models.GazetteerEntry, error)
}

// GeocodeCache is an optional read-through cache of coordinate lookups.
type GeocodeCache interface {
	Get(ctx context.Context, address string) ([]models.Coordinate, bool, error)
	Put(ctx context.Context, address string, coords []models.Coordinate) error
}

// GeocodeService contains the core business logic for geocoding operations.
type GeocodeService struct {
	repo  GazetteerRepository
	cache GeocodeCache
}

// NewGeocodeService creates a new geocode service. The cache may be nil.
func NewGeocodeService(repo GazetteerRepository, cache GeocodeCache) *GeocodeService {
	return &GeocodeService{repo: repo, cache: cache}
}

// Search returns the full gazetteer entries matching the address text, for
// the add-place form's address preview.
func (s *GeocodeService) Search(ctx context.Context, address string) ([]models.GazetteerEntry, error) {
	if address == "" {
		return nil, fmt.Errorf("service: address cannot be empty")
	}

	entries, err := s.repo.SearchByText(ctx, address)
	if err != nil {
		return nil, &models.GeocodeError{Err: err}
	}

	return entries, nil
}

// Geocode resolves address text into candidate coordinates, consulting the
// cache first. Cache failures are logged and ignored; the gazetteer remains
// the source of truth.
func (s *GeocodeService) Geocode(ctx context.Context, address string) ([]models.Coordinate, error) {
	if address == "" {
		return nil, fmt.Errorf("service: address cannot be empty")
	}

	if s.cache != nil {
		coords, hit, err := s.cache.Get(ctx, address)
		if err != nil {
			log.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
		} else if hit {
			return coords, nil
		}
	}

	entries, err := s.Search(ctx, address)
	if err != nil {
		return nil, err
	}

	coords := make([]models.Coordinate, 0, len(entries))
	for _, e := range entries {
		coords = append(coords, e.Coordinate())
	}

	if s.cache != nil && len(coords) > 0 {
		if err := s.cache.Put(ctx, address, coords); err != nil {
			log.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
		}
	}

	return coords, nil
}
