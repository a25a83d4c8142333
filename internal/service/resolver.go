package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"placemark-api/internal/models"
)

// GeoResolver resolves a draft into a single usable coordinate. Resolution
// tries, in order: the coordinate already chosen in the draft, geocoding of
// the draft's address text, a one-shot device position read, and finally the
// configured fallback region centroid. Every tier's failure demotes to the
// next one; Resolve itself never fails.
type GeoResolver struct {
	geocoder Geocoder
	location LocationProvider
	fallback models.Coordinate
}

// NewGeoResolver creates a resolver. Both geocoder and location may be nil,
// which simply disables their tiers.
func NewGeoResolver(geocoder Geocoder, location LocationProvider, fallback models.Coordinate) *GeoResolver {
	return &GeoResolver{
		geocoder: geocoder,
		location: location,
		fallback: fallback,
	}
}

// Resolve returns the first coordinate the chain produces.
func (r *GeoResolver) Resolve(ctx context.Context, draft models.Draft) models.Coordinate {
	if draft.Chosen != nil {
		return *draft.Chosen
	}

	if addr := strings.TrimSpace(draft.AddressText); addr != "" && r.geocoder != nil {
		coords, err := r.geocoder.Geocode(ctx, addr)
		switch {
		case err != nil:
			log.Debug().Err(err).Str("address", addr).Msg("geocode tier failed, falling through")
		case len(coords) > 0:
			return coords[0]
		default:
			log.Debug().Str("address", addr).Msg("no geocode results, falling through")
		}
	}

	if r.location != nil {
		pos, err := r.location.CurrentPosition(ctx)
		if err == nil {
			return pos
		}
		log.Debug().Err(err).Msg("position tier failed, falling through")
	}

	return r.fallback
}
