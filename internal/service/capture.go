package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"placemark-api/internal/models"
	"placemark-api/internal/store"
)

// CaptureFlow mirrors the camera screen: one captured photo becomes exactly
// one place. The place gets the device's current position when a read
// succeeds and the fallback region centroid otherwise; a missing location is
// never an error here.
type CaptureFlow struct {
	camera   Camera
	location LocationProvider
	places   *store.PlaceStore
	title    string
	fallback models.Coordinate
}

// NewCaptureFlow creates the flow. The camera may be nil when photos arrive
// already captured (the HTTP facade's one-shot payload).
func NewCaptureFlow(camera Camera, location LocationProvider, places *store.PlaceStore, title string, fallback models.Coordinate) *CaptureFlow {
	return &CaptureFlow{
		camera:   camera,
		location: location,
		places:   places,
		title:    title,
		fallback: fallback,
	}
}

// CaptureAndSave takes a photo and saves it as a place. A dismissed capture
// dialog returns models.ErrUserCancelled and saves nothing.
func (f *CaptureFlow) CaptureAndSave(ctx context.Context) (models.Place, error) {
	decision, err := f.camera.RequestPermission(ctx)
	if err != nil {
		return models.Place{}, err
	}
	if err := permissionError(decision); err != nil {
		return models.Place{}, err
	}

	ref, err := f.camera.Capture(ctx)
	if err != nil {
		if errors.Is(err, models.ErrUserCancelled) {
			log.Debug().Msg("capture dismissed")
		}
		return models.Place{}, err
	}

	return f.Ingest(ctx, nil, ref, nil), nil
}

// Ingest folds one captured photo into the store as exactly one place. It
// also accepts payloads handed over from another screen: such a payload may
// carry its own id and coordinate, and redelivering it is harmless because
// the merge deduplicates by id.
func (f *CaptureFlow) Ingest(ctx context.Context, id *int64, photo models.PhotoRef, coord *models.Coordinate) models.Place {
	placeID := int64(0)
	if id != nil {
		placeID = *id
	} else {
		placeID = f.places.NextID()
	}

	position := f.fallback
	switch {
	case coord != nil && coord.Valid():
		position = *coord
	case f.location != nil:
		pos, err := f.location.CurrentPosition(ctx)
		if err == nil {
			position = pos
		} else {
			log.Debug().Err(err).Msg("capture falling back to default region")
		}
	}

	p := models.Place{
		ID:         placeID,
		Title:      f.title,
		Coordinate: position,
		PhotoRef:   photo,
	}
	f.places.Merge([]models.Place{p})
	return p
}
