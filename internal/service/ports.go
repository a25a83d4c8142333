package service

import (
	"context"

	"placemark-api/internal/models"
)

// LocationProvider is the device location capability the flows depend on.
// Implementations must not show a permission prompt from CurrentPosition;
// when permission is absent they return ErrPositionUnavailable.
type LocationProvider interface {
	RequestPermission(ctx context.Context) (models.PermissionDecision, error)

	// CurrentPosition performs a one-shot position read.
	CurrentPosition(ctx context.Context) (models.Coordinate, error)

	// Watch delivers position updates until the returned stop function is
	// called. Callers must stop the watch when their screen or session ends.
	Watch(ctx context.Context) (<-chan models.Coordinate, func(), error)
}

// Geocoder converts free-text addresses into coordinates. An empty slice with
// a nil error means the address matched nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]models.Coordinate, error)
}

// Camera captures a single photo. A dismissed capture dialog returns
// models.ErrUserCancelled.
type Camera interface {
	RequestPermission(ctx context.Context) (models.PermissionDecision, error)
	Capture(ctx context.Context) (models.PhotoRef, error)
}

// PhotoPicker selects photos from the device library. A dismissed picker
// returns models.ErrUserCancelled.
type PhotoPicker interface {
	RequestPermission(ctx context.Context) (models.PermissionDecision, error)
	Pick(ctx context.Context, multiple bool, limit int) ([]models.PhotoRef, error)
}
