package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"placemark-api/internal/models"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

// MockGeocoder is a mock implementation of the Geocoder interface.
type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) ([]models.Coordinate, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coordinate), args.Error(1)
}

// MockLocationProvider is a mock implementation of the LocationProvider interface.
type MockLocationProvider struct {
	mock.Mock
}

func (m *MockLocationProvider) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.PermissionDecision), args.Error(1)
}

func (m *MockLocationProvider) CurrentPosition(ctx context.Context) (models.Coordinate, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Coordinate), args.Error(1)
}

func (m *MockLocationProvider) Watch(ctx context.Context) (<-chan models.Coordinate, func(), error) {
	args := m.Called(ctx)
	return args.Get(0).(<-chan models.Coordinate), args.Get(1).(func()), args.Error(2)
}

// fakePicker returns fixed refs, or cancels.
type fakePicker struct {
	decision models.PermissionDecision
	refs     []models.PhotoRef
	cancel   bool
}

func (f *fakePicker) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	return f.decision, nil
}

func (f *fakePicker) Pick(ctx context.Context, multiple bool, limit int) ([]models.PhotoRef, error) {
	if f.cancel {
		return nil, models.ErrUserCancelled
	}
	if limit > 0 && len(f.refs) > limit {
		return f.refs[:limit], nil
	}
	return f.refs, nil
}

// fakeCamera captures one fixed ref, or cancels.
type fakeCamera struct {
	decision models.PermissionDecision
	ref      models.PhotoRef
	cancel   bool
}

func (f *fakeCamera) RequestPermission(ctx context.Context) (models.PermissionDecision, error) {
	return f.decision, nil
}

func (f *fakeCamera) Capture(ctx context.Context) (models.PhotoRef, error) {
	if f.cancel {
		return "", models.ErrUserCancelled
	}
	return f.ref, nil
}
