package models

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the user declined a capability prompt.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPermissionPermanentlyDenied means the OS will no longer show a
	// prompt; the user has to change the setting manually.
	ErrPermissionPermanentlyDenied = errors.New("permission permanently denied")

	// ErrPositionUnavailable means the device position could not be read,
	// either because permission is absent or no fix is obtainable.
	ErrPositionUnavailable = errors.New("position unavailable")

	// ErrUserCancelled means a picker or camera dialog was dismissed without
	// producing an asset. It is a sentinel, not a failure.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrSaveInProgress means a commit was requested while a previous commit
	// of the same session is still in flight.
	ErrSaveInProgress = errors.New("commit already in flight")
)

// GeocodeError wraps a network or service failure from the geocoding backend.
type GeocodeError struct {
	Err error
}

func (e *GeocodeError) Error() string {
	return fmt.Sprintf("geocode: %v", e.Err)
}

func (e *GeocodeError) Unwrap() error { return e.Err }

// ValidationError reports which draft field blocked a commit. It is always
// surfaced to the user and leaves the session in its editing state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}
