package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"placemark-api/internal/models"
	"placemark-api/internal/store"
)

// SessionState names the phases of an add-place flow.
type SessionState string

const (
	// StateIdle means no draft exists. Entered by default and after a
	// successful commit or a cancel.
	StateIdle SessionState = "idle"

	// StateEditing means the draft is being populated.
	StateEditing SessionState = "editing"

	// StatePickingOnMap means the next map tap is captured as the draft's
	// chosen coordinate.
	StatePickingOnMap SessionState = "picking_on_map"

	// StateSaving means a commit is in flight. A second commit request in
	// this state is rejected, never run concurrently.
	StateSaving SessionState = "saving"
)

// AddPlaceSession collects a draft (name, coordinate choice, photo
// attachments) and commits it as one or more places, one per attachment,
// all sharing a single resolved coordinate.
type AddPlaceSession struct {
	mu    sync.Mutex
	state SessionState
	draft models.Draft

	resolver *GeoResolver
	location LocationProvider
	places   *store.PlaceStore
}

// NewAddPlaceSession creates a session in the idle state.
func NewAddPlaceSession(resolver *GeoResolver, location LocationProvider, places *store.PlaceStore) *AddPlaceSession {
	return &AddPlaceSession{
		state:    StateIdle,
		resolver: resolver,
		location: location,
		places:   places,
	}
}

// State returns the current state.
func (s *AddPlaceSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft.
func (s *AddPlaceSession) Draft() models.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draft
	d.Attachments = append([]models.PhotoRef(nil), s.draft.Attachments...)
	if s.draft.Chosen != nil {
		chosen := *s.draft.Chosen
		d.Chosen = &chosen
	}
	return d
}

// Start opens a fresh draft. Starting an already editing session is a no-op;
// starting while a commit is in flight is rejected.
func (s *AddPlaceSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateSaving:
		return models.ErrSaveInProgress
	case StateIdle:
		s.state = StateEditing
		s.draft = models.Draft{}
	}
	return nil
}

// SetName updates the draft's display name.
func (s *AddPlaceSession) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing(); err != nil {
		return err
	}
	s.draft.Name = name
	return nil
}

// SetAddressText updates the draft's free-text address.
func (s *AddPlaceSession) SetAddressText(address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing(); err != nil {
		return err
	}
	s.draft.AddressText = address
	return nil
}

// UseCurrentLocation pins the draft to the device's current position. The
// error is surfaced so the form can tell the user the read failed; the
// session stays editable either way.
func (s *AddPlaceSession) UseCurrentLocation(ctx context.Context) error {
	s.mu.Lock()
	if err := s.requireEditing(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	if s.location == nil {
		return models.ErrPositionUnavailable
	}
	pos, err := s.location.CurrentPosition(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing {
		s.draft.Chosen = &pos
	}
	return nil
}

// AttachFromPicker requests library access and appends the picked photos.
// A cancelled picker dialog is absorbed silently; the attachments that
// existed before the cancelled action are kept.
func (s *AddPlaceSession) AttachFromPicker(ctx context.Context, picker PhotoPicker, limit int) error {
	if err := s.checkEditing(); err != nil {
		return err
	}

	decision, err := picker.RequestPermission(ctx)
	if err != nil {
		return err
	}
	if err := permissionError(decision); err != nil {
		return err
	}

	refs, err := picker.Pick(ctx, true, limit)
	if errors.Is(err, models.ErrUserCancelled) {
		log.Debug().Msg("photo pick cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	s.appendAttachments(refs)
	return nil
}

// AttachFromCamera requests camera access, captures one photo and appends it.
// A dismissed capture is absorbed silently.
func (s *AddPlaceSession) AttachFromCamera(ctx context.Context, camera Camera) error {
	if err := s.checkEditing(); err != nil {
		return err
	}

	decision, err := camera.RequestPermission(ctx)
	if err != nil {
		return err
	}
	if err := permissionError(decision); err != nil {
		return err
	}

	ref, err := camera.Capture(ctx)
	if errors.Is(err, models.ErrUserCancelled) {
		log.Debug().Msg("camera capture cancelled")
		return nil
	}
	if err != nil {
		return err
	}

	s.appendAttachments([]models.PhotoRef{ref})
	return nil
}

// BeginPickOnMap suspends the editing form until a map tap arrives.
func (s *AddPlaceSession) BeginPickOnMap() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing(); err != nil {
		return err
	}
	s.state = StatePickingOnMap
	s.draft.PickingOnMap = true
	return nil
}

// MapTap delivers a tap on the map. While picking it becomes the draft's
// chosen coordinate, exactly once, and the session returns to editing. Taps
// in any other state are ignored.
func (s *AddPlaceSession) MapTap(c models.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingOnMap {
		return
	}
	s.draft.Chosen = &c
	s.draft.PickingOnMap = false
	s.state = StateEditing
}

// CancelPick leaves picking mode without choosing a coordinate. The draft
// survives untouched.
func (s *AddPlaceSession) CancelPick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingOnMap {
		return
	}
	s.draft.PickingOnMap = false
	s.state = StateEditing
}

// Cancel abandons the draft and returns to idle. Cancelling while a commit
// is in flight is rejected.
func (s *AddPlaceSession) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateSaving {
		return models.ErrSaveInProgress
	}
	s.state = StateIdle
	s.draft = models.Draft{}
	return nil
}

// Commit validates the draft, resolves its coordinate and merges one place
// per attachment into the store. Titles are disambiguated with a 1-based
// index only when more than one attachment exists. Resolution failures never
// abort the commit; they only narrow the coordinate to a lower tier.
func (s *AddPlaceSession) Commit(ctx context.Context) ([]models.Place, error) {
	s.mu.Lock()
	if s.state == StateSaving {
		s.mu.Unlock()
		return nil, models.ErrSaveInProgress
	}
	if err := s.requireEditing(); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	name := strings.TrimSpace(s.draft.Name)
	if name == "" {
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(s.draft.Attachments) == 0 {
		s.mu.Unlock()
		return nil, &models.ValidationError{Field: "attachments", Reason: "at least one photo is required"}
	}

	s.state = StateSaving
	draft := s.draft
	draft.Attachments = append([]models.PhotoRef(nil), s.draft.Attachments...)
	s.mu.Unlock()

	coord := s.resolver.Resolve(ctx, draft)

	batch := make([]models.Place, 0, len(draft.Attachments))
	for i, ref := range draft.Attachments {
		title := name
		if len(draft.Attachments) > 1 {
			title = fmt.Sprintf("%s (%d)", name, i+1)
		}
		batch = append(batch, models.Place{
			ID:         s.places.NextID(),
			Title:      title,
			Coordinate: coord,
			PhotoRef:   ref,
		})
	}

	s.places.Merge(batch)

	s.mu.Lock()
	s.state = StateIdle
	s.draft = models.Draft{}
	s.mu.Unlock()

	log.Info().Int("places", len(batch)).Str("name", name).Msg("draft committed")
	return batch, nil
}

func (s *AddPlaceSession) appendAttachments(refs []models.PhotoRef) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return
	}
	s.draft.Attachments = append(s.draft.Attachments, refs...)
}

func (s *AddPlaceSession) checkEditing() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requireEditing()
}

// requireEditing must be called with the lock held.
func (s *AddPlaceSession) requireEditing() error {
	if s.state == StateEditing {
		return nil
	}
	return fmt.Errorf("service: session is %s, not editing", s.state)
}

func permissionError(d models.PermissionDecision) error {
	switch d {
	case models.PermissionGranted:
		return nil
	case models.PermissionPermanentlyDenied:
		return models.ErrPermissionPermanentlyDenied
	default:
		return models.ErrPermissionDenied
	}
}
