package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"placemark-api/internal/store"
)

// sessionTTL is how long an untouched session survives. Entries past it are
// swept when a new session starts.
const sessionTTL = 30 * time.Minute

type sessionEntry struct {
	session  *AddPlaceSession
	lastSeen time.Time
}

// Sessions tracks active add-place sessions by id for the HTTP facade. Each
// user flow gets its own session. Abandoned sessions are dropped once they
// go untouched for sessionTTL; a session mid-commit is never swept.
type Sessions struct {
	mu   sync.Mutex
	byID map[string]*sessionEntry

	resolver *GeoResolver
	location LocationProvider
	places   *store.PlaceStore
}

// NewSessions creates an empty registry.
func NewSessions(resolver *GeoResolver, location LocationProvider, places *store.PlaceStore) *Sessions {
	return &Sessions{
		byID:     make(map[string]*sessionEntry),
		resolver: resolver,
		location: location,
		places:   places,
	}
}

// Start creates a session, moves it to editing and returns its id.
func (m *Sessions) Start() (string, *AddPlaceSession) {
	s := NewAddPlaceSession(m.resolver, m.location, m.places)
	_ = s.Start()

	id := uuid.NewString()

	m.mu.Lock()
	m.sweepLocked(time.Now())
	m.byID[id] = &sessionEntry{session: s, lastSeen: time.Now()}
	m.mu.Unlock()

	return id, s
}

// Get returns the session with the given id and marks it as touched.
func (m *Sessions) Get(id string) (*AddPlaceSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.session, true
}

// End cancels and removes a session. Ending an unknown id is a no-op; ending
// a session mid-commit fails and keeps it registered.
func (m *Sessions) End(id string) error {
	m.mu.Lock()
	e, ok := m.byID[id]
	m.mu.Unlock()

	if !ok {
		return nil
	}
	if err := e.session.Cancel(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.byID, id)
	m.mu.Unlock()
	return nil
}

// sweepLocked drops entries untouched for longer than sessionTTL. Must be
// called with the registry lock held.
func (m *Sessions) sweepLocked(now time.Time) {
	for id, e := range m.byID {
		if now.Sub(e.lastSeen) < sessionTTL {
			continue
		}
		if e.session.State() == StateSaving {
			continue
		}
		delete(m.byID, id)
	}
}
