package store

import (
	"sync"
	"sync/atomic"
	"time"

	"placemark-api/internal/models"
)

// PlaceStore is the process-wide registry of saved places. It is an explicit
// object constructed at startup and passed by reference, so every test can
// work with a fresh instance.
//
// The store is append-only: places are never mutated or removed once merged.
// Merge performs its read-modify-write under a single lock, so two merges
// scheduled back to back from different goroutines both land.
type PlaceStore struct {
	mu     sync.RWMutex
	places []models.Place
	ids    map[int64]struct{}
	subs   map[int]chan struct{}
	subSeq int

	nextID atomic.Int64
}

// New creates an empty store. The id counter starts above the current wall
// clock in milliseconds, matching the id scheme of records produced by older
// clients, so ids allocated here never collide with ids carried in payloads.
func New() *PlaceStore {
	s := &PlaceStore{
		ids:  make(map[int64]struct{}),
		subs: make(map[int]chan struct{}),
	}
	s.nextID.Store(time.Now().UnixMilli())
	return s
}

// Seed installs the initial place set. It is called once at store creation,
// before any merge.
func (s *PlaceStore) Seed(initial []models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.places = append(s.places[:0], initial...)
	for _, p := range initial {
		s.ids[p.ID] = struct{}{}
		s.reserveID(p.ID)
	}
}

// reserveID bumps the counter past an externally allocated id so NextID
// never re-issues it.
func (s *PlaceStore) reserveID(id int64) {
	for {
		next := s.nextID.Load()
		if id < next {
			return
		}
		if s.nextID.CompareAndSwap(next, id+1) {
			return
		}
	}
}

// Merge appends each incoming place whose id is not present yet. A place with
// a known id is skipped entirely: merging is idempotent, never an overwrite
// and never a duplicate. Insertion order of existing places is preserved and
// new places are appended in the order given. Incoming ids are reserved in
// the counter, so a payload-supplied id can never be re-issued by NextID.
func (s *PlaceStore) Merge(incoming []models.Place) {
	s.mu.Lock()
	added := false
	for _, p := range incoming {
		s.reserveID(p.ID)
		if _, ok := s.ids[p.ID]; ok {
			continue
		}
		s.ids[p.ID] = struct{}{}
		s.places = append(s.places, p)
		added = true
	}
	s.mu.Unlock()

	if added {
		s.notify()
	}
}

// List returns a snapshot copy of the current places. Callers may iterate it
// freely while other goroutines merge.
func (s *PlaceStore) List() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Place, len(s.places))
	copy(out, s.places)
	return out
}

// Get returns the place with the given id.
func (s *PlaceStore) Get(id int64) (models.Place, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.places {
		if p.ID == id {
			return p, true
		}
	}
	return models.Place{}, false
}

// Len reports the number of stored places.
func (s *PlaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.places)
}

// NextID allocates a store-unique id. Ids are monotonic, so several places
// created within one commit batch never collide.
func (s *PlaceStore) NextID() int64 {
	return s.nextID.Add(1) - 1
}

// Subscribe returns a channel that receives a signal whenever a merge adds at
// least one place, plus a cancel function releasing the subscription.
func (s *PlaceStore) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.subSeq
	s.subSeq++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *PlaceStore) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// DefaultPlaces returns the seed set the application ships with.
func DefaultPlaces() []models.Place {
	return []models.Place{
		{
			ID:    1,
			Title: "Kiosco",
			Coordinate: models.Coordinate{
				Latitude:  -34.6096,
				Longitude: -58.4303,
			},
		},
		{
			ID:    2,
			Title: "Casa de Torcha",
			Coordinate: models.Coordinate{
				Latitude:  -34.5909,
				Longitude: -58.4172,
			},
		},
	}
}
