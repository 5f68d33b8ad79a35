package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexbid/auction-signup/internal/model"
)

// ErrDraftNotFound is returned when no draft exists for the given ID, either
// because it was never created, was discarded, or its session expired.
// Handlers should translate this into an HTTP 404 response.
var ErrDraftNotFound = errors.New("draft not found")

// Store keeps draft sessions between requests.  Implementations must hand
// out independent copies so concurrent readers never share a fields map.
type Store interface {
	// Create opens a fresh draft session with a new ID and empty state.
	Create(ctx context.Context) (*model.Draft, error)
	// Get loads a draft by ID, or ErrDraftNotFound.
	Get(ctx context.Context, id string) (*model.Draft, error)
	// Update atomically applies fn to the freshest draft state, persists
	// the result and resets the session TTL.  An error from fn aborts the
	// update and is returned unchanged.  All writers go through Update so
	// a writer racing another (a field edit against the ingest commit, for
	// example) can never erase committed state with a stale whole-draft
	// write.
	Update(ctx context.Context, id string, fn func(d *model.Draft) error) error
	// Delete discards a draft and everything attached to it.
	Delete(ctx context.Context, id string) error
}

// newDraft builds the zero state every session starts from: no field
// values, consent not accepted, no image, no error message.
func newDraft() *model.Draft {
	now := time.Now().UTC()
	return &model.Draft{
		ID:        uuid.NewString(),
		Fields:    make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MemoryStore is a map-backed Store.  It serves tests and acts as the
// graceful-degrade fallback when Redis is unavailable at startup.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[string]*model.Draft
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]*model.Draft)}
}

// Create opens a new draft session.
func (s *MemoryStore) Create(ctx context.Context) (*model.Draft, error) {
	d := newDraft()
	s.mu.Lock()
	s.drafts[d.ID] = d.Clone()
	s.mu.Unlock()
	return d, nil
}

// Get loads a copy of the draft.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d.Clone(), nil
}

// Update applies fn to the stored draft under the store lock, so competing
// writers serialize and each one sees the other's committed state.
func (s *MemoryStore) Update(ctx context.Context, id string, fn func(d *model.Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.drafts[id]
	if !ok {
		return ErrDraftNotFound
	}
	work := cur.Clone()
	if err := fn(work); err != nil {
		return err
	}
	work.UpdatedAt = time.Now().UTC()
	s.drafts[id] = work
	return nil
}

// Delete discards the draft.  Deleting an unknown ID is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()
	return nil
}
