package memory

import (
	"context"
	"sync"

	"stockbook/internal/inventory"
	"stockbook/internal/store"
)

// Store keeps the last saved snapshot in process memory. Data is lost on exit.
type Store struct {
	mu    sync.RWMutex
	snap  inventory.Snapshot
	saved bool
}

func New() *Store {
	return &Store{}
}

// NewSeeded starts with snap already saved.
func NewSeeded(snap inventory.Snapshot) *Store {
	return &Store{snap: snap.Clone(), saved: true}
}

func (s *Store) Load(_ context.Context) (inventory.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.saved {
		return inventory.Snapshot{}, store.ErrNotFound
	}
	return s.snap.Clone(), nil
}

func (s *Store) Save(ctx context.Context, snap inventory.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.saved = true
	return nil
}
