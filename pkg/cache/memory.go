package cache

import (
	"context"
	"sync"

	"github.com/latoulicious/umaroster/pkg/uma"
	"github.com/latoulicious/umaroster/pkg/uma/shared"
)

// MemoryFavourites keeps the favourite set in process memory.
// LoadErr and SaveErr, when set, are returned instead of touching the set.
type MemoryFavourites struct {
	mu      sync.Mutex
	set     shared.FavouriteSet
	loadErr error
	saveErr error
	saves   int
}

var _ uma.FavouritesPersistence = (*MemoryFavourites)(nil)

// NewMemoryFavourites creates an in-memory store seeded with ids
func NewMemoryFavourites(ids ...int) *MemoryFavourites {
	return &MemoryFavourites{set: shared.NewFavouriteSet(ids...)}
}

func (m *MemoryFavourites) Load(ctx context.Context) (shared.FavouriteSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.set.Clone(), nil
}

func (m *MemoryFavourites) Save(ctx context.Context, set shared.FavouriteSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.set = set.Clone()
	m.saves++
	return nil
}

// FailLoad makes subsequent loads return err; nil clears it
func (m *MemoryFavourites) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes subsequent saves return err; nil clears it
func (m *MemoryFavourites) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Snapshot returns a copy of the stored set
func (m *MemoryFavourites) Snapshot() shared.FavouriteSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set.Clone()
}

// Saves counts successful writes
func (m *MemoryFavourites) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
