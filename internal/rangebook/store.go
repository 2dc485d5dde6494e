package rangebook

import (
	"context"
	"strings"
	"sync"
)

// Store caches binned grids across sessions. LoadGrid returns (nil, nil)
// when the name is not cached.
type Store interface {
	SaveGrid(ctx context.Context, name string, grid *Grid) error
	LoadGrid(ctx context.Context, name string) (*Grid, error)
}

// memstore is the fallback used when no Redis cache is configured.
type memstore struct {
	mu    sync.RWMutex
	grids map[string]*Grid
}

func NewMemoryStore() Store {
	return &memstore{grids: make(map[string]*Grid)}
}

func (m *memstore) SaveGrid(ctx context.Context, name string, grid *Grid) error {
	if grid == nil || strings.TrimSpace(name) == "" {
		return nil
	}
	cp := *grid
	m.mu.Lock()
	m.grids[name] = &cp
	m.mu.Unlock()
	return nil
}

func (m *memstore) LoadGrid(ctx context.Context, name string) (*Grid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.grids[name]; ok && g != nil {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}
