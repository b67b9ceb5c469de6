// Package memory provides an in-memory store.VersionedStore.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/warp/latefee/config"
	"github.com/warp/latefee/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	versions []store.Version // oldest first
	now      func() time.Time
}

func New() *Memory {
	return &Memory{now: time.Now}
}

// Get returns the latest configuration.
func (m *Memory) Get(_ context.Context) (config.Configuration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.versions) == 0 {
		return config.Configuration{}, store.ErrNotFound
	}
	return m.versions[len(m.versions)-1].Config, nil
}

// Set appends a new version. Append-only.
func (m *Memory) Set(_ context.Context, cfg config.Configuration) error {
	prepared, err := store.Prepare(cfg)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.versions = append(m.versions, store.Version{
		ID:        store.NewVersionID(),
		Config:    prepared,
		CreatedAt: m.now().UTC(),
	})
	return nil
}

// History returns versions newest first.
func (m *Memory) History(_ context.Context, limit int) ([]store.Version, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.versions)
	if limit > 0 && limit < n {
		n = limit
	}
	result := make([]store.Version, 0, n)
	for i := len(m.versions) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, m.versions[i])
	}
	return result, nil
}
