/*
Package store defines where the fee configuration lives between requests.

PURPOSE:
  The fee engine reads {rate, schedule} once per computation and never
  writes it. The Store is the boundary that hands it out and accepts
  updates from an operator. Implementations decide how it is kept.

KEY INTERFACES:
  Store:          Get / Set the current configuration
  VersionedStore: adds History (every Set is kept as a new version)

APPEND-ONLY:
  Set never overwrites. Each call appends a new version; Get returns the
  latest one. An audit of who changed the rate and when is then a query,
  not a separate log.

IMPLEMENTATIONS:
  - store/memory: in-memory, for tests and `latefee quote`
  - store/sqlite: SQLite, for the HTTP service

SEE ALSO:
  - config/config.go: the Configuration value and its validation
  - api/handlers.go:  GET/PUT /api/config
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/warp/latefee/config"
)

// =============================================================================
// STORE - Configuration persistence
// =============================================================================

// Store hands out the current fee configuration and accepts replacements.
type Store interface {
	// Get returns the latest configuration, or ErrNotFound if none was set.
	Get(ctx context.Context) (config.Configuration, error)

	// Set validates and appends a new configuration version.
	// Malformed days are stored closed.
	Set(ctx context.Context, cfg config.Configuration) error
}

// VersionedStore keeps every configuration ever set.
type VersionedStore interface {
	Store

	// History returns up to limit versions, newest first. limit <= 0 means all.
	History(ctx context.Context, limit int) ([]Version, error)
}

// Version is one stored configuration.
type Version struct {
	ID        string
	Config    config.Configuration
	CreatedAt time.Time
}

// NewVersionID returns a sortable unique identifier for a version.
func NewVersionID() string {
	return ulid.Make().String()
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned by Get when no configuration was ever stored.
	ErrNotFound = errors.New("configuration not found")

	// ErrStoreClosed is returned when the backing database is gone.
	ErrStoreClosed = errors.New("store closed")
)

// IsNotFound returns true if the error indicates a missing configuration.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, config.ErrInvalidConfig)
}

// =============================================================================
// HELPERS
// =============================================================================

// GetOrDefault returns the stored configuration, or config.Default() when
// nothing was stored yet.
func GetOrDefault(ctx context.Context, s Store) (config.Configuration, error) {
	cfg, err := s.Get(ctx)
	if IsNotFound(err) {
		return config.Default(), nil
	}
	return cfg, err
}

// Seed stores cfg only when the store is still empty. Returns true when it
// wrote.
func Seed(ctx context.Context, s Store, cfg config.Configuration) (bool, error) {
	_, err := s.Get(ctx)
	switch {
	case err == nil:
		return false, nil
	case !IsNotFound(err):
		return false, err
	}
	if err := s.Set(ctx, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// Prepare validates cfg and returns the normalized value to persist.
// Implementations call it at the top of Set.
func Prepare(cfg config.Configuration) (config.Configuration, error) {
	if err := cfg.Validate(); err != nil {
		return config.Configuration{}, err
	}
	normalized, _ := cfg.Normalize()
	return normalized, nil
}
