/*
Package sqlite provides a SQLite-backed store.VersionedStore.

PURPOSE:
  Keeps the fee configuration across restarts of the service. Each Set
  appends a row; Get reads the newest row.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on fee_configs
  - No DELETE statements on fee_configs
  - A rate change is a new version, the old one stays for audit

KEY TABLES:
  fee_configs: one row per configuration version, JSON encoded with the
               same wire shape the API accepts (config.ConfigurationJSON)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, SQLite opened in WAL mode so readers
  do not block on the single writer.

USAGE:
  s, err := sqlite.New("./data/latefee.db")
  if err != nil {
      return err
  }
  defer s.Close()

  cfg, err := store.GetOrDefault(ctx, s)

SEE ALSO:
  - store/store.go:  interface definitions
  - store/memory:    in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/store"
)

// Store implements store.VersionedStore using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return store.ErrStoreClosed
	}
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Fee configurations (append-only, newest row wins)
	CREATE TABLE IF NOT EXISTS fee_configs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		config_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fee_configs_created_at
		ON fee_configs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONFIGURATION STORE (store.VersionedStore interface)
// =============================================================================

// Get returns the newest configuration.
func (s *Store) Get(ctx context.Context) (config.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return config.Configuration{}, store.ErrStoreClosed
	}

	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT config_json FROM fee_configs ORDER BY seq DESC LIMIT 1",
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		return config.Configuration{}, store.ErrNotFound
	}
	if err != nil {
		return config.Configuration{}, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		return config.Configuration{}, fmt.Errorf("failed to decode stored configuration: %w", err)
	}
	return cfg, nil
}

// Set appends a new configuration version.
func (s *Store) Set(ctx context.Context, cfg config.Configuration) error {
	prepared, err := store.Prepare(cfg)
	if err != nil {
		return err
	}
	data, err := config.Marshal(prepared)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrStoreClosed
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO fee_configs (id, config_json, created_at) VALUES (?, ?, ?)",
		store.NewVersionID(),
		string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// History returns stored versions, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]store.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrStoreClosed
	}

	query := "SELECT id, config_json, created_at FROM fee_configs ORDER BY seq DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query configuration history: %w", err)
	}
	defer rows.Close()

	var versions []store.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func scanVersion(rows *sql.Rows) (store.Version, error) {
	var (
		v         store.Version
		raw       string
		createdAt string
	)
	if err := rows.Scan(&v.ID, &raw, &createdAt); err != nil {
		return store.Version{}, fmt.Errorf("failed to scan configuration version: %w", err)
	}

	cfg, err := config.Parse([]byte(raw))
	if err != nil {
		return store.Version{}, fmt.Errorf("failed to decode configuration version %s: %w", v.ID, err)
	}
	v.Config = cfg
	v.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return v, nil
}
