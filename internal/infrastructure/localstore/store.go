// Package localstore is the persistence port for device-local state.
// Each collection is serialized whole under a distinct namespaced key.
// Single profile only: no cross-device sync, no server-side database.
package localstore

import (
	"context"
	"errors"
	"fmt"

	"mzansishield/internal/config"
)

// Namespaced snapshot keys. One key per collection.
const (
	KeyReports = "mzansishield:reports"
	KeyHistory = "mzansishield:check-history"
)

// ErrNotFound is returned when no snapshot exists for a key
var ErrNotFound = errors.New("localstore: key not found")

// Store persists whole-collection snapshots by key. Implementations
// must be safe for concurrent use.
type Store interface {
	// Load returns the snapshot stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes the snapshot stored under key. Deleting a
	// missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backing medium is usable.
	Ping(ctx context.Context) error

	Close() error
}

// New creates a Store for the configured driver
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "file", "":
		return NewFileStore(cfg.Dir)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("localstore: unknown driver %q", cfg.Driver)
	}
}
