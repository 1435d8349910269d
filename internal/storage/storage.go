// Package storage provides the durable key-value stores the task list is
// persisted to.
//
// Three backends share one interface:
//   - memory: map-backed, lost on exit
//   - file:   one JSON file per key in a data directory, written atomically
//   - sqlite: a kv table in an embedded SQLite database (WAL mode)
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key-value store. Set replaces the whole value.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the store. Calling Close twice is safe.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// SQLiteFile is the database filename used by the sqlite backend.
const SQLiteFile = "tasks.db"

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendMemory, BackendFile, BackendSQLite.
	Backend string

	// Dir is the data directory for the file and sqlite backends.
	Dir string
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, fmt.Errorf("data directory is required for the %s backend", BackendFile)
		}
		return NewFile(opts.Dir)
	case BackendSQLite:
		if opts.Dir == "" {
			return nil, fmt.Errorf("data directory is required for the %s backend", BackendSQLite)
		}
		db, err := OpenSQLite(filepath.Join(opts.Dir, SQLiteFile))
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			opts.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
}

// validKey rejects keys that cannot be used as a file name.
func validKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
