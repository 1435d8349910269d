// Package persist mirrors the task list to a key-value store.
//
// Load seeds the initial list and never fails: an absent key, a read error, or
// a value that does not match the storage schema all yield an empty list.
// Save replaces the stored value with the whole list every time it is called.
package persist

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/mschirtzinger/taskmgr/internal/storage"
	"github.com/mschirtzinger/taskmgr/internal/tasks"
)

// DefaultKey is the storage key the task list lives under.
const DefaultKey = "tasks"

// Config configures a Bridge.
type Config struct {
	// Key is the storage key (default: "tasks").
	Key string

	// Logger receives load/save warnings (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Key:    DefaultKey,
		Logger: log.New(os.Stderr, "[persist] ", log.LstdFlags),
	}
}

// Bridge loads and saves the task list under a single key.
type Bridge struct {
	store  storage.Store
	key    string
	logger *log.Logger
}

// New creates a Bridge over store. A nil config uses DefaultConfig.
func New(store storage.Store, config *Config) *Bridge {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}
	key := config.Key
	if key == "" {
		key = defaults.Key
	}
	logger := config.Logger
	if logger == nil {
		logger = defaults.Logger
	}

	return &Bridge{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Key returns the storage key.
func (b *Bridge) Key() string {
	return b.key
}

// Load reads the stored list. It never returns an error; anything other than
// a valid stored list degrades to an empty list.
func (b *Bridge) Load(ctx context.Context) tasks.List {
	data, err := b.store.Get(ctx, b.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			b.logger.Printf("Warning: failed to read %q, starting empty: %v", b.key, err)
		}
		return tasks.List{}
	}

	list, err := Decode(data)
	if err != nil {
		b.logger.Printf("Warning: ignoring malformed %q, starting empty: %v", b.key, err)
		return tasks.List{}
	}
	return list
}

// Save serializes list and replaces the stored value.
func (b *Bridge) Save(ctx context.Context, list tasks.List) error {
	data, err := Encode(list)
	if err != nil {
		return err
	}
	return b.store.Set(ctx, b.key, data)
}
