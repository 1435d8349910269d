// Package migrate copies the stored task list between storage backends.
package migrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mschirtzinger/taskmgr/internal/persist"
	"github.com/mschirtzinger/taskmgr/internal/storage"
)

// BackupTimeFormat is the timestamp suffix of backup keys.
const BackupTimeFormat = "20060102-150405"

// Options contains configuration for the migration
type Options struct {
	From storage.Store // Source store
	To   storage.Store // Destination store
	Key  string        // Storage key (default: "tasks")

	DryRun bool // Preview without writing
	Backup bool // Keep the destination's previous value under a backup key

	// Now returns the backup timestamp (default: time.Now).
	Now func() time.Time
}

// Result contains statistics about the migration
type Result struct {
	TasksCopied int
	BackupKey   string
	DryRun      bool
}

// Migrate copies the list stored under Key from opts.From to opts.To.
// Unlike persist.Bridge.Load, a missing or malformed source is an error.
func Migrate(ctx context.Context, opts Options) (*Result, error) {
	if opts.From == nil || opts.To == nil {
		return nil, fmt.Errorf("both source and destination stores are required")
	}
	key := opts.Key
	if key == "" {
		key = persist.DefaultKey
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	data, err := opts.From.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("source has no %q value to migrate", key)
		}
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	list, err := persist.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("source value is not a valid task list: %w", err)
	}

	result := &Result{TasksCopied: len(list), DryRun: opts.DryRun}
	if opts.DryRun {
		return result, nil
	}

	if opts.Backup {
		existing, err := opts.To.Get(ctx, key)
		switch {
		case err == nil:
			backupKey := key + ".backup." + now().Format(BackupTimeFormat)
			if err := opts.To.Set(ctx, backupKey, existing); err != nil {
				return nil, fmt.Errorf("failed to create backup: %w", err)
			}
			result.BackupKey = backupKey
		case errors.Is(err, storage.ErrNotFound):
			// Nothing to back up.
		default:
			return nil, fmt.Errorf("failed to read destination for backup: %w", err)
		}
	}

	encoded, err := persist.Encode(list)
	if err != nil {
		return nil, err
	}
	if err := opts.To.Set(ctx, key, encoded); err != nil {
		return nil, fmt.Errorf("failed to write destination: %w", err)
	}

	return result, nil
}
