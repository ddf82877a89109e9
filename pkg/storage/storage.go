// Package storage provides durable key-value backends for room state.
//
// The engine keeps exactly one current layout under a well-known key and
// rewrites it after every change. This package supplies the places that
// text can live:
//   - file: one file per key under the user's config directory (CLI default)
//   - memory: process-local map for tests and ephemeral sessions
//   - null: storage unavailable; reads miss and writes are dropped
//   - sqlite: a single-table database file
//   - redis: a shared Redis instance, keys optionally prefixed
//
// # Usage
//
//	store, err := storage.Open(ctx, storage.Config{Backend: storage.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	data, ok, err := store.Get(ctx, "furniture-state")
//	if err != nil || !ok {
//	    // nothing to restore
//	}
//
// A miss is reported as ok == false with a nil error. Errors are reserved
// for a backend that exists but cannot be read or written.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// Store is a durable key-value store.
type Store interface {
	// Get returns the value for key. A missing key is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendNull   Backend = "null"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// Backends lists the supported backend names.
func Backends() []Backend {
	return []Backend{BackendFile, BackendMemory, BackendNull, BackendSQLite, BackendRedis}
}

// Config selects and configures a backend.
type Config struct {
	Backend Backend

	// Dir is the FileStore directory. Empty means DefaultDir().
	Dir string

	// SQLitePath is the database file. Empty means roomkit.db in DefaultDir().
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open constructs the configured backend. An empty Backend means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendFile:
		return NewFileStore(cfg.Dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNull:
		return NewNullStore(), nil
	case BackendSQLite:
		path := cfg.SQLitePath
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "roomkit.db")
		}
		return NewSQLiteStore(ctx, path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown storage backend %q", cfg.Backend)
}

// DefaultDir returns $XDG_CONFIG_HOME/roomkit/state, falling back to
// ~/.config/roomkit/state.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roomkit", "state"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "roomkit", "state"), nil
}

func unavailable(err error, format string, args ...any) error {
	return errors.Wrap(errors.ErrCodeStorageUnavailable, err, format, args...)
}

func readFailed(err error, key string) error {
	return errors.Wrap(errors.ErrCodeStorageRead, err, "read %s", key)
}

func writeFailed(err error, key string) error {
	return errors.Wrap(errors.ErrCodeStorageWrite, err, "write %s", key)
}
