package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/roomkit/pkg/errors"
)

// FileStore keeps one file per key in a directory. Writes go to a temp file
// that is renamed into place, so readers never see a partial value.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir, creating it if needed.
// If dir is empty, DefaultDir() is used.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, unavailable(err, "resolve state dir")
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, unavailable(err, "create state dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Dir returns the directory holding the state files.
func (s *FileStore) Dir() string { return s.dir }

// Get reads the value stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := errors.ValidateID("key", key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readFailed(err, key)
	}
	return data, true, nil
}

// Set writes data under key atomically.
func (s *FileStore) Set(ctx context.Context, key string, data []byte) error {
	if err := errors.ValidateID("key", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return writeFailed(err, key)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return writeFailed(err, key)
	}
	if err := tmp.Close(); err != nil {
		return writeFailed(err, key)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return writeFailed(err, key)
	}
	return nil
}

// Delete removes key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateID("key", key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return writeFailed(err, key)
	}
	return nil
}

// Close does nothing for file stores.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
