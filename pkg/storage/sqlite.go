package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps values in a single SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !stderrors.Is(err, os.ErrExist) {
		return nil, unavailable(err, "create dirs for %s", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, unavailable(err, "open sqlite %s", path)
	}
	// One writer at a time; sqlite serializes anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, unavailable(err, "create state table")
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string { return s.path }

// Get reads the payload for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE key = ?`, key).Scan(&payload)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readFailed(err, key)
	}
	return payload, true, nil
}

// Set upserts the payload for key.
func (s *SQLiteStore) Set(ctx context.Context, key string, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state(key, payload) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, data)
	if err != nil {
		return writeFailed(err, key)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		return writeFailed(err, key)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
