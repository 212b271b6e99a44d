package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS storage_entries(
  namespace  TEXT NOT NULL,
  key        TEXT NOT NULL,
  value      TEXT NOT NULL,
  updated_at TEXT,
  PRIMARY KEY (namespace, key)
);`

// SQLite stores entries in a single-file database, one row per key. This is
// the default driver: the file is the storefront profile on this machine.
type SQLite struct {
	db        *sqlx.DB
	path      string
	namespace string
}

// NewSQLite opens (creating if needed) the database at path. ":memory:" is
// accepted for tests.
func NewSQLite(ctx context.Context, path, namespace string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite storage: %w", err)
	}
	// one connection: writes are serialized and ":memory:" stays a single database
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite storage: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create storage schema: %w", err)
	}

	return &SQLite{db: db, path: path, namespace: namespace}, nil
}

// Path returns the database file path
func (s *SQLite) Path() string {
	return s.path
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT value FROM storage_entries WHERE namespace = ? AND key = ?`, s.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO storage_entries(namespace, key, value, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`, s.namespace, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM storage_entries WHERE namespace = ? AND key IN (?)`, s.namespace, keys)
	if err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("sqlite delete: %w", err)
	}
	return nil
}

// Health pings the database
func (s *SQLite) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
