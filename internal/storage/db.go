package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// DefaultDBPath returns the default TaskCade DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".taskcade.db"), nil
}

// Open opens (and creates if missing) the record store for backend at path.
func Open(ctx context.Context, backend string, path string) (KV, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(ctx, path)
	case BackendBolt:
		return OpenBolt(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// SQLiteKV stores records as rows of a single table.
type SQLiteKV struct {
	db *sql.DB
}

// OpenSQLite opens the SQLite database at the provided path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteKV, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteKV{db: db}, nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("record get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	return putRecord(ctx, s.db, key, value)
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	return deleteRecord(ctx, s.db, key)
}

func (s *SQLiteKV) Update(ctx context.Context, fn func(w Writer) error) error {
	return WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(txWriter{tx: tx})
	})
}

func (s *SQLiteKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func putRecord(ctx context.Context, db execer, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record put %s: %w", key, err)
	}
	return nil
}

func deleteRecord(ctx context.Context, db execer, key string) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("record delete %s: %w", key, err)
	}
	return nil
}
