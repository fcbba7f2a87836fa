package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx runs fn inside a SQL transaction.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// txWriter routes KV writes through an open transaction.
type txWriter struct {
	tx *sql.Tx
}

func (w txWriter) Put(ctx context.Context, key string, value []byte) error {
	return putRecord(ctx, w.tx, key, value)
}

func (w txWriter) Delete(ctx context.Context, key string) error {
	return deleteRecord(ctx, w.tx, key)
}
