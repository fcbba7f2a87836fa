package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const recordsBucket = "records"

// BoltKV stores records in a single BoltDB bucket.
type BoltKV struct {
	db *bbolt.DB
}

// OpenBolt opens a BoltDB-backed record store at the provided path.
func OpenBolt(path string) (*BoltKV, error) {
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordsBucket)); err != nil {
			return fmt.Errorf("create records bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltKV{db: db}, nil
}

func (s *BoltKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucket))
		if bucket == nil {
			return fmt.Errorf("records bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return ErrNotFound
		}
		// Bolt memory is only valid for the life of the transaction.
		out = append([]byte(nil), payload...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltKV) Put(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, func(w Writer) error { return w.Put(ctx, key, value) })
}

func (s *BoltKV) Delete(ctx context.Context, key string) error {
	return s.Update(ctx, func(w Writer) error { return w.Delete(ctx, key) })
}

func (s *BoltKV) Update(ctx context.Context, fn func(w Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucket))
		if bucket == nil {
			return fmt.Errorf("records bucket is missing")
		}
		return fn(boltWriter{bucket: bucket})
	})
}

func (s *BoltKV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type boltWriter struct {
	bucket *bbolt.Bucket
}

func (w boltWriter) Put(_ context.Context, key string, value []byte) error {
	if err := w.bucket.Put([]byte(key), value); err != nil {
		return fmt.Errorf("record put %s: %w", key, err)
	}
	return nil
}

func (w boltWriter) Delete(_ context.Context, key string) error {
	if err := w.bucket.Delete([]byte(key)); err != nil {
		return fmt.Errorf("record delete %s: %w", key, err)
	}
	return nil
}
