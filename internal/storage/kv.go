package storage

import (
	"context"
	"errors"
)

// Record keys. Every record is stored as a single JSON document.
const (
	KeyUsers       = "users"
	KeyCurrentUser = "currentUser"
	KeyGameData    = "gameData"
	KeyTasks       = "tasks"
	KeyRewardLog   = "rewardLog"
)

// ErrNotFound is returned by KV.Get when a key has never been written.
var ErrNotFound = errors.New("record not found")

// Writer is the write half of a KV, handed to Update callbacks.
type Writer interface {
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// KV is the keyed record store the rest of the application persists through.
type KV interface {
	Writer
	Get(ctx context.Context, key string) ([]byte, error)
	// Update applies every write made by fn atomically.
	Update(ctx context.Context, fn func(w Writer) error) error
	Close() error
}
