package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
)

type UserRepo struct {
	kv     KV
	logger *log.Logger
}

func NewUserRepo(kv KV, logger *log.Logger) *UserRepo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &UserRepo{kv: kv, logger: logger}
}

// Users returns the username -> account map.
func (r *UserRepo) Users(ctx context.Context) (map[string]User, error) {
	users := map[string]User{}
	raw, err := r.kv.Get(ctx, KeyUsers)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return users, nil
		}
		return nil, fmt.Errorf("users get: %w", err)
	}
	if err := json.Unmarshal(raw, &users); err != nil {
		r.logger.Printf("users record corrupt, starting empty: %v", err)
		return map[string]User{}, nil
	}
	return users, nil
}

// CreateWithSession stores the users map and signs username in, atomically.
func (r *UserRepo) CreateWithSession(ctx context.Context, users map[string]User, current CurrentUser) error {
	usersJSON, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	return r.kv.Update(ctx, func(w Writer) error {
		if err := w.Put(ctx, KeyUsers, usersJSON); err != nil {
			return err
		}
		return w.Put(ctx, KeyCurrentUser, currentJSON)
	})
}

// Current returns the signed-in user, or nil when nobody is signed in.
func (r *UserRepo) Current(ctx context.Context) (*CurrentUser, error) {
	raw, err := r.kv.Get(ctx, KeyCurrentUser)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("current user get: %w", err)
	}
	var cu CurrentUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		r.logger.Printf("currentUser record corrupt, treating as signed out: %v", err)
		return nil, nil
	}
	if cu.Username == "" {
		return nil, nil
	}
	return &cu, nil
}

func (r *UserRepo) SetCurrent(ctx context.Context, cu CurrentUser) error {
	data, err := json.Marshal(cu)
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}
	if err := r.kv.Put(ctx, KeyCurrentUser, data); err != nil {
		return fmt.Errorf("current user set: %w", err)
	}
	return nil
}

func (r *UserRepo) ClearCurrentWith(ctx context.Context, w Writer) error {
	if err := w.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("current user clear: %w", err)
	}
	return nil
}
