package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
)

// RewardLogLimit caps how many reward entries are retained.
const RewardLogLimit = 50

type RewardRepo struct {
	kv     KV
	logger *log.Logger
}

func NewRewardRepo(kv KV, logger *log.Logger) *RewardRepo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &RewardRepo{kv: kv, logger: logger}
}

// Recent returns up to RewardLogLimit entries, newest first.
func (r *RewardRepo) Recent(ctx context.Context) ([]RewardEntry, error) {
	raw, err := r.kv.Get(ctx, KeyRewardLog)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reward log get: %w", err)
	}
	var out []RewardEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		r.logger.Printf("rewardLog record corrupt, starting empty: %v", err)
		return nil, nil
	}
	return out, nil
}

// Append records e at the head of the log, dropping the oldest overflow.
func (r *RewardRepo) Append(ctx context.Context, e RewardEntry) error {
	entries, err := r.Recent(ctx)
	if err != nil {
		return err
	}
	entries = append([]RewardEntry{e}, entries...)
	if len(entries) > RewardLogLimit {
		entries = entries[:RewardLogLimit]
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal reward log: %w", err)
	}
	if err := r.kv.Put(ctx, KeyRewardLog, data); err != nil {
		return fmt.Errorf("reward log append: %w", err)
	}
	return nil
}

func (r *RewardRepo) ClearWith(ctx context.Context, w Writer) error {
	if err := w.Delete(ctx, KeyRewardLog); err != nil {
		return fmt.Errorf("reward log clear: %w", err)
	}
	return nil
}
