package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
)

type ProgressRepo struct {
	kv       KV
	defaults func() Progress
	logger   *log.Logger
}

// NewProgressRepo builds a repo that merges stored records over defaults().
func NewProgressRepo(kv KV, defaults func() Progress, logger *log.Logger) *ProgressRepo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ProgressRepo{kv: kv, defaults: defaults, logger: logger}
}

// Load returns the stored progress merged over defaults. A missing record
// yields defaults; so does a corrupt one (logged, never fatal).
func (r *ProgressRepo) Load(ctx context.Context) (Progress, error) {
	p := r.defaults()
	raw, err := r.kv.Get(ctx, KeyGameData)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return p, nil
		}
		return Progress{}, fmt.Errorf("progress load: %w", err)
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Printf("progress record corrupt, using defaults: %v", err)
		return r.defaults(), nil
	}
	return r.normalize(p), nil
}

func (r *ProgressRepo) Save(ctx context.Context, p Progress) error {
	return r.SaveWith(ctx, r.kv, p)
}

// SaveWith writes p through w, letting callers batch it inside KV.Update.
func (r *ProgressRepo) SaveWith(ctx context.Context, w Writer, p Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}
	if err := w.Put(ctx, KeyGameData, data); err != nil {
		return fmt.Errorf("progress save: %w", err)
	}
	return nil
}

// normalize repairs values no valid update could have produced.
func (r *ProgressRepo) normalize(p Progress) Progress {
	d := r.defaults()
	if p.Level < 1 {
		p.Level = d.Level
	}
	if p.Points < 0 {
		p.Points = 0
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	if p.TasksCompleted < 0 {
		p.TasksCompleted = 0
	}
	if p.GamesPlayed < 0 {
		p.GamesPlayed = 0
	}
	for _, g := range d.UnlockedGames {
		if !p.HasGame(g) {
			p.UnlockedGames = append([]string{g}, p.UnlockedGames...)
		}
	}
	return p
}
