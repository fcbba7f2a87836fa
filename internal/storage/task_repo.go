package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
)

type TaskRepo struct {
	kv     KV
	logger *log.Logger
}

func NewTaskRepo(kv KV, logger *log.Logger) *TaskRepo {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &TaskRepo{kv: kv, logger: logger}
}

// ListAll returns every task, newest first. A corrupt record reads as empty.
func (r *TaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	raw, err := r.kv.Get(ctx, KeyTasks)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("task list: %w", err)
	}
	var out []Task
	if err := json.Unmarshal(raw, &out); err != nil {
		r.logger.Printf("tasks record corrupt, starting empty: %v", err)
		return nil, nil
	}
	return out, nil
}

func (r *TaskRepo) SaveAll(ctx context.Context, tasks []Task) error {
	return r.SaveAllWith(ctx, r.kv, tasks)
}

func (r *TaskRepo) SaveAllWith(ctx context.Context, w Writer, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := w.Put(ctx, KeyTasks, data); err != nil {
		return fmt.Errorf("task save: %w", err)
	}
	return nil
}
