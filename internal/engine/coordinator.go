package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskcade/internal/game"
	"taskcade/internal/storage"
)

// Notification points shown next to each message.
const (
	LevelUpBonusDisplay = 50
	UnlockBonusDisplay  = 25
)

// Notifier receives user-facing reward messages. Fire and forget.
type Notifier interface {
	Notify(message string, points int)
}

// Celebrator plays the celebratory effect after a task is checked off.
type Celebrator interface {
	Celebrate()
}

// Authenticator is the sign-in collaborator.
type Authenticator interface {
	IsSignedIn(ctx context.Context) bool
	// SignOutWith clears the session through w so logout can be batched.
	SignOutWith(ctx context.Context, w storage.Writer) error
}

type NotifierFunc func(message string, points int)

func (f NotifierFunc) Notify(message string, points int) { f(message, points) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, int) {}

type nopCelebrator struct{}

func (nopCelebrator) Celebrate() {}

// Outcome describes what a single reward did to the player.
type Outcome struct {
	Points   int
	LevelUps []LevelUp
	Unlocked []game.ID
	Progress storage.Progress
}

// Options wires a Coordinator's collaborators. Registry, Auth and KV are
// required; the rest have quiet defaults.
type Options struct {
	Registry   *game.Registry
	Auth       Authenticator
	Scheduler  game.Scheduler
	Surface    game.Surface
	Notifier   Notifier
	Celebrator Celebrator
	Logger     *log.Logger
	Now        func() time.Time
}

// Coordinator owns the live progress record and runs the reward pipeline
// for task and game completions. It hosts at most one game session.
type Coordinator struct {
	mu sync.Mutex

	kv       storage.KV
	progress *storage.ProgressRepo
	tasks    *storage.TaskRepo
	rewards  *storage.RewardRepo
	ledger   *Ledger
	policy   *UnlockPolicy
	reg      *game.Registry

	auth       Authenticator
	sched      game.Scheduler
	surface    game.Surface
	notifier   Notifier
	celebrator Celebrator
	logger     *log.Logger
	now        func() time.Time

	current storage.Progress
	session *game.Session
}

// NewCoordinator loads progress from kv, settling any level or unlock state
// a previous version may have left unresolved.
func NewCoordinator(ctx context.Context, kv storage.KV, opts Options) (*Coordinator, error) {
	if kv == nil {
		return nil, fmt.Errorf("coordinator: store is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("coordinator: game registry is required")
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("coordinator: authenticator is required")
	}
	if opts.Scheduler == nil {
		opts.Scheduler = game.SystemScheduler{}
	}
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Celebrator == nil {
		opts.Celebrator = nopCelebrator{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	starter := opts.Registry.Starter().ID
	progressRepo := storage.NewProgressRepo(kv, func() storage.Progress { return DefaultProgress(starter) }, opts.Logger)
	c := &Coordinator{
		kv:         kv,
		progress:   progressRepo,
		tasks:      storage.NewTaskRepo(kv, opts.Logger),
		rewards:    storage.NewRewardRepo(kv, opts.Logger),
		ledger:     NewLedger(progressRepo, starter),
		policy:     NewUnlockPolicy(opts.Registry),
		reg:        opts.Registry,
		auth:       opts.Auth,
		sched:      opts.Scheduler,
		surface:    opts.Surface,
		notifier:   opts.Notifier,
		celebrator: opts.Celebrator,
		logger:     opts.Logger,
		now:        opts.Now,
	}

	p, err := progressRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	settled := p.Clone()
	ups := resolveLevels(&settled)
	settled, added := c.policy.Refresh(settled)
	if len(ups) > 0 || len(added) > 0 {
		c.logger.Printf("settled stored progress: level %d -> %d, unlocked %v", p.Level, settled.Level, added)
		if err := progressRepo.Save(ctx, settled); err != nil {
			return nil, err
		}
	}
	c.current = settled
	return c, nil
}

func (c *Coordinator) Registry() *game.Registry { return c.reg }
func (c *Coordinator) Policy() *UnlockPolicy    { return c.policy }

// Progress returns a snapshot of the live progress record.
func (c *Coordinator) Progress() storage.Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Clone()
}

func (c *Coordinator) requireAuth(ctx context.Context, action string) error {
	if !c.auth.IsSignedIn(ctx) {
		return NotAuthenticatedError{Action: action}
	}
	return nil
}

func (c *Coordinator) Tasks(ctx context.Context) ([]storage.Task, error) {
	return c.tasks.ListAll(ctx)
}

// AddTask prepends a new task. Text is trimmed and must not be empty.
func (c *Coordinator) AddTask(ctx context.Context, text string) (storage.Task, error) {
	if err := c.requireAuth(ctx, "add tasks"); err != nil {
		return storage.Task{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return storage.Task{}, ValidationError{Field: "task", Message: "text is required"}
	}
	id, err := uuid.NewV7()
	if err != nil {
		return storage.Task{}, fmt.Errorf("task id: %w", err)
	}
	task := storage.Task{ID: id.String(), Text: text, CreatedAt: c.now().UTC()}

	c.mu.Lock()
	defer c.mu.Unlock()
	all, err := c.tasks.ListAll(ctx)
	if err != nil {
		return storage.Task{}, err
	}
	all = append([]storage.Task{task}, all...)
	if err := c.tasks.SaveAll(ctx, all); err != nil {
		return storage.Task{}, err
	}
	return task, nil
}

// ResolveTask finds a task by full id, unique id prefix, or 1-based position
// in the newest-first list.
func (c *Coordinator) ResolveTask(ctx context.Context, ref string) (storage.Task, error) {
	ref = strings.TrimSpace(ref)
	all, err := c.tasks.ListAll(ctx)
	if err != nil {
		return storage.Task{}, err
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(all) {
		return all[n-1], nil
	}
	var match *storage.Task
	for i := range all {
		if all[i].ID == ref {
			return all[i], nil
		}
		if ref != "" && strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return storage.Task{}, ValidationError{Field: "task", Message: fmt.Sprintf("%q matches more than one task", ref)}
			}
			match = &all[i]
		}
	}
	if match == nil {
		return storage.Task{}, TaskNotFoundError{ID: ref}
	}
	return *match, nil
}

// ToggleTask flips a task's completed flag. Only the false to true
// transition pays out; unchecking never claws points back. The returned
// outcome is nil when nothing was awarded.
func (c *Coordinator) ToggleTask(ctx context.Context, id string) (storage.Task, *Outcome, error) {
	if err := c.requireAuth(ctx, "update tasks"); err != nil {
		return storage.Task{}, nil, err
	}

	c.mu.Lock()
	all, err := c.tasks.ListAll(ctx)
	if err != nil {
		c.mu.Unlock()
		return storage.Task{}, nil, err
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return storage.Task{}, nil, TaskNotFoundError{ID: id}
	}
	all[idx].Completed = !all[idx].Completed
	task := all[idx]
	saveTasks := func(w storage.Writer) error { return c.tasks.SaveAllWith(ctx, w, all) }
	if !task.Completed {
		err := c.kv.Update(ctx, saveTasks)
		c.mu.Unlock()
		if err != nil {
			return storage.Task{}, nil, err
		}
		return task, nil, nil
	}

	// The task flip and its reward commit together or not at all.
	p := c.current.Clone()
	p.TasksCompleted++
	out, msgs, err := c.awardLocked(ctx, p, TaskReward, storage.RewardEntry{Source: "task"}, saveTasks)
	c.mu.Unlock()
	if err != nil {
		return storage.Task{}, nil, err
	}

	c.emit(msgs)
	c.notifier.Notify("Task Completed! 🎉", TaskReward)
	c.celebrator.Celebrate()
	return task, out, nil
}

func (c *Coordinator) DeleteTask(ctx context.Context, id string) error {
	if err := c.requireAuth(ctx, "delete tasks"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	all, err := c.tasks.ListAll(ctx)
	if err != nil {
		return err
	}
	kept := all[:0]
	found := false
	for _, t := range all {
		if t.ID == id {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return TaskNotFoundError{ID: id}
	}
	return c.tasks.SaveAll(ctx, kept)
}

// CompletedToday counts completed tasks created on the current local day.
func (c *Coordinator) CompletedToday(ctx context.Context) (int, error) {
	all, err := c.tasks.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	now := c.now()
	y, m, d := now.Date()
	n := 0
	for _, t := range all {
		ty, tm, td := t.CreatedAt.In(now.Location()).Date()
		if t.Completed && ty == y && tm == m && td == d {
			n++
		}
	}
	return n, nil
}

// CompleteGame runs the reward pipeline for a finished game.
func (c *Coordinator) CompleteGame(ctx context.Context, res game.Result) (*Outcome, error) {
	points := GamePoints(res.Kind, res.Score)

	c.mu.Lock()
	out, msgs, err := c.awardLocked(ctx, c.current.Clone(), points, storage.RewardEntry{
		Source: "game",
		Game:   string(res.Game),
		Score:  res.Score,
	}, nil)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.emit(msgs)
	c.notifier.Notify(fmt.Sprintf("Game Complete! Score: %d", res.Score), points)
	return out, nil
}

// OnGameCompleted is the completion handler bound to every session.
func (c *Coordinator) OnGameCompleted(res game.Result) {
	if _, err := c.CompleteGame(context.Background(), res); err != nil {
		c.logger.Printf("game %s reward failed: %v", res.Game, err)
	}
}

type notification struct {
	message string
	points  int
}

// awardLocked applies points to p, refreshes unlocks, persists and logs the
// reward. extra, when set, is written in the same store update as the
// progress. Notifications are returned so they can be sent after c.mu is
// released.
func (c *Coordinator) awardLocked(ctx context.Context, p storage.Progress, points int, entry storage.RewardEntry, extra func(w storage.Writer) error) (*Outcome, []notification, error) {
	var (
		next  storage.Progress
		ups   []LevelUp
		added []game.ID
	)
	err := c.kv.Update(ctx, func(w storage.Writer) error {
		if extra != nil {
			if err := extra(w); err != nil {
				return err
			}
		}
		applied, levels, err := c.ledger.ApplyPointsWith(ctx, w, p, points)
		if err != nil {
			return err
		}
		refreshed, unlocked := c.policy.Refresh(applied)
		if len(unlocked) > 0 {
			if err := c.progress.SaveWith(ctx, w, refreshed); err != nil {
				return err
			}
		}
		next, ups, added = refreshed, levels, unlocked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	c.current = next

	entry.Points = points
	entry.LevelTo = next.Level
	entry.AwardedAt = c.now().UTC()
	if err := c.rewards.Append(ctx, entry); err != nil {
		c.logger.Printf("reward log append failed: %v", err)
	}

	var msgs []notification
	for _, up := range ups {
		c.logger.Printf("level up: %d", up.Level)
		msgs = append(msgs, notification{fmt.Sprintf("Level Up! You're now level %d!", up.Level), LevelUpBonusDisplay})
	}
	for _, id := range added {
		c.logger.Printf("unlocked %s", id)
		msgs = append(msgs, notification{fmt.Sprintf("New Game Unlocked: %s!", c.reg.DisplayName(id)), UnlockBonusDisplay})
	}
	return &Outcome{Points: points, LevelUps: ups, Unlocked: added, Progress: next.Clone()}, msgs, nil
}

func (c *Coordinator) emit(msgs []notification) {
	for _, m := range msgs {
		c.notifier.Notify(m.message, m.points)
	}
}

// LaunchGame checks sign-in and the unlock policy, tears down any running
// session, counts the play and starts a fresh session.
func (c *Coordinator) LaunchGame(ctx context.Context, id game.ID) (*game.Session, error) {
	if err := c.requireAuth(ctx, "play games"); err != nil {
		return nil, err
	}
	entry, ok := c.reg.Lookup(id)
	if !ok {
		return nil, UnknownGameError{Game: string(id)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.policy.LaunchGuard(id, c.current); err != nil {
		return nil, err
	}
	if c.session != nil {
		c.session.Cleanup()
		c.session = nil
	}

	s, err := game.NewSession(entry, c.sched, c.surface, c.OnGameCompleted)
	if err != nil {
		return nil, err
	}
	p := c.current.Clone()
	p.GamesPlayed++
	if err := c.progress.Save(ctx, p); err != nil {
		return nil, err
	}
	c.current = p
	c.session = s
	c.logger.Printf("launched %s (games played %d)", id, p.GamesPlayed)
	s.Start()
	return s, nil
}

// ActiveSession returns the hosted session, or nil.
func (c *Coordinator) ActiveSession() *game.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// CloseGame tears down the hosted session, if any.
func (c *Coordinator) CloseGame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Cleanup()
		c.session = nil
	}
}

// RestartGame replaces the hosted session with a fresh one for the same
// game; it counts as a new play.
func (c *Coordinator) RestartGame(ctx context.Context) (*game.Session, error) {
	if err := c.requireAuth(ctx, "play games"); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil, fmt.Errorf("no game to restart")
	}
	id := c.session.ID()
	if err := c.policy.LaunchGuard(id, c.current); err != nil {
		return nil, err
	}
	p := c.current.Clone()
	p.GamesPlayed++
	if err := c.progress.Save(ctx, p); err != nil {
		return nil, err
	}
	next, err := c.session.Restart()
	if err != nil {
		return nil, err
	}
	c.current = p
	c.session = next
	c.logger.Printf("restarted %s (games played %d)", id, p.GamesPlayed)
	return next, nil
}

// Logout signs out and resets progress, tasks and the reward log in one
// write.
func (c *Coordinator) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		c.session.Cleanup()
		c.session = nil
	}
	var fresh storage.Progress
	err := c.kv.Update(ctx, func(w storage.Writer) error {
		if err := c.auth.SignOutWith(ctx, w); err != nil {
			return err
		}
		p, err := c.ledger.ResetWith(ctx, w)
		if err != nil {
			return err
		}
		fresh = p
		if err := c.tasks.SaveAllWith(ctx, w, nil); err != nil {
			return err
		}
		return c.rewards.ClearWith(ctx, w)
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.current = fresh
	return nil
}

// RewardLog returns the most recent rewards, newest first.
func (c *Coordinator) RewardLog(ctx context.Context) ([]storage.RewardEntry, error) {
	return c.rewards.Recent(ctx)
}
