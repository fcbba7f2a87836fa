package engine

import (
	"context"
	"fmt"
	"math"

	"taskcade/internal/game"
	"taskcade/internal/storage"
)

const (
	// XPPerLevel scales the experience threshold: level N needs N*XPPerLevel.
	XPPerLevel = 100

	// TaskReward is awarded for every task checked off.
	TaskReward = 10

	// MinGameReward is the floor for score-based game rewards.
	MinGameReward = 5

	// GameScoreDivisor converts a raw game score to points.
	GameScoreDivisor = 10
)

// ExperienceNeeded returns the experience required to leave level.
func ExperienceNeeded(level int) int {
	if level < 1 {
		level = 1
	}
	return level * XPPerLevel
}

// GamePoints converts a finished game's result to the points it awards.
// Games that already report final points are passed through unchanged.
func GamePoints(kind game.RewardKind, score int) int {
	if score < 0 {
		score = 0
	}
	if kind == game.RewardPoints {
		return score
	}
	return max(MinGameReward, score/GameScoreDivisor)
}

// LevelUp is emitted once for every level gained.
type LevelUp struct {
	Level int
}

// DefaultProgress is the progress of a brand new (or logged out) player.
func DefaultProgress(starter game.ID) storage.Progress {
	return storage.Progress{
		Level:         1,
		UnlockedGames: []string{string(starter)},
	}
}

// ApplyPoints adds amount to points and experience and resolves levels.
// Experience beyond a threshold is discarded on level-up. It does not
// touch p; the updated copy is returned. Amounts that would overflow the
// totals are rejected.
func ApplyPoints(p storage.Progress, amount int) (storage.Progress, []LevelUp, error) {
	if amount < 0 {
		return p, nil, ValidationError{Field: "points", Message: fmt.Sprintf("cannot award %d points", amount)}
	}
	if amount > math.MaxInt-max(p.Points, p.Experience, 0) {
		return p, nil, ValidationError{Field: "points", Message: fmt.Sprintf("award of %d points overflows the total", amount)}
	}
	out := p.Clone()
	out.Points += amount
	out.Experience += amount
	return out, resolveLevels(&out), nil
}

func resolveLevels(p *storage.Progress) []LevelUp {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Experience < 0 {
		p.Experience = 0
	}
	var ups []LevelUp
	for p.Experience >= ExperienceNeeded(p.Level) {
		p.Level++
		p.Experience = 0
		ups = append(ups, LevelUp{Level: p.Level})
	}
	return ups
}

// Ledger applies rewards to a progress record and persists the result.
type Ledger struct {
	repo    *storage.ProgressRepo
	starter game.ID
}

func NewLedger(repo *storage.ProgressRepo, starter game.ID) *Ledger {
	return &Ledger{repo: repo, starter: starter}
}

// ApplyPointsWith applies amount to p and writes the result through w, so
// the award commits together with whatever else the caller writes.
func (l *Ledger) ApplyPointsWith(ctx context.Context, w storage.Writer, p storage.Progress, amount int) (storage.Progress, []LevelUp, error) {
	out, ups, err := ApplyPoints(p, amount)
	if err != nil {
		return p, nil, err
	}
	if err := l.repo.SaveWith(ctx, w, out); err != nil {
		return p, nil, err
	}
	return out, ups, nil
}

// ResetWith writes the defaults through w, for callers batching a logout.
func (l *Ledger) ResetWith(ctx context.Context, w storage.Writer) (storage.Progress, error) {
	p := l.Defaults()
	if err := l.repo.SaveWith(ctx, w, p); err != nil {
		return storage.Progress{}, err
	}
	return p, nil
}

func (l *Ledger) Defaults() storage.Progress {
	return DefaultProgress(l.starter)
}
