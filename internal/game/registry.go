package game

import (
	"fmt"
	"time"
)

// Entry is one catalog row: a game, its unlock level and how it is built.
type Entry struct {
	ID            ID
	Name          string
	RequiredLevel int
	Reward        RewardKind
	New           func() Game
}

// Registry maps the closed set of game ids to their implementations, in
// unlock order.
type Registry struct {
	entries []Entry
	byID    map[ID]Entry
}

// NewRegistry validates entries: known ids, no duplicates, and required
// levels that are positive and strictly increasing.
func NewRegistry(entries ...Entry) (*Registry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("registry needs at least one game")
	}
	r := &Registry{byID: make(map[ID]Entry, len(entries))}
	prev := 0
	for _, e := range entries {
		if !e.ID.IsValid() {
			return nil, fmt.Errorf("unknown game: %q", e.ID)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("game %s registered twice", e.ID)
		}
		if e.RequiredLevel < 1 || e.RequiredLevel <= prev {
			return nil, fmt.Errorf("game %s: required level %d must be positive and above %d", e.ID, e.RequiredLevel, prev)
		}
		if e.New == nil {
			return nil, fmt.Errorf("game %s has no constructor", e.ID)
		}
		prev = e.RequiredLevel
		r.entries = append(r.entries, e)
		r.byID[e.ID] = e
	}
	return r, nil
}

// DefaultRegistry returns the five built-in games.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Entry{ID: Snake, Name: "Snake Game", RequiredLevel: 1, Reward: RewardScore, New: func() Game { return &snakeGame{} }},
		Entry{ID: TicTacToe, Name: "Tic Tac Toe", RequiredLevel: 2, Reward: RewardPoints, New: func() Game { return &ticTacToeGame{} }},
		Entry{ID: RockPaperScissors, Name: "Rock Paper Scissors", RequiredLevel: 3, Reward: RewardPoints, New: func() Game { return &rpsGame{} }},
		Entry{ID: FlappySquare, Name: "Flappy Square", RequiredLevel: 4, Reward: RewardScore, New: func() Game { return &flappyGame{} }},
		Entry{ID: MemoryFlip, Name: "Memory Flip", RequiredLevel: 5, Reward: RewardScore, New: func() Game { return &memoryGame{} }},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Catalog returns the entries in unlock order.
func (r *Registry) Catalog() []Entry {
	return append([]Entry(nil), r.entries...)
}

func (r *Registry) Lookup(id ID) (Entry, bool) {
	e, ok := r.byID[id]
	return e, ok
}

// Starter is the game unlocked from the first level.
func (r *Registry) Starter() Entry {
	return r.entries[0]
}

// DisplayName returns the catalog name for id, or the id itself.
func (r *Registry) DisplayName(id ID) string {
	if e, ok := r.byID[id]; ok {
		return e.Name
	}
	return string(id)
}

func seedOrNow(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}
