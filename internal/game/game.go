// Package game hosts TaskCade's arcade mini-games behind one lifecycle
// contract: a Session starts a Game on a Surface, drives it with input and
// timers, reports its final score once, and tears it down.
package game

import (
	"fmt"
	"strings"
	"time"
)

// ID identifies one of the closed set of mini-games.
type ID string

const (
	Snake             ID = "snake"
	TicTacToe         ID = "tictactoe"
	RockPaperScissors ID = "rockpaperscissors"
	FlappySquare      ID = "flappysquare"
	MemoryFlip        ID = "memoryflip"
)

func (id ID) IsValid() bool {
	switch id {
	case Snake, TicTacToe, RockPaperScissors, FlappySquare, MemoryFlip:
		return true
	default:
		return false
	}
}

// ParseID accepts a game id case-insensitively, ignoring dashes and spaces.
func ParseID(input string) (ID, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	id := ID(s)
	if !id.IsValid() {
		return "", fmt.Errorf("unknown game: %q", input)
	}
	return id, nil
}

// RewardKind tells the reward pipeline how to read a finished game's score.
type RewardKind int

const (
	// RewardScore means the score is raw and gets converted to points.
	RewardScore RewardKind = iota
	// RewardPoints means the score already is the number of points to award.
	RewardPoints
)

// Surface is the area a game draws into.
type Surface struct {
	Width  int
	Height int
	Seed   int64 // 0 picks a time-based seed
}

type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyAction
)

// Input is one key press. Rune carries printable keys (digits, letters).
type Input struct {
	Key  Key
	Rune rune
}

// Step is what a game reports after handling input or a timer.
type Step struct {
	Ended bool
	Score int
	// After asks the session to call Resume once this delay has passed.
	After time.Duration
	// StartClock asks the session to install the tick timer now, for games
	// whose clock only runs from the first move.
	StartClock bool
}

// Game is the rule set of a single mini-game. Implementations are not safe
// for concurrent use; Session serializes every call.
type Game interface {
	// Reset (re)builds the game's state for surface.
	Reset(surface Surface)
	// Period is the fixed tick interval, or 0 while the game needs no clock.
	Period() time.Duration
	// Running is false while the game waits for its first input.
	Running() bool
	Input(in Input) Step
	Tick() Step
	Resume() Step
	View() string
}
