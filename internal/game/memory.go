package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	memoryPairs      = 8
	memoryCols       = 4
	memoryBaseScore  = 100
	memoryTimeBudget = 180
	memoryMoveBudget = 50
	memoryMatchDelay = 500 * time.Millisecond
	memoryMissDelay  = time.Second
	memoryEndDelay   = time.Second
)

var memorySymbols = [memoryPairs]string{"🎮", "🎯", "🎪", "🎨", "🎭", "🎲", "🎵", "⭐"}

type memoryCard struct {
	symbol  string
	flipped bool
	matched bool
}

type memoryGame struct {
	cards   []memoryCard
	flipped []int
	cursor  int
	pairs   int
	moves   int
	seconds int
	started bool
	done    bool
}

func (g *memoryGame) Reset(s Surface) {
	rng := rand.New(rand.NewSource(seedOrNow(s.Seed)))
	*g = memoryGame{}
	for _, sym := range memorySymbols {
		g.cards = append(g.cards, memoryCard{symbol: sym}, memoryCard{symbol: sym})
	}
	rng.Shuffle(len(g.cards), func(i, j int) { g.cards[i], g.cards[j] = g.cards[j], g.cards[i] })
}

// Period drives the elapsed-seconds clock, which starts on the first flip.
func (g *memoryGame) Period() time.Duration {
	if !g.started {
		return 0
	}
	return time.Second
}

func (g *memoryGame) Running() bool { return g.started }

func (g *memoryGame) Input(in Input) Step {
	n := len(g.cards)
	switch in.Key {
	case KeyUp:
		if g.cursor >= memoryCols {
			g.cursor -= memoryCols
		}
	case KeyDown:
		if g.cursor+memoryCols < n {
			g.cursor += memoryCols
		}
	case KeyLeft:
		if g.cursor%memoryCols > 0 {
			g.cursor--
		}
	case KeyRight:
		if g.cursor%memoryCols < memoryCols-1 {
			g.cursor++
		}
	case KeyAction:
		return g.flip(g.cursor)
	}
	return Step{}
}

func (g *memoryGame) flip(i int) Step {
	c := &g.cards[i]
	if g.done || c.flipped || c.matched || len(g.flipped) == 2 {
		return Step{}
	}
	first := !g.started
	g.started = true
	c.flipped = true
	g.flipped = append(g.flipped, i)
	if len(g.flipped) < 2 {
		return Step{StartClock: first}
	}
	g.moves++
	if g.cards[g.flipped[0]].symbol == g.cards[g.flipped[1]].symbol {
		return Step{After: memoryMatchDelay}
	}
	return Step{After: memoryMissDelay}
}

func (g *memoryGame) Tick() Step {
	if g.started && !g.done {
		g.seconds++
	}
	return Step{}
}

// Resume settles the two face-up cards, or reports the score once the
// board is cleared.
func (g *memoryGame) Resume() Step {
	if g.done {
		return Step{Ended: true, Score: g.score()}
	}
	if len(g.flipped) != 2 {
		return Step{}
	}
	a, b := &g.cards[g.flipped[0]], &g.cards[g.flipped[1]]
	g.flipped = nil
	if a.symbol != b.symbol {
		a.flipped, b.flipped = false, false
		return Step{}
	}
	a.matched, b.matched = true, true
	g.pairs++
	if g.pairs == memoryPairs {
		g.done = true
		return Step{After: memoryEndDelay}
	}
	return Step{}
}

func (g *memoryGame) score() int {
	return memoryBaseScore + max(0, memoryTimeBudget-g.seconds) + max(0, memoryMoveBudget-g.moves)
}

func (g *memoryGame) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Time: %d:%02d | Moves: %d | Pairs: %d/%d\n", g.seconds/60, g.seconds%60, g.moves, g.pairs, memoryPairs)
	b.WriteString("Arrows to move, space to flip\n")
	for i, c := range g.cards {
		face := "??"
		if c.flipped || c.matched {
			face = c.symbol
		}
		if i == g.cursor {
			fmt.Fprintf(&b, "[%s]", face)
		} else {
			fmt.Fprintf(&b, " %s ", face)
		}
		if i%memoryCols == memoryCols-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
