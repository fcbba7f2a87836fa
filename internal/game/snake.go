package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	snakeGrid      = 20
	snakeFoodScore = 10
	snakePeriod    = 150 * time.Millisecond
)

type point struct{ x, y int }

type snakeGame struct {
	rng   *rand.Rand
	w, h  int
	body  []point
	food  point
	dir   point
	score int
}

func (g *snakeGame) Reset(s Surface) {
	g.rng = rand.New(rand.NewSource(seedOrNow(s.Seed)))
	g.w, g.h = snakeGrid, snakeGrid
	g.body = []point{{g.w / 2, g.h / 2}}
	g.dir = point{}
	g.score = 0
	g.placeFood()
}

func (g *snakeGame) Period() time.Duration { return snakePeriod }

// Running turns true with the first direction key.
func (g *snakeGame) Running() bool { return g.dir != point{} }

func (g *snakeGame) Input(in Input) Step {
	// Reversing onto the snake's own neck is not allowed.
	switch in.Key {
	case KeyUp:
		if g.dir.y == 0 {
			g.dir = point{0, -1}
		}
	case KeyDown:
		if g.dir.y == 0 {
			g.dir = point{0, 1}
		}
	case KeyLeft:
		if g.dir.x == 0 {
			g.dir = point{-1, 0}
		}
	case KeyRight:
		if g.dir.x == 0 {
			g.dir = point{1, 0}
		}
	}
	return Step{}
}

func (g *snakeGame) Tick() Step {
	if !g.Running() {
		return Step{}
	}
	head := point{g.body[0].x + g.dir.x, g.body[0].y + g.dir.y}
	if head.x < 0 || head.x >= g.w || head.y < 0 || head.y >= g.h {
		return Step{Ended: true, Score: g.score}
	}
	for _, seg := range g.body {
		if seg == head {
			return Step{Ended: true, Score: g.score}
		}
	}

	g.body = append([]point{head}, g.body...)
	if head == g.food {
		g.score += snakeFoodScore
		g.placeFood()
	} else {
		g.body = g.body[:len(g.body)-1]
	}
	return Step{}
}

func (g *snakeGame) Resume() Step { return Step{} }

func (g *snakeGame) placeFood() {
	if len(g.body) >= g.w*g.h {
		return
	}
	for {
		p := point{g.rng.Intn(g.w), g.rng.Intn(g.h)}
		if !g.occupied(p) {
			g.food = p
			return
		}
	}
}

func (g *snakeGame) occupied(p point) bool {
	for _, seg := range g.body {
		if seg == p {
			return true
		}
	}
	return false
}

func (g *snakeGame) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d\n", g.score)
	if g.Running() {
		b.WriteString("Use arrow keys to move the snake\n")
	} else {
		b.WriteString("Press an arrow key to start\n")
	}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			p := point{x, y}
			switch {
			case p == g.body[0]:
				b.WriteString("@")
			case g.occupied(p):
				b.WriteString("o")
			case p == g.food:
				b.WriteString("*")
			default:
				b.WriteString("·")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
