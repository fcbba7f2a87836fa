package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Flappy Square runs in a 400x500 world scaled down to text cells.
const (
	flappyWidth        = 400.0
	flappyHeight       = 500.0
	flappyPlayerX      = 80.0
	flappyPlayerSize   = 20.0
	flappyGravity      = 0.4
	flappyJump         = -8.0
	flappySpeed        = 2.0
	flappyObstacleW    = 60.0
	flappyGap          = 150.0
	flappySpawnSpacing = 200.0
	flappyScoreFactor  = 5
	flappyCellW        = 10.0
	flappyCellH        = 20.0
)

type obstacle struct {
	x      float64
	top    float64
	scored bool
}

type flappyGame struct {
	rng       *rand.Rand
	y         float64
	velocity  float64
	obstacles []obstacle
	score     int
	started   bool
}

func (g *flappyGame) Reset(s Surface) {
	g.rng = rand.New(rand.NewSource(seedOrNow(s.Seed)))
	g.y = flappyHeight / 2
	g.velocity = 0
	g.obstacles = nil
	g.score = 0
	g.started = false
}

func (g *flappyGame) Period() time.Duration { return time.Second / 60 }

func (g *flappyGame) Running() bool { return g.started }

func (g *flappyGame) Input(in Input) Step {
	if in.Key != KeyAction && in.Key != KeyUp && in.Rune != ' ' {
		return Step{}
	}
	if !g.started {
		g.started = true
		g.spawn()
	}
	g.velocity = flappyJump
	return Step{}
}

func (g *flappyGame) Tick() Step {
	if !g.started {
		return Step{}
	}
	g.velocity += flappyGravity
	g.y += g.velocity
	if g.y <= 0 || g.y+flappyPlayerSize >= flappyHeight {
		return g.over()
	}

	kept := g.obstacles[:0]
	for _, o := range g.obstacles {
		o.x -= flappySpeed
		if !o.scored && o.x+flappyObstacleW < flappyPlayerX {
			o.scored = true
			g.score++
		}
		if g.collides(o) {
			return g.over()
		}
		if o.x+flappyObstacleW >= 0 {
			kept = append(kept, o)
		}
	}
	g.obstacles = kept

	if len(g.obstacles) == 0 || g.obstacles[len(g.obstacles)-1].x < flappyWidth-flappySpawnSpacing {
		g.spawn()
	}
	return Step{}
}

func (g *flappyGame) Resume() Step { return Step{} }

func (g *flappyGame) over() Step {
	return Step{Ended: true, Score: g.score * flappyScoreFactor}
}

func (g *flappyGame) spawn() {
	top := g.rng.Float64()*(flappyHeight-flappyGap-100) + 50
	g.obstacles = append(g.obstacles, obstacle{x: flappyWidth, top: top})
}

func (g *flappyGame) collides(o obstacle) bool {
	return flappyPlayerX < o.x+flappyObstacleW &&
		flappyPlayerX+flappyPlayerSize > o.x &&
		(g.y < o.top || g.y+flappyPlayerSize > o.top+flappyGap)
}

func (g *flappyGame) View() string {
	cols := int(flappyWidth / flappyCellW)
	rows := int(flappyHeight / flappyCellH)
	grid := make([][]rune, rows)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", cols))
	}
	for _, o := range g.obstacles {
		for c := int(o.x / flappyCellW); c < int((o.x+flappyObstacleW)/flappyCellW); c++ {
			if c < 0 || c >= cols {
				continue
			}
			for r := 0; r < rows; r++ {
				top := float64(r) * flappyCellH
				if top < o.top || top+flappyCellH > o.top+flappyGap {
					grid[r][c] = '#'
				}
			}
		}
	}
	pr := int(g.y / flappyCellH)
	pc := int(flappyPlayerX / flappyCellW)
	if pr >= 0 && pr < rows {
		grid[pr][pc] = '■'
		grid[pr][pc+1] = '■'
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d\n", g.score)
	if g.started {
		b.WriteString("Press space to jump\n")
	} else {
		b.WriteString("Press space to start\n")
	}
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	return b.String()
}
