package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	rpsRounds      = 5
	rpsWinPoints   = 30
	rpsLossPoints  = 10
	rpsTiePoints   = 15
	rpsRevealDelay = 1500 * time.Millisecond
)

var rpsChoices = [3]string{"rock", "paper", "scissors"}

// rpsBeats[i] is the choice that choice i beats.
var rpsBeats = [3]int{2, 0, 1}

type rpsGame struct {
	rng      *rand.Rand
	cursor   int
	rounds   int
	player   int
	computer int
	last     string
	done     bool
}

func (g *rpsGame) Reset(s Surface) {
	g.rng = rand.New(rand.NewSource(seedOrNow(s.Seed)))
	*g = rpsGame{rng: g.rng}
}

func (g *rpsGame) Period() time.Duration { return 0 }

func (g *rpsGame) Running() bool { return true }

func (g *rpsGame) Input(in Input) Step {
	switch {
	case in.Key == KeyLeft && g.cursor > 0:
		g.cursor--
	case in.Key == KeyRight && g.cursor < 2:
		g.cursor++
	case in.Key == KeyAction:
		return g.play(g.cursor)
	case in.Rune == 'r':
		return g.play(0)
	case in.Rune == 'p':
		return g.play(1)
	case in.Rune == 's':
		return g.play(2)
	}
	return Step{}
}

func (g *rpsGame) play(choice int) Step {
	if g.done {
		return Step{}
	}
	computer := g.rng.Intn(len(rpsChoices))
	g.rounds++
	switch {
	case choice == computer:
		g.last = fmt.Sprintf("%s vs %s: it's a tie!", rpsChoices[choice], rpsChoices[computer])
	case rpsBeats[choice] == computer:
		g.player++
		g.last = fmt.Sprintf("%s vs %s: you win this round!", rpsChoices[choice], rpsChoices[computer])
	default:
		g.computer++
		g.last = fmt.Sprintf("%s vs %s: computer wins this round!", rpsChoices[choice], rpsChoices[computer])
	}
	if g.rounds >= rpsRounds {
		g.done = true
		return Step{After: rpsRevealDelay}
	}
	return Step{}
}

func (g *rpsGame) Tick() Step { return Step{} }

func (g *rpsGame) Resume() Step {
	if !g.done {
		return Step{}
	}
	return Step{Ended: true, Score: g.matchPoints()}
}

func (g *rpsGame) matchPoints() int {
	switch {
	case g.player > g.computer:
		return rpsWinPoints
	case g.computer > g.player:
		return rpsLossPoints
	default:
		return rpsTiePoints
	}
}

func (g *rpsGame) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %d | Computer: %d | Round %d/%d\n", g.player, g.computer, g.rounds, rpsRounds)
	if g.done {
		b.WriteString("Match over!\n")
	} else {
		b.WriteString("Choose your weapon! (r/p/s or arrows + space)\n")
	}
	for i, c := range rpsChoices {
		if i == g.cursor {
			fmt.Fprintf(&b, "[%s] ", c)
		} else {
			fmt.Fprintf(&b, " %s  ", c)
		}
	}
	b.WriteString("\n")
	if g.last != "" {
		b.WriteString(g.last)
		b.WriteString("\n")
	}
	return b.String()
}
