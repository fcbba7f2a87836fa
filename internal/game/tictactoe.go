package game

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	tttWinPoints  = 25
	tttTiePoints  = 10
	tttLossPoints = 5
	tttDelay      = 500 * time.Millisecond
)

var tttLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// ticTacToeGame pits the player (X) against a win/block/center/corner AI (O).
type ticTacToeGame struct {
	rng        *rand.Rand
	board      [9]byte
	cursor     int
	playerTurn bool
	// finished is set as soon as a result is known; points are reported
	// after a short reveal delay.
	finished bool
	points   int
	message  string
}

func (g *ticTacToeGame) Reset(s Surface) {
	g.rng = rand.New(rand.NewSource(seedOrNow(s.Seed)))
	g.board = [9]byte{}
	g.cursor = 4
	g.playerTurn = true
	g.finished = false
	g.points = 0
	g.message = ""
}

func (g *ticTacToeGame) Period() time.Duration { return 0 }

func (g *ticTacToeGame) Running() bool { return true }

func (g *ticTacToeGame) Input(in Input) Step {
	switch {
	case in.Key == KeyUp && g.cursor >= 3:
		g.cursor -= 3
	case in.Key == KeyDown && g.cursor <= 5:
		g.cursor += 3
	case in.Key == KeyLeft && g.cursor%3 > 0:
		g.cursor--
	case in.Key == KeyRight && g.cursor%3 < 2:
		g.cursor++
	case in.Key == KeyAction:
		return g.playerMove(g.cursor)
	case in.Rune >= '1' && in.Rune <= '9':
		g.cursor = int(in.Rune - '1')
		return g.playerMove(g.cursor)
	}
	return Step{}
}

func (g *ticTacToeGame) playerMove(cell int) Step {
	if g.finished || !g.playerTurn || g.board[cell] != 0 {
		return Step{}
	}
	g.board[cell] = 'X'
	if g.wins('X') {
		return g.finish("Player wins!", tttWinPoints)
	}
	if g.full() {
		return g.finish("It's a tie!", tttTiePoints)
	}
	g.playerTurn = false
	return Step{After: tttDelay}
}

func (g *ticTacToeGame) Tick() Step { return Step{} }

// Resume either plays the computer's move or reports the finished result.
func (g *ticTacToeGame) Resume() Step {
	if g.finished {
		return Step{Ended: true, Score: g.points}
	}
	if g.playerTurn {
		return Step{}
	}
	g.board[g.bestMove()] = 'O'
	if g.wins('O') {
		return g.finish("Computer wins!", tttLossPoints)
	}
	if g.full() {
		return g.finish("It's a tie!", tttTiePoints)
	}
	g.playerTurn = true
	return Step{}
}

func (g *ticTacToeGame) finish(message string, points int) Step {
	g.finished = true
	g.message = message
	g.points = points
	return Step{After: tttDelay}
}

func (g *ticTacToeGame) bestMove() int {
	for _, mark := range []byte{'O', 'X'} {
		for i := range g.board {
			if g.board[i] != 0 {
				continue
			}
			g.board[i] = mark
			won := g.wins(mark)
			g.board[i] = 0
			if won {
				return i
			}
		}
	}
	if g.board[4] == 0 {
		return 4
	}
	var corners []int
	for _, i := range []int{0, 2, 6, 8} {
		if g.board[i] == 0 {
			corners = append(corners, i)
		}
	}
	if len(corners) > 0 {
		return corners[g.rng.Intn(len(corners))]
	}
	var open []int
	for i := range g.board {
		if g.board[i] == 0 {
			open = append(open, i)
		}
	}
	return open[g.rng.Intn(len(open))]
}

func (g *ticTacToeGame) wins(mark byte) bool {
	for _, line := range tttLines {
		if g.board[line[0]] == mark && g.board[line[1]] == mark && g.board[line[2]] == mark {
			return true
		}
	}
	return false
}

func (g *ticTacToeGame) full() bool {
	for _, c := range g.board {
		if c == 0 {
			return false
		}
	}
	return true
}

func (g *ticTacToeGame) View() string {
	var b strings.Builder
	switch {
	case g.finished:
		fmt.Fprintf(&b, "Game Over: %s\n", g.message)
	case g.playerTurn:
		b.WriteString("Your turn (X): arrows + space, or 1-9\n")
	default:
		b.WriteString("Computer's turn (O)\n")
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			i := row*3 + col
			mark := " "
			if g.board[i] != 0 {
				mark = string(g.board[i])
			}
			if i == g.cursor && !g.finished {
				fmt.Fprintf(&b, "[%s]", mark)
			} else {
				fmt.Fprintf(&b, " %s ", mark)
			}
			if col < 2 {
				b.WriteString("|")
			}
		}
		b.WriteString("\n")
		if row < 2 {
			b.WriteString("---+---+---\n")
		}
	}
	return b.String()
}
