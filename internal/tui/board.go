package tui

import (
	"context"
	"io"
	"strconv"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"taskcade/internal/engine"
)

// Inbox collects coordinator notifications and celebrations. Game sessions
// report from timer goroutines, so the board drains it on every frame.
type Inbox struct {
	mu           sync.Mutex
	notes        []string
	celebrations int
}

func NewInbox() *Inbox { return &Inbox{} }

func (b *Inbox) Notify(message string, points int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if points > 0 {
		message += " (+" + strconv.Itoa(points) + " pts)"
	}
	b.notes = append(b.notes, message)
}

func (b *Inbox) Celebrate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.celebrations++
}

// Drain returns and clears pending notes and whether a celebration fired.
func (b *Inbox) Drain() ([]string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notes := b.notes
	celebrate := b.celebrations > 0
	b.notes = nil
	b.celebrations = 0
	return notes, celebrate
}

func RunBoard(ctx context.Context, c *engine.Coordinator, inbox *Inbox, out io.Writer) error {
	m := newBoardModel(ctx, c, inbox)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen())
	_, err := p.Run()
	c.CloseGame()
	return err
}
