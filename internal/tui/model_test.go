package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"taskcade/internal/auth"
	"taskcade/internal/engine"
	"taskcade/internal/game"
	"taskcade/internal/storage"
)

func newTestBoard(t *testing.T) (boardModel, *engine.Coordinator, *Inbox) {
	t.Helper()
	ctx := context.Background()
	kv, err := storage.Open(ctx, storage.BackendSQLite, filepath.Join(t.TempDir(), "tc.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })

	authSvc := auth.NewService(kv, nil, auth.WithCost(bcrypt.MinCost))
	if _, err := authSvc.Signup(ctx, auth.SignupInput{Username: "ada", Email: "ada@example.com", Password: "secret1", Confirm: "secret1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}
	inbox := NewInbox()
	c, err := engine.NewCoordinator(ctx, kv, engine.Options{
		Registry:   game.DefaultRegistry(),
		Auth:       authSvc,
		Scheduler:  game.NewManualScheduler(),
		Surface:    game.Surface{Width: 40, Height: 25, Seed: 7},
		Notifier:   inbox,
		Celebrator: inbox,
	})
	if err != nil {
		t.Fatalf("coordinator: %v", err)
	}
	t.Cleanup(c.CloseGame)
	return newBoardModel(ctx, c, inbox), c, inbox
}

// step feeds msg to the model and runs any resulting command once.
func step(t *testing.T, m boardModel, msg tea.Msg) boardModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(boardModel)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case loadedMsg, actionMsg, launchedMsg:
		return step(t, m, out)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInboxDrain(t *testing.T) {
	in := NewInbox()
	in.Notify("Level Up! You're now level 2!", 50)
	in.Notify("Game Complete! Score: 3", 0)
	in.Celebrate()

	notes, celebrate := in.Drain()
	if len(notes) != 2 || !celebrate {
		t.Fatalf("notes=%v celebrate=%v", notes, celebrate)
	}
	if notes[0] != "Level Up! You're now level 2! (+50 pts)" {
		t.Fatalf("note=%q", notes[0])
	}
	if notes[1] != "Game Complete! Score: 3" {
		t.Fatalf("note=%q", notes[1])
	}
	if notes, celebrate := in.Drain(); len(notes) != 0 || celebrate {
		t.Fatalf("drain not cleared: %v %v", notes, celebrate)
	}
}

func TestBoardAddAndCompleteTask(t *testing.T) {
	m, c, inbox := newTestBoard(t)
	m = step(t, m, m.loadCmd()())

	m = step(t, m, runes("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode=%v, want add", m.mode)
	}
	m = step(t, m, runes("Water the plants"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeTasks {
		t.Fatalf("mode=%v, want tasks", m.mode)
	}
	if len(m.tasks) != 1 || m.tasks[0].Text != "Water the plants" {
		t.Fatalf("tasks=%+v", m.tasks)
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.tasks[0].Completed {
		t.Fatalf("task not completed")
	}
	if got := c.Progress().Points; got != engine.TaskReward {
		t.Fatalf("points=%d, want %d", got, engine.TaskReward)
	}
	if m.progress.Points != engine.TaskReward {
		t.Fatalf("board progress not refreshed: %+v", m.progress)
	}

	next, _ := m.onFrame()
	m = next.(boardModel)
	if m.confetti == 0 {
		t.Fatalf("expected confetti after a completion")
	}
	if len(m.notes) != 1 || !strings.HasPrefix(m.notes[0], "Task Completed!") {
		t.Fatalf("notes=%v", m.notes)
	}
	if notes, _ := inbox.Drain(); len(notes) != 0 {
		t.Fatalf("inbox not drained: %v", notes)
	}
}

func TestBoardLockedGameShowsError(t *testing.T) {
	m, c, _ := newTestBoard(t)
	m = step(t, m, m.loadCmd()())
	m = step(t, m, runes("g"))
	if m.mode != modeGames {
		t.Fatalf("mode=%v, want games", m.mode)
	}
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeGames {
		t.Fatalf("locked game launched: mode=%v", m.mode)
	}
	if !strings.Contains(m.lastLog, "level") {
		t.Fatalf("lastLog=%q, want unlock hint", m.lastLog)
	}
	if c.ActiveSession() != nil {
		t.Fatalf("session started for locked game")
	}
}

func TestBoardPlayAndClose(t *testing.T) {
	m, c, _ := newTestBoard(t)
	m = step(t, m, m.loadCmd()())
	m = step(t, m, runes("g"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modePlay || m.session == nil {
		t.Fatalf("mode=%v session=%v", m.mode, m.session)
	}
	if m.session.ID() != game.Snake {
		t.Fatalf("launched %q, want snake", m.session.ID())
	}
	if m.progress.GamesPlayed != 1 {
		t.Fatalf("gamesPlayed=%d", m.progress.GamesPlayed)
	}
	if !strings.Contains(m.View(), "Snake") {
		t.Fatalf("play view missing title:\n%s", m.View())
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeGames || m.session != nil {
		t.Fatalf("mode=%v after esc", m.mode)
	}
	if c.ActiveSession() != nil {
		t.Fatalf("session still active after close")
	}
	if c.Progress().Points != 0 {
		t.Fatalf("closing awarded points: %d", c.Progress().Points)
	}
}

func TestToInput(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want game.Input
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, game.Input{Key: game.KeyUp}},
		{tea.KeyMsg{Type: tea.KeyLeft}, game.Input{Key: game.KeyLeft}},
		{tea.KeyMsg{Type: tea.KeyEnter}, game.Input{Key: game.KeyAction, Rune: ' '}},
		{runes("r"), game.Input{Rune: 'r'}},
	}
	for _, tc := range cases {
		got, ok := toInput(tc.msg)
		if !ok || got != tc.want {
			t.Fatalf("toInput(%v)=%+v,%v want %+v", tc.msg, got, ok, tc.want)
		}
	}
	if _, ok := toInput(runes("ab")); ok {
		t.Fatalf("multi-rune paste should not map to input")
	}
}
