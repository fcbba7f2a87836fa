package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskcade/internal/engine"
	"taskcade/internal/game"
	"taskcade/internal/storage"
	"taskcade/internal/ui"
)

type mode int

const (
	modeTasks mode = iota
	modeAdd
	modeGames
	modePlay
)

const (
	playFrame   = 33 * time.Millisecond
	idleFrame   = 200 * time.Millisecond
	maxNotes    = 4
	confettiLen = 12
)

type boardModel struct {
	ctx   context.Context
	c     *engine.Coordinator
	inbox *Inbox

	width  int
	height int

	mode     mode
	progress storage.Progress
	tasks    []storage.Task
	today    int
	selected int
	gameSel  int
	input    textinput.Model
	session  *game.Session

	notes    []string
	confetti int
	lastLog  string
	loading  bool
	err      error
}

type loadedMsg struct {
	progress storage.Progress
	tasks    []storage.Task
	today    int
	err      error
}

type actionMsg struct {
	log string
	err error
}

type launchedMsg struct {
	session *game.Session
	err     error
}

type frameMsg time.Time

func newBoardModel(ctx context.Context, c *engine.Coordinator, inbox *Inbox) boardModel {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	m := boardModel{
		ctx:     ctx,
		c:       c,
		inbox:   inbox,
		input:   ti,
		loading: true,
		lastLog: "Loaded.",
	}
	if s := c.ActiveSession(); s != nil {
		m.session = s
		m.mode = modePlay
	}
	return m
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), frameCmd(idleFrame))
}

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.c.Tasks(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		today, err := m.c.CompletedToday(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{progress: m.c.Progress(), tasks: tasks, today: today}
	}
}

func (m boardModel) addCmd(text string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.c.AddTask(m.ctx, text)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: fmt.Sprintf("Added %q.", t.Text)}
	}
}

func (m boardModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		t, out, err := m.c.ToggleTask(m.ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		if out == nil {
			return actionMsg{log: fmt.Sprintf("Reopened %q.", t.Text)}
		}
		return actionMsg{log: fmt.Sprintf("Completed %q: +%d pts (level %d)", t.Text, out.Points, out.Progress.Level)}
	}
}

func (m boardModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.c.DeleteTask(m.ctx, id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{log: "Task deleted."}
	}
}

func (m boardModel) launchCmd(id game.ID) tea.Cmd {
	return func() tea.Msg {
		s, err := m.c.LaunchGame(m.ctx, id)
		return launchedMsg{session: s, err: err}
	}
}

func (m boardModel) restartCmd() tea.Cmd {
	return func() tea.Msg {
		s, err := m.c.RestartGame(m.ctx)
		return launchedMsg{session: s, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.progress = msg.progress
		m.tasks = msg.tasks
		m.today = msg.today
		m.selected = clamp(m.selected, len(m.tasks))
		return m, nil
	case actionMsg:
		if msg.err != nil {
			m.lastLog = ui.IconError + " " + msg.err.Error()
			return m, nil
		}
		m.lastLog = msg.log
		return m, m.loadCmd()
	case launchedMsg:
		if msg.err != nil {
			m.lastLog = ui.IconError + " " + msg.err.Error()
			return m, m.loadCmd()
		}
		m.session = msg.session
		m.mode = modePlay
		m.lastLog = "Playing " + m.c.Registry().DisplayName(msg.session.ID()) + "."
		return m, m.loadCmd()
	case frameMsg:
		return m.onFrame()
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAdd(msg)
		case modeGames:
			return m.updateGames(msg)
		case modePlay:
			return m.updatePlay(msg)
		default:
			return m.updateTasks(msg)
		}
	}
	return m, nil
}

func (m boardModel) onFrame() (tea.Model, tea.Cmd) {
	notes, celebrate := m.inbox.Drain()
	if celebrate {
		m.confetti = confettiLen
	} else if m.confetti > 0 {
		m.confetti--
	}
	next := idleFrame
	if m.mode == modePlay {
		next = playFrame
	}
	if len(notes) == 0 {
		return m, frameCmd(next)
	}
	m.notes = append(m.notes, notes...)
	if len(m.notes) > maxNotes {
		m.notes = m.notes[len(m.notes)-maxNotes:]
	}
	return m, tea.Batch(m.loadCmd(), frameCmd(next))
}

func (m boardModel) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
	case "a", "n":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case "c", " ", "enter":
		if t := m.selectedTask(); t != nil {
			return m, m.toggleCmd(t.ID)
		}
	case "d", "x":
		if t := m.selectedTask(); t != nil {
			return m, m.deleteCmd(t.ID)
		}
	case "g", "tab":
		m.mode = modeGames
	}
	return m, nil
}

func (m boardModel) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.mode = modeTasks
		m.input.Blur()
		return m, nil
	case "enter":
		text := m.input.Value()
		m.mode = modeTasks
		m.input.Blur()
		m.selected = 0
		return m, m.addCmd(text)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m boardModel) updateGames(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	catalog := m.c.Registry().Catalog()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "g", "tab":
		m.mode = modeTasks
	case "up", "k":
		if m.gameSel > 0 {
			m.gameSel--
		}
	case "down", "j":
		if m.gameSel < len(catalog)-1 {
			m.gameSel++
		}
	case "enter", " ":
		return m, m.launchCmd(catalog[m.gameSel].ID)
	}
	return m, nil
}

func (m boardModel) updatePlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.c.CloseGame()
		m.session = nil
		m.mode = modeGames
		m.lastLog = "Game closed."
		return m, m.loadCmd()
	case "ctrl+r":
		return m, m.restartCmd()
	}
	if m.session == nil {
		return m, nil
	}
	if in, ok := toInput(msg); ok {
		m.session.Input(in)
	}
	return m, nil
}

func toInput(msg tea.KeyMsg) (game.Input, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return game.Input{Key: game.KeyUp}, true
	case tea.KeyDown:
		return game.Input{Key: game.KeyDown}, true
	case tea.KeyLeft:
		return game.Input{Key: game.KeyLeft}, true
	case tea.KeyRight:
		return game.Input{Key: game.KeyRight}, true
	case tea.KeyEnter, tea.KeySpace:
		return game.Input{Key: game.KeyAction, Rune: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return game.Input{Rune: msg.Runes[0]}, true
		}
	}
	return game.Input{}, false
}

func (m boardModel) selectedTask() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	var body string
	switch m.mode {
	case modeGames:
		body = m.renderGames()
	case modePlay:
		body = m.renderPlay()
	default:
		body = m.renderTasks()
	}
	return m.renderHeader() + "\n\n" + body + "\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.loading && m.progress.Level == 0 {
		return ui.Title.Render("TaskCade loading…")
	}
	p := m.progress
	line := fmt.Sprintf("%s | Level %d | %d pts | XP %d/%d %s",
		ui.Heading(ui.IconGame, "TaskCade"),
		p.Level, p.Points,
		p.Experience, engine.ExperienceNeeded(p.Level),
		ui.ProgressBar(p.Experience, engine.ExperienceNeeded(p.Level), 20),
	)
	if m.confetti > 0 {
		line += "  " + strings.Repeat(ui.IconParty+ui.IconSparkle, 3)
	}
	return line
}

func (m boardModel) renderTasks() string {
	var out []string
	out = append(out, ui.PanelTitle.Render(fmt.Sprintf("Tasks (%d done today)", m.today)))
	if m.mode == modeAdd {
		out = append(out, ui.IconPlus+" "+m.input.View())
	}
	if len(m.tasks) == 0 {
		out = append(out, ui.Muted.Render("(no tasks yet, press a to add one)"))
	}
	for i, t := range m.tasks {
		cursor := "  "
		line := ui.TaskText(t.Text, t.Completed)
		if i == m.selected && m.mode == modeTasks {
			cursor = "> "
		}
		out = append(out, cursor+line)
	}
	return ui.Panel.Render(strings.Join(out, "\n"))
}

func (m boardModel) renderGames() string {
	var out []string
	out = append(out, ui.PanelTitle.Render("Arcade"))
	for i, row := range m.c.Policy().Table(m.progress) {
		cursor := "  "
		if i == m.gameSel {
			cursor = "> "
		}
		label := row.Entry.Name
		if !row.Unlocked {
			label = ui.Muted.Render(fmt.Sprintf("%s (level %d)", label, row.Entry.RequiredLevel))
		}
		out = append(out, fmt.Sprintf("%s%s %s", cursor, ui.LockIcon(row.Unlocked), label))
	}
	out = append(out, "", ui.LabelValue("Games played", m.progress.GamesPlayed))
	return ui.Panel.Render(strings.Join(out, "\n"))
}

func (m boardModel) renderPlay() string {
	if m.session == nil {
		return "Starting…"
	}
	title := ui.PanelTitle.Render(m.c.Registry().DisplayName(m.session.ID()))
	status := ""
	switch m.session.State() {
	case game.StateEnded:
		res, _ := m.session.Result()
		status = ui.Good.Render(fmt.Sprintf("Game over! Score: %d", res.Score)) + ui.Muted.Render("  ctrl+r: play again, esc: back")
	case game.StateNotStarted:
		status = ui.Muted.Render("Waiting for your first move…")
	}
	return ui.Panel.Render(title + "\n" + m.session.View() + status)
}

func (m boardModel) renderFooter() string {
	var out []string
	for _, n := range m.notes {
		out = append(out, ui.Gold.Render(n))
	}
	out = append(out, m.lastLog)
	var help string
	switch m.mode {
	case modeAdd:
		help = "enter: save • esc: cancel"
	case modeGames:
		help = "↑/↓: select • enter: play • esc: tasks • q: quit"
	case modePlay:
		help = "arrows/space/keys: play • ctrl+r: restart • esc: close"
	default:
		help = "↑/↓: move • a: add • space: toggle • d: delete • g: games • r: refresh • q: quit"
	}
	out = append(out, ui.Muted.Render(help))
	return strings.Join(out, "\n")
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
