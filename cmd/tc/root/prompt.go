package root

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var errPromptCanceled = errors.New("input canceled")

// promptModel is a one-field prompt; masked prompts echo • instead of text.
type promptModel struct {
	input    textinput.Model
	done     bool
	canceled bool
}

func newPromptModel(label string, masked bool) promptModel {
	ti := textinput.New()
	ti.Prompt = label
	ti.CharLimit = 128
	if masked {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Focus()
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.canceled {
		return ""
	}
	return m.input.View() + "\n"
}

// readInput reads one line from in. The terminal stays in raw mode while
// the prompt runs, so masked input is never echoed to out.
func readInput(in io.Reader, out io.Writer, label string, masked bool) (string, error) {
	p := tea.NewProgram(newPromptModel(label, masked), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}
	m := final.(promptModel)
	if m.canceled {
		return "", errPromptCanceled
	}
	return m.input.Value(), nil
}

func readPassword(in io.Reader, out io.Writer, label string) (string, error) {
	return readInput(in, out, label, true)
}
