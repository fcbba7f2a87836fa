package root

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeInto(m promptModel, text string) promptModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(promptModel)
}

func TestMaskedPromptHidesInput(t *testing.T) {
	m := typeInto(newPromptModel("Password: ", true), "secret1")
	view := m.View()
	if strings.Contains(view, "secret1") {
		t.Fatalf("password echoed in view: %q", view)
	}
	if !strings.Contains(view, "Password: ") || !strings.Contains(view, "•") {
		t.Fatalf("view=%q, want label and mask", view)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(promptModel)
	if !m.done || cmd == nil {
		t.Fatalf("enter did not finish the prompt")
	}
	if got := m.input.Value(); got != "secret1" {
		t.Fatalf("value=%q, want secret1", got)
	}
	if m.View() != "" {
		t.Fatalf("view not cleared after enter")
	}
}

func TestPromptCancel(t *testing.T) {
	m := typeInto(newPromptModel("Password: ", true), "abc")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m = next.(promptModel); !m.canceled {
		t.Fatalf("esc did not cancel")
	}
	if m.View() != "" {
		t.Fatalf("view not cleared after cancel")
	}
}

func TestPlainPromptEchoes(t *testing.T) {
	m := typeInto(newPromptModel("Email: ", false), "ada@example.com")
	if view := m.View(); !strings.Contains(view, "ada@example.co") {
		t.Fatalf("view=%q, want typed email", view)
	}
}
