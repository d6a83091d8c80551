package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iamdantz/gemini-templates/internal/ui"
)

// ConfirmModel is a yes/no prompt
type ConfirmModel struct {
	question string
	answer   bool
	done     bool
}

// NewConfirm creates a prompt preset to def
func NewConfirm(question string, def bool) ConfirmModel {
	return ConfirmModel{question: question, answer: def}
}

// Answer returns the chosen value; a cancelled prompt answers no
func (m ConfirmModel) Answer() bool {
	return m.done && m.answer
}

// Init implements tea.Model
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msgKey, confirmKeys.Yes):
		m.answer, m.done = true, true
		return m, tea.Quit
	case key.Matches(msgKey, confirmKeys.No):
		m.answer, m.done = false, true
		return m, tea.Quit
	case key.Matches(msgKey, confirmKeys.Toggle):
		m.answer = !m.answer
	case key.Matches(msgKey, confirmKeys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(msgKey, confirmKeys.Cancel):
		m.answer = false
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model
func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}

	yes, no := "Yes", "No"
	if m.answer {
		yes = ui.Accent.Render("> Yes")
	} else {
		no = ui.Accent.Render("> No")
	}

	var b strings.Builder
	b.WriteString(ui.Bold.Render(m.question))
	b.WriteString("  " + yes + " / " + no + "\n")
	return b.String()
}

var confirmKeys = struct {
	Yes    key.Binding
	No     key.Binding
	Toggle key.Binding
	Accept key.Binding
	Cancel key.Binding
}{
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N")),
	Toggle: key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l")),
	Accept: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c", "q")),
}

// Confirm asks a yes/no question on the terminal
func Confirm(question string, def bool) (bool, error) {
	finalModel, err := tea.NewProgram(NewConfirm(question, def)).Run()
	if err != nil {
		return false, err
	}
	return finalModel.(ConfirmModel).Answer(), nil
}
