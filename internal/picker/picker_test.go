package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func testItems() []Item {
	return []Item{
		{ID: "go", Label: "go", Hint: "(2 rules)"},
		{ID: "terraform", Label: "terraform", Selected: true},
		{ID: "python", Label: "python"},
	}
}

func TestPickerToggleAndConfirm(t *testing.T) {
	m := press(New("Select plugins", testItems()),
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown}, // clamped at the last item
		tea.KeyMsg{Type: tea.KeySpace},
		tea.KeyMsg{Type: tea.KeyEnter},
	).(Model)

	got := m.Selected()
	want := []string{"go", "python"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
	if m.IsQuitting() {
		t.Error("IsQuitting() = true after confirm")
	}
	if m.View() != "" {
		t.Error("View() not empty after confirm")
	}
}

func TestPickerSelectAll(t *testing.T) {
	tests := []struct {
		name    string
		presses int
		want    int
	}{
		{"select all", 1, 3},
		{"toggle back to none", 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = New("Select plugins", testItems())
			for range tt.presses {
				m = press(m, runes("a"))
			}
			if got := len(m.(Model).Selected()); got != tt.want {
				t.Errorf("len(Selected()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPickerQuit(t *testing.T) {
	m := press(New("Select plugins", testItems()), runes("q")).(Model)
	if !m.IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
}

func TestPickerView(t *testing.T) {
	view := New("Select plugins", testItems()).View()

	for _, want := range []string{"Select plugins", "terraform", "(2 rules)", "space: toggle"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestPickerEmpty(t *testing.T) {
	m := press(New("Select plugins", nil), tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter}).(Model)
	if len(m.Selected()) != 0 {
		t.Errorf("Selected() = %v, want none", m.Selected())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name string
		def  bool
		keys []tea.Msg
		want bool
	}{
		{"enter accepts default yes", true, []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, true},
		{"enter accepts default no", false, []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, false},
		{"y", false, []tea.Msg{runes("y")}, true},
		{"n", true, []tea.Msg{runes("n")}, false},
		{"toggle then enter", true, []tea.Msg{tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter}}, false},
		{"escape declines", true, []tea.Msg{tea.KeyMsg{Type: tea.KeyEscape}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(NewConfirm("Update settings?", tt.def), tt.keys...).(ConfirmModel)
			if got := m.Answer(); got != tt.want {
				t.Errorf("Answer() = %v, want %v", got, tt.want)
			}
		})
	}
}
