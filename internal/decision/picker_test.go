package decision

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/richhaase/pr-review-loop/internal/domain"
)

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func pickerFindings() []domain.Finding {
	return []domain.Finding{
		{ID: "SEC-001", Priority: "P0", Title: "SQL injection", Description: "user input reaches the query"},
		{ID: "STY-002", Priority: "P3", Title: "naming nit"},
		{ID: "LOG-003", Priority: "P1", Title: "missing error log"},
	}
}

func update(m PickerModel, keys ...string) PickerModel {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(PickerModel)
	}
	return m
}

func TestPickerModel_MarkFixedAndRejected(t *testing.T) {
	m := NewPicker(pickerFindings())
	m = update(m, "f", "down", "r", "enter")

	if !m.Confirmed() {
		t.Fatal("enter should confirm")
	}
	decisions := m.Decisions()
	if len(decisions) != 2 {
		t.Fatalf("decisions = %+v, want 2", decisions)
	}
	if decisions[0].ID != "SEC-001" || decisions[0].Status != domain.StatusFixed {
		t.Errorf("first = %+v", decisions[0])
	}
	if decisions[1].ID != "STY-002" || decisions[1].Status != domain.StatusRejected {
		t.Errorf("second = %+v", decisions[1])
	}
	if decisions[1].Fields["priority"] != "P3" {
		t.Errorf("rejected decision should carry priority, got %v", decisions[1].Fields)
	}
	if decisions[0].Fields["essence"] != "SQL injection" {
		t.Errorf("essence = %q", decisions[0].Fields["essence"])
	}
}

func TestPickerModel_SpaceClearsStatus(t *testing.T) {
	m := NewPicker(pickerFindings())
	m = update(m, "f", " ", "enter")
	if got := m.Decisions(); len(got) != 0 {
		t.Errorf("decisions = %+v, want none after clearing", got)
	}
}

func TestPickerModel_CursorBounds(t *testing.T) {
	m := NewPicker(pickerFindings())
	m = update(m, "up", "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped at 0", m.cursor)
	}
	m = update(m, "down", "down", "down", "down")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want clamped at last finding", m.cursor)
	}
}

func TestPickerModel_QuitWithoutConfirm(t *testing.T) {
	m := NewPicker(pickerFindings())
	m = update(m, "f", "q")
	if !m.Quitted() || m.Confirmed() {
		t.Errorf("quitted = %t, confirmed = %t", m.Quitted(), m.Confirmed())
	}
}

func TestPickerModel_View(t *testing.T) {
	m := NewPicker(pickerFindings())
	m = update(m, "f", "down", "r")

	view := m.View()
	for _, want := range []string{"SEC-001", "STY-002", "LOG-003", "[fixed]", "[rejected]", "enter save"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPickerModel_ViewEmpty(t *testing.T) {
	m := NewPicker(nil)
	if got := m.View(); !strings.Contains(got, "No findings to decide") {
		t.Errorf("View() = %q", got)
	}
}
