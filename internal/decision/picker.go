package decision

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

// Styles for the picker UI.
var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	pickerItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	pickerCursorStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Background(lipgloss.Color("236"))

	pickerFixedBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("[fixed]")
	pickerRejectedBadge = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("[rejected]")
	pickerPendingBadge  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("[      ]")

	pickerHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	pickerDetailStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("7")).
				PaddingLeft(6)
)

// PickerModel is the bubbletea model for the round decision picker.
// Each finding cycles through three states: undecided, fixed, rejected.
type PickerModel struct {
	findings  []domain.Finding
	statuses  map[int]string // index -> StatusFixed/StatusRejected; absent = undecided
	cursor    int
	confirmed bool
	quitted   bool
}

// NewPicker creates a new picker model over the round's findings.
func NewPicker(findings []domain.Finding) PickerModel {
	return PickerModel{
		findings: findings,
		statuses: make(map[int]string, len(findings)),
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.findings)-1 {
				m.cursor++
			}
		case "f":
			m.statuses[m.cursor] = domain.StatusFixed
		case "r":
			m.statuses[m.cursor] = domain.StatusRejected
		case " ":
			delete(m.statuses, m.cursor)
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case "q", "esc":
			m.quitted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if len(m.findings) == 0 {
		return "No findings to decide.\n"
	}

	var b strings.Builder

	b.WriteString(pickerTitleStyle.Render("Record round decisions"))
	b.WriteString("\n\n")

	for i, f := range m.findings {
		badge := pickerPendingBadge
		switch m.statuses[i] {
		case domain.StatusFixed:
			badge = pickerFixedBadge
		case domain.StatusRejected:
			badge = pickerRejectedBadge
		}

		title := fmt.Sprintf("%s %s (%s) %s", badge, f.ID, f.Priority, f.Title)
		if i == m.cursor {
			b.WriteString(pickerCursorStyle.Render(title))
		} else {
			b.WriteString(pickerItemStyle.Render(title))
		}
		b.WriteString("\n")

		if f.Description != "" {
			detail := f.Description
			if len(detail) > 100 {
				detail = detail[:97] + "..."
			}
			wrapped := terminal.WrapText(detail, 70, "")
			for _, line := range strings.Split(wrapped, "\n") {
				b.WriteString(pickerDetailStyle.Render(line))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	help := "↑/↓ navigate • f fixed • r rejected • space clear • enter save • q quit"
	b.WriteString(pickerHelpStyle.Render(help))
	b.WriteString("\n")

	return b.String()
}

// Decisions returns the recorded decisions in finding order. Undecided
// findings are omitted.
func (m PickerModel) Decisions() []domain.Decision {
	var out []domain.Decision
	for i, f := range m.findings {
		status, ok := m.statuses[i]
		if !ok {
			continue
		}
		d := domain.Decision{ID: f.ID, Status: status, Fields: map[string]string{}}
		if status == domain.StatusRejected {
			d.Fields["priority"] = f.Priority
		}
		if f.Title != "" {
			d.Fields["essence"] = f.Title
		}
		out = append(out, d)
	}
	return out
}

// Confirmed returns true if the user confirmed the selection.
func (m PickerModel) Confirmed() bool {
	return m.confirmed
}

// Quitted returns true if the user quit without confirming.
func (m PickerModel) Quitted() bool {
	return m.quitted
}

// RunPicker runs the interactive decision picker. Returns nil decisions
// when the user cancels.
func RunPicker(findings []domain.Finding) ([]domain.Decision, error) {
	if !terminal.IsStdinTTY() {
		return nil, fmt.Errorf("decide requires an interactive terminal (not a TTY)")
	}

	if len(findings) == 0 {
		return []domain.Decision{}, nil
	}

	model := NewPicker(findings)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("picker UI error: %w", err)
	}

	m, ok := finalModel.(PickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}

	if m.Quitted() {
		return nil, nil
	}

	return m.Decisions(), nil
}
