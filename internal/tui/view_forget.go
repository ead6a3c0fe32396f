package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airtui/airtui/internal/engine"
)

// ForgetModel is a yes/no confirmation before a saved profile is removed.
type ForgetModel struct {
	row Row
}

func NewForgetModel(row Row) *ForgetModel {
	return &ForgetModel{row: row}
}

func (m *ForgetModel) Init() tea.Cmd {
	return nil
}

func (m *ForgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "enter":
			action := engine.Action{Kind: engine.KindForget, SSID: m.row.SSID}
			return m, tea.Batch(
				func() tea.Msg { return PopMsg{} },
				func() tea.Msg { return submitMsg{action: action} },
			)
		case "n", "esc":
			return m, func() tea.Msg { return PopMsg{} }
		}
	}
	return m, nil
}

func (m *ForgetModel) View() string {
	question := fmt.Sprintf("Forget network %q? (y/N)", m.row.SSID)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(CurrentTheme.Border).
		Padding(1, 2)
	return lipgloss.NewStyle().Margin(1, 2).Render(boxStyle.Render(question))
}
