package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airtui/airtui/qrwifi"
)

// ShareModel renders a QR code a phone can scan to join the network.
type ShareModel struct {
	row    Row
	secret string
}

func NewShareModel(row Row, secret string) *ShareModel {
	return &ShareModel{row: row, secret: secret}
}

func (m *ShareModel) Init() tea.Cmd {
	return nil
}

func (m *ShareModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "enter":
			return m, func() tea.Msg { return PopMsg{} }
		}
	}
	return m, nil
}

func (m *ShareModel) View() string {
	title := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).
		Render(fmt.Sprintf("Scan to join %q", m.row.SSID))

	code, err := qrwifi.Render(m.row.SSID, m.secret, m.row.Security)
	if err != nil {
		code = lipgloss.NewStyle().Foreground(CurrentTheme.Error).
			Render("Could not render QR code: " + err.Error())
	}

	body := title + "\n\n" + code + "\n" +
		lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).Render("esc back")
	return lipgloss.NewStyle().Margin(1, 2).Render(body)
}
