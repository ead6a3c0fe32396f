package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

// PasswordModel prompts for a passphrase before a connect is re-submitted
// with the credential attached. It closes itself when its network vanishes
// from the scan results.
type PasswordModel struct {
	SSID     string
	security wifi.SecurityType

	input   textinput.Model
	errText string
}

func NewPasswordModel(ssid string, security wifi.SecurityType) *PasswordModel {
	ti := textinput.New()
	ti.Placeholder = "passphrase"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 64
	ti.Focus()

	return &PasswordModel{
		SSID:     ssid,
		security: security,
		input:    ti,
	}
}

func (m *PasswordModel) Init() tea.Cmd {
	return textinput.Blink
}

// Fail records a rejected attempt so the prompt can be retried in place.
func (m *PasswordModel) Fail(err error) {
	m.errText = friendlyAuthError(err)
	m.input.SetValue("")
	m.input.Focus()
}

func friendlyAuthError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, wifi.ErrAuthRejected):
		return "Passphrase rejected, try again"
	case errors.Is(err, wifi.ErrAuthRequired):
		return "A passphrase is required"
	}
	return err.Error()
}

func (m *PasswordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case rowsMsg:
		// The prompt's target left the airwaves; no point asking anymore.
		for _, r := range msg.rows {
			if r.SSID == m.SSID {
				return m, nil
			}
		}
		return m, tea.Batch(
			func() tea.Msg { return PopMsg{} },
			func() tea.Msg { return SetStatusMsg(fmt.Sprintf("%q is no longer in range", m.SSID)) },
		)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return PopMsg{} }
		case "enter":
			password := m.input.Value()
			if password == "" {
				m.errText = "Passphrase cannot be empty"
				return m, nil
			}
			m.errText = ""
			action := engine.Action{
				Kind:        engine.KindConnect,
				SSID:        m.SSID,
				Password:    password,
				HasPassword: true,
			}
			return m, func() tea.Msg { return submitMsg{action: action} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PasswordModel) View() string {
	title := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true).
		Render(fmt.Sprintf("Join %q (%s)", m.SSID, m.security))

	body := title + "\n\n" + m.input.View()
	if m.errText != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(m.errText)
	}
	body += "\n\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Subtle).
		Render("enter join • esc cancel")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(CurrentTheme.Border).
		Padding(1, 2)
	return lipgloss.NewStyle().Margin(1, 2).Render(boxStyle.Render(body))
}
