// Package tui is the interactive terminal frontend. All state it renders
// comes from the engine store; key presses become engine actions and never
// mutate displayed state directly.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/airtui/airtui/internal/log"
	"github.com/airtui/airtui/wifi"
)

// Run starts the interactive UI against the given backend and blocks until
// the user quits.
func Run(backend wifi.Backend) error {
	s := NewStack(backend)
	p := tea.NewProgram(s, tea.WithAltScreen())

	// Route log records into the program so nothing writes to the terminal
	// behind the alternate screen.
	msgs := make(chan tea.Msg, 64)
	go func() {
		for m := range msgs {
			p.Send(m)
		}
	}()
	log.SetOutput(msgs)
	defer log.SetOutput(nil)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
