package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

//- Messages for stack navigation ----------------------------------------------

// PushMsg is a message to push a new view onto the stack.
type PushMsg struct{ Model tea.Model }

// PopMsg is a message to pop a view from the stack.
type PopMsg struct{}

//- Messages for global state --------------------------------------------------

// SetStatusMsg is a message to set the status message on the root model.
type SetStatusMsg string

// SetLoadingMsg is a message to control the loading spinner on the root model.
type SetLoadingMsg struct {
	Loading bool
	Message string
}

// errorMsg carries a transport-level failure: the backend call itself could
// not be made or answered. Shown as a dismissible banner, since the list
// still renders the last confirmed state.
type errorMsg struct{ err error }

//- Engine traffic --------------------------------------------------------------

// rowsMsg is broadcast to every view after the store changed; views re-render
// from it and never read the store directly.
type rowsMsg struct {
	rows   []Row
	status engine.Status
}

// refreshedMsg carries a fresh scan and profile read, not yet applied.
type refreshedMsg struct {
	networks []wifi.Network
	profiles []wifi.Profile
}

// backendEventMsg is one external change notification from the event stream.
type backendEventMsg wifi.Event

// eventsClosedMsg means the event stream dropped; the root resubscribes.
type eventsClosedMsg struct{}

// eventsReadyMsg delivers a new event channel after (re)subscribing.
type eventsReadyMsg struct{ ch <-chan wifi.Event }

// actionResultMsg is the terminal outcome of a submitted action.
type actionResultMsg engine.Result

//- View intents ----------------------------------------------------------------

// submitMsg asks the root to submit an action to the coordinator. Views never
// touch the coordinator themselves.
type submitMsg struct{ action engine.Action }

// scanRequestMsg asks the root for a fresh scan.
type scanRequestMsg struct{ rescan bool }

// autoScanToggleMsg asks the root to toggle the periodic rescan schedule.
type autoScanToggleMsg struct{}

// shareRequestMsg asks the root to fetch a profile's secret and show the
// join QR code.
type shareRequestMsg struct{ row Row }

// secretLoadedMsg delivers a fetched secret for the share view.
type secretLoadedMsg struct {
	row    Row
	secret string
}

//- Commands --------------------------------------------------------------------

// refreshNetworks reads profiles and the network list off the UI loop. The
// result is applied to the store only when the whole read succeeded.
func refreshNetworks(b wifi.Backend, rescan bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engine.DefaultTimeout)
		defer cancel()

		profiles, err := b.SavedProfiles(ctx)
		if err != nil {
			return errorMsg{err}
		}
		networks, err := b.Scan(ctx, rescan)
		if err != nil {
			return errorMsg{err}
		}
		return refreshedMsg{networks: networks, profiles: profiles}
	}
}

// runInvocation executes an accepted action in a command goroutine.
func runInvocation(inv engine.Invocation) tea.Cmd {
	return func() tea.Msg {
		return actionResultMsg(inv(context.Background()))
	}
}

// subscribeEvents opens the backend's event stream.
func subscribeEvents(ctx context.Context, b wifi.Backend) tea.Cmd {
	return func() tea.Msg {
		ch, err := b.Events(ctx)
		if err != nil {
			return errorMsg{err}
		}
		return eventsReadyMsg{ch: ch}
	}
}

// waitForEvent blocks on the event channel; re-issued after every delivery.
func waitForEvent(ch <-chan wifi.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		return backendEventMsg(ev)
	}
}

// fetchSecret reads a saved profile's passphrase for the share view.
func fetchSecret(b wifi.Backend, row Row) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), engine.DefaultTimeout)
		defer cancel()

		secret, err := b.Secret(ctx, row.SSID)
		if err != nil {
			return errorMsg{err}
		}
		return secretLoadedMsg{row: row, secret: secret}
	}
}
