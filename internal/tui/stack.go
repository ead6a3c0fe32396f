package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/internal/helpers"
	"github.com/airtui/airtui/internal/log"
	"github.com/airtui/airtui/wifi"
)

// Stack is the root tea.Model. It manages a stack of views and owns the
// engine: the store, the coordinator and the backend event subscription.
// Views express intents (submitMsg, scanRequestMsg); only the Stack talks to
// the coordinator, and only engine results reach the store.
type Stack struct {
	views []tea.Model

	backend wifi.Backend
	store   *engine.Store
	coord   *engine.Coordinator
	events  <-chan wifi.Event

	spinner       spinner.Model
	schedule      *ScanSchedule
	loading       bool
	statusMessage string
	lastRefresh   time.Time
	width, height int
}

// NewStack creates the root model with the network list as its base view.
func NewStack(backend wifi.Backend) *Stack {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(CurrentTheme.Primary)

	store := engine.NewStore()
	s := &Stack{
		backend: backend,
		store:   store,
		coord:   engine.NewCoordinator(backend, store),
		spinner: sp,
		views:   []tea.Model{NewListModel()},
		loading: true,
	}
	s.statusMessage = "Loading networks..."
	s.schedule = NewScanSchedule(func() tea.Msg {
		return scanRequestMsg{rescan: true}
	})
	return s
}

// Init kicks off the first refresh and the event subscription.
func (s *Stack) Init() tea.Cmd {
	cmds := []tea.Cmd{
		s.spinner.Tick,
		refreshNetworks(s.backend, false),
		subscribeEvents(context.Background(), s.backend),
	}
	if s.Top() != nil {
		cmds = append(cmds, s.Top().Init())
	}
	if cmd := s.schedule.SetSchedule(ScanSlow); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the stack.
func (s *Stack) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	// Stack navigation
	case PopMsg:
		s.Pop()
		if s.Top() == nil {
			return s, tea.Quit
		}
		return s, nil
	case PushMsg:
		s.Push(msg.Model)
		return s, s.Top().Init()

	// Global state
	case SetStatusMsg:
		s.statusMessage = string(msg)
		s.loading = false
	case SetLoadingMsg:
		s.loading = msg.Loading
		s.statusMessage = msg.Message
	case errorMsg:
		s.loading = false
		s.statusMessage = ""
		s.Push(NewErrorModel(msg.err))
		return s, nil

	// Engine traffic
	case refreshedMsg:
		s.store.ApplyProfiles(msg.profiles)
		s.store.ApplyScan(msg.networks, s.coord.Busy)
		s.loading = false
		s.statusMessage = ""
		s.lastRefresh = time.Now()
		return s, s.broadcast()
	case actionResultMsg:
		return s, s.handleResult(engine.Result(msg))
	case submitMsg:
		return s, s.submit(msg.action)

	// External events
	case eventsReadyMsg:
		s.events = msg.ch
		return s, waitForEvent(s.events)
	case backendEventMsg:
		// Whatever changed, re-reading scan and profiles reconciles it.
		return s, tea.Batch(refreshNetworks(s.backend, false), waitForEvent(s.events))
	case eventsClosedMsg:
		s.statusMessage = "Event stream lost, reconnecting..."
		return s, subscribeEvents(context.Background(), s.backend)

	// Scanning
	case scanRequestMsg:
		if msg.rescan {
			s.loading = true
			s.statusMessage = "Scanning for networks..."
		}
		return s, refreshNetworks(s.backend, msg.rescan)
	case autoScanToggleMsg:
		enabled, cmd := s.schedule.Toggle()
		if enabled {
			s.statusMessage = "Auto-scan on"
		} else {
			s.statusMessage = "Auto-scan off"
		}
		return s, cmd
	case tickMsg:
		return s, s.schedule.Update(msg)

	// Sharing
	case shareRequestMsg:
		s.loading = true
		s.statusMessage = fmt.Sprintf("Loading secret for %s...", msg.row.SSID)
		return s, fetchSecret(s.backend, msg.row)
	case secretLoadedMsg:
		s.loading = false
		s.statusMessage = ""
		s.Push(NewShareModel(msg.row, msg.secret))
		return s, s.Top().Init()

	case log.Msg:
		// Warnings and errors surface in the footer; info stays buffered.
		if r := slog.Record(msg); r.Level >= slog.LevelWarn {
			s.statusMessage = r.Message
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return s, tea.Quit
		}

	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		// Propagate the window size message to all views on the stack
		for i, view := range s.views {
			updatedView, cmd := view.Update(msg)
			s.views[i] = updatedView
			cmds = append(cmds, cmd)
		}
		return s, tea.Batch(cmds...)
	}

	// Delegate all other messages to the top view
	if s.Top() != nil {
		var cmd tea.Cmd
		var model tea.Model
		model, cmd = s.Top().Update(msg)
		s.views[len(s.views)-1] = model
		cmds = append(cmds, cmd)
	}

	// Always update the spinner
	var spinCmd tea.Cmd
	s.spinner, spinCmd = s.spinner.Update(msg)
	cmds = append(cmds, spinCmd)

	return s, tea.Batch(cmds...)
}

// submit hands an intent to the coordinator and reacts to the verdict.
func (s *Stack) submit(a engine.Action) tea.Cmd {
	inv, err := s.coord.Submit(a)
	switch {
	case errors.Is(err, engine.ErrPasswordRequired):
		security := wifi.SecurityUnknown
		if n, ok := s.store.Snapshot().Network(a.SSID); ok {
			security = n.Security
		}
		s.Push(NewPasswordModel(a.SSID, security))
		return s.Top().Init()
	case errors.Is(err, engine.ErrActionConflict):
		// Rejected, not queued. A transient notice is enough; nothing in
		// the store changed.
		s.statusMessage = fmt.Sprintf("Still busy with %q", a.SSID)
		return nil
	case err != nil:
		return func() tea.Msg { return errorMsg{err} }
	}

	s.loading = true
	s.statusMessage = fmt.Sprintf("%s %q...", actionVerb(a), a.SSID)
	return tea.Batch(runInvocation(inv), s.broadcast())
}

// handleResult applies a terminal action outcome to the view stack. The store
// was already updated by the coordinator.
func (s *Stack) handleResult(res engine.Result) tea.Cmd {
	s.loading = false
	s.statusMessage = ""

	var cmds []tea.Cmd
	authFailure := res.Err != nil && res.Action.Kind == engine.KindConnect &&
		(errors.Is(res.Err, wifi.ErrAuthRejected) || errors.Is(res.Err, wifi.ErrAuthRequired))

	if pw, ok := s.Top().(*PasswordModel); ok && pw.SSID == res.Action.SSID {
		if authFailure {
			// Keep the prompt up with the failure inline so the user can
			// retype without re-navigating.
			pw.Fail(res.Err)
		} else {
			s.Pop()
		}
	} else if authFailure {
		security := wifi.SecurityUnknown
		if n, ok := s.store.Snapshot().Network(res.Action.SSID); ok {
			security = n.Security
		}
		pw := NewPasswordModel(res.Action.SSID, security)
		pw.Fail(res.Err)
		s.Push(pw)
		cmds = append(cmds, s.Top().Init())
	}

	if res.Err == nil {
		// Reconcile against the daemon; the result told us our action
		// landed, a fresh read tells us everything else it caused.
		cmds = append(cmds, refreshNetworks(s.backend, false))
	}
	cmds = append(cmds, s.broadcast())
	return tea.Batch(cmds...)
}

// broadcast rebuilds rows from the store and delivers them to every view on
// the stack, not just the top, so a buried list stays current.
func (s *Stack) broadcast() tea.Cmd {
	msg := rowsMsg{
		rows:   BuildRows(s.store.Snapshot(), s.coord.Busy),
		status: s.store.Status(),
	}
	var cmds []tea.Cmd
	for i, view := range s.views {
		updatedView, cmd := view.Update(msg)
		s.views[i] = updatedView
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func actionVerb(a engine.Action) string {
	switch a.Kind {
	case engine.KindConnect:
		return "Connecting to"
	case engine.KindDisconnect:
		return "Disconnecting from"
	case engine.KindForget:
		return "Forgetting"
	case engine.KindAutoConnect:
		if a.Enable {
			return "Enabling autoconnect for"
		}
		return "Disabling autoconnect for"
	default:
		return "Working on"
	}
}

// statusLine renders the confirmed connection status for the footer.
func statusLine(st engine.Status) string {
	switch st.Phase {
	case engine.PhaseConnecting:
		return fmt.Sprintf("Connecting to %q...", st.SSID)
	case engine.PhaseConnected:
		return fmt.Sprintf("Connected to %q", st.SSID)
	case engine.PhaseDisconnecting:
		return fmt.Sprintf("Disconnecting from %q...", st.SSID)
	case engine.PhaseError:
		return fmt.Sprintf("Failed on %q: %v", st.SSID, st.Err)
	default:
		return "Not connected"
	}
}

// View renders the view at the top of the stack with the status footer.
func (s *Stack) View() string {
	var view strings.Builder
	if s.Top() != nil {
		view.WriteString(s.Top().View())
	}

	st := s.store.Status()
	footerStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Subtle)
	if st.Phase == engine.PhaseError {
		footerStyle = lipgloss.NewStyle().Foreground(CurrentTheme.Error)
	}
	footer := statusLine(st)
	if !s.lastRefresh.IsZero() {
		footer += " · updated " + helpers.FormatDuration(s.lastRefresh)
	}
	view.WriteString("\n")
	view.WriteString(footerStyle.Render(footer))

	if s.loading {
		view.WriteString(fmt.Sprintf("\n%s %s", s.spinner.View(), lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(s.statusMessage)))
	} else if s.statusMessage != "" {
		view.WriteString(fmt.Sprintf("\n%s", lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(s.statusMessage)))
	}

	return view.String()
}

// Push adds a view to the top of the stack.
func (s *Stack) Push(v tea.Model) {
	s.views = append(s.views, v)
}

// Pop removes and returns the view from the top of the stack.
func (s *Stack) Pop() tea.Model {
	if len(s.views) == 0 {
		return nil
	}
	v := s.views[len(s.views)-1]
	s.views = s.views[:len(s.views)-1]
	return v
}

// Top returns the view at the top of the stack without removing it.
func (s *Stack) Top() tea.Model {
	if len(s.views) == 0 {
		return nil
	}
	return s.views[len(s.views)-1]
}
