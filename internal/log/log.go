// Package log routes slog records into the TUI so diagnostics never write
// to the terminal behind the alternate screen.
package log

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

const maxStoredRecords = 50

// Msg is a tea.Msg carrying one log record.
type Msg slog.Record

// TUIHandler is a slog.Handler that mirrors records to a tea.Program.
type TUIHandler struct {
	slog.Handler
	mu   sync.Mutex
	ch   chan<- tea.Msg
	logs []slog.Record
}

// NewTUIHandler wraps handler, forwarding records to ch when set.
func NewTUIHandler(handler slog.Handler, ch chan<- tea.Msg) *TUIHandler {
	return &TUIHandler{Handler: handler, ch: ch}
}

func (h *TUIHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	h.logs = append(h.logs, r)
	if len(h.logs) > maxStoredRecords {
		h.logs = h.logs[1:]
	}
	ch := h.ch
	h.mu.Unlock()

	if ch != nil {
		ch <- Msg(r)
	}
	return h.Handler.Handle(ctx, r)
}

// Logs returns the retained records.
func (h *TUIHandler) Logs() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]slog.Record, len(h.logs))
	copy(out, h.logs)
	return out
}

// SetOutput points the handler at a running program's message channel.
func (h *TUIHandler) SetOutput(ch chan<- tea.Msg) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ch = ch
}

var defaultHandler *TUIHandler

// Init installs the default TUI-aware logger.
func Init(handler slog.Handler) {
	defaultHandler = NewTUIHandler(handler, nil)
	slog.SetDefault(slog.New(defaultHandler))
}

// SetOutput sets the output channel on the default handler.
func SetOutput(ch chan<- tea.Msg) {
	if defaultHandler != nil {
		defaultHandler.SetOutput(ch)
	}
}
