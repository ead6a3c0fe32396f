package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/airtui/airtui/wifi"
)

var (
	// ErrActionConflict means another action is already in flight for the
	// same network. The second request is rejected, never queued.
	ErrActionConflict = errors.New("another action is pending for this network")
	// ErrPasswordRequired means a connect was submitted for a secured
	// network with no credential available. No backend call is made; the
	// caller should open the passphrase prompt and re-submit.
	ErrPasswordRequired = errors.New("passphrase required")
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 30 * time.Second

// Kind identifies a mutating action.
type Kind int

const (
	KindConnect Kind = iota
	KindDisconnect
	KindForget
	KindAutoConnect
)

func (k Kind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindDisconnect:
		return "disconnect"
	case KindForget:
		return "forget"
	case KindAutoConnect:
		return "autoconnect"
	default:
		return "unknown"
	}
}

// Action is a user-initiated mutating request against one network.
type Action struct {
	Kind Kind
	SSID string

	// Password accompanies KindConnect. HasPassword distinguishes an empty
	// credential from an absent one.
	Password    string
	HasPassword bool

	// Enable is the target value for KindAutoConnect.
	Enable bool
}

// Result is the terminal outcome of an action.
type Result struct {
	Action Action
	Err    error
}

// Invocation performs the accepted action's single backend call and reports
// its terminal result. It must be run exactly once, off the UI loop.
type Invocation func(ctx context.Context) Result

// Coordinator serializes mutating actions per target network: at most one
// in-flight action per SSID. It owns the pending set and is the only
// component that turns intents into backend calls.
type Coordinator struct {
	backend wifi.Backend
	store   *Store
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]Kind
}

func NewCoordinator(backend wifi.Backend, store *Store) *Coordinator {
	return &Coordinator{
		backend: backend,
		store:   store,
		timeout: DefaultTimeout,
		pending: make(map[string]Kind),
	}
}

// SetTimeout overrides the per-call deadline. Zero disables it.
func (c *Coordinator) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Busy reports whether an action is in flight for ssid.
func (c *Coordinator) Busy(ssid string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[ssid]
	return ok
}

// Pending returns a copy of the in-flight action set.
func (c *Coordinator) Pending() map[string]Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Kind, len(c.pending))
	for k, v := range c.pending {
		out[k] = v
	}
	return out
}

// Submit validates and registers an action. It returns ErrActionConflict if
// the target is busy, ErrPasswordRequired if a connect needs a credential,
// or an Invocation that performs the backend call. Registration is
// synchronous; the returned Invocation does the slow part.
func (c *Coordinator) Submit(a Action) (Invocation, error) {
	if a.Kind == KindConnect {
		if n, ok := c.store.Snapshot().Network(a.SSID); ok {
			if !n.IsKnown && n.Security.RequiresPassphrase() && !a.HasPassword {
				return nil, ErrPasswordRequired
			}
		}
	}

	c.mu.Lock()
	if _, busy := c.pending[a.SSID]; busy {
		c.mu.Unlock()
		return nil, ErrActionConflict
	}
	c.pending[a.SSID] = a.Kind
	c.mu.Unlock()

	// Acting on a network clears its previous error annotation.
	c.store.ClearRowError(a.SSID)

	// Connect/disconnect are visible in the overall status while pending.
	// This is the in-flight marker, not a predicted end state.
	switch a.Kind {
	case KindConnect:
		c.store.SetStatus(Status{Phase: PhaseConnecting, SSID: a.SSID})
	case KindDisconnect:
		c.store.SetStatus(Status{Phase: PhaseDisconnecting, SSID: a.SSID})
	}

	return func(ctx context.Context) Result {
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		var err error
		switch a.Kind {
		case KindConnect:
			err = c.backend.Connect(ctx, a.SSID, a.Password)
		case KindDisconnect:
			err = c.backend.Disconnect(ctx, a.SSID)
		case KindForget:
			err = c.backend.Forget(ctx, a.SSID)
		case KindAutoConnect:
			err = c.backend.SetAutoConnect(ctx, a.SSID, a.Enable)
		}
		if err != nil && ctx.Err() == context.DeadlineExceeded && !errors.Is(err, wifi.ErrBackendTimeout) {
			err = fmt.Errorf("%w: %v", wifi.ErrBackendTimeout, err)
		}

		c.complete(a, err)
		return Result{Action: a, Err: err}
	}, nil
}

// complete clears the pending entry and writes the terminal outcome into the
// store. No automatic retries: failures surface to the user, who may retry
// explicitly.
func (c *Coordinator) complete(a Action, err error) {
	c.mu.Lock()
	delete(c.pending, a.SSID)
	c.mu.Unlock()

	switch a.Kind {
	case KindConnect:
		if err != nil {
			c.store.SetStatus(Status{Phase: PhaseError, SSID: a.SSID, Err: err})
			c.store.SetRowError(a.SSID, err)
			return
		}
		c.store.SetStatus(Status{Phase: PhaseConnected, SSID: a.SSID})
	case KindDisconnect:
		if err != nil {
			c.store.SetStatus(Status{Phase: PhaseError, SSID: a.SSID, Err: err})
			c.store.SetRowError(a.SSID, err)
			return
		}
		c.store.SetStatus(Status{Phase: PhaseDisconnected})
	case KindForget:
		if err != nil {
			c.store.SetRowError(a.SSID, err)
			return
		}
		c.store.forgetProfile(a.SSID)
	case KindAutoConnect:
		if err != nil {
			c.store.SetRowError(a.SSID, err)
			return
		}
		c.store.setProfileAutoConnect(a.SSID, a.Enable)
	}
}
