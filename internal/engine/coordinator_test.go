package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/airtui/airtui/wifi"
)

// stubBackend counts calls and returns scripted errors.
type stubBackend struct {
	connectCalls int32
	connectErr   error
	connectWait  chan struct{} // if set, Connect blocks until closed

	disconnectErr  error
	forgetErr      error
	autoConnectErr error
}

func (b *stubBackend) Scan(ctx context.Context, rescan bool) ([]wifi.Network, error) {
	return nil, nil
}
func (b *stubBackend) SavedProfiles(ctx context.Context) ([]wifi.Profile, error) {
	return nil, nil
}
func (b *stubBackend) Connect(ctx context.Context, ssid, password string) error {
	atomic.AddInt32(&b.connectCalls, 1)
	if b.connectWait != nil {
		select {
		case <-b.connectWait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return b.connectErr
}
func (b *stubBackend) Disconnect(ctx context.Context, ssid string) error { return b.disconnectErr }
func (b *stubBackend) Forget(ctx context.Context, ssid string) error     { return b.forgetErr }
func (b *stubBackend) SetAutoConnect(ctx context.Context, ssid string, enabled bool) error {
	return b.autoConnectErr
}
func (b *stubBackend) Secret(ctx context.Context, ssid string) (string, error) { return "", nil }
func (b *stubBackend) Events(ctx context.Context) (<-chan wifi.Event, error) {
	ch := make(chan wifi.Event)
	close(ch)
	return ch, nil
}

func newTestCoordinator(b *stubBackend) (*Coordinator, *Store) {
	store := NewStore()
	store.ApplyScan([]wifi.Network{
		{SSID: "Home", Strength: 72, Security: wifi.SecurityWPA},
		{SSID: "Cafe", Strength: 40, Security: wifi.SecurityOpen},
		{SSID: "Known", Strength: 50, Security: wifi.SecurityWPA, IsKnown: true},
	}, nil)
	c := NewCoordinator(b, store)
	c.SetTimeout(time.Second)
	return c, store
}

func TestSubmitOpenNetworkConnects(t *testing.T) {
	b := &stubBackend{}
	c, store := newTestCoordinator(b)

	inv, err := c.Submit(Action{Kind: KindConnect, SSID: "Cafe"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// No optimistic update: before the call resolves the status is
	// Connecting, never Connected.
	if st := store.Status(); st.Phase != PhaseConnecting || st.SSID != "Cafe" {
		t.Fatalf("expected Connecting(Cafe) after submit, got %+v", st)
	}

	res := inv(context.Background())
	if res.Err != nil {
		t.Fatalf("unexpected result error: %v", res.Err)
	}
	if st := store.Status(); st.Phase != PhaseConnected || st.SSID != "Cafe" {
		t.Errorf("expected Connected(Cafe), got %+v", st)
	}
	if c.Busy("Cafe") {
		t.Error("pending action not cleared after completion")
	}
}

func TestSubmitSecuredUnknownNeedsPassword(t *testing.T) {
	b := &stubBackend{}
	c, _ := newTestCoordinator(b)

	_, err := c.Submit(Action{Kind: KindConnect, SSID: "Home"})
	if !errors.Is(err, ErrPasswordRequired) {
		t.Fatalf("expected ErrPasswordRequired, got %v", err)
	}
	if got := atomic.LoadInt32(&b.connectCalls); got != 0 {
		t.Errorf("backend called %d times before a credential was supplied", got)
	}
	if c.Busy("Home") {
		t.Error("rejected submit left a pending action")
	}

	// Re-submit with the credential goes through.
	inv, err := c.Submit(Action{Kind: KindConnect, SSID: "Home", Password: "hunter2", HasPassword: true})
	if err != nil {
		t.Fatalf("Submit with password failed: %v", err)
	}
	inv(context.Background())
	if got := atomic.LoadInt32(&b.connectCalls); got != 1 {
		t.Errorf("expected exactly one backend call, got %d", got)
	}
}

func TestSubmitKnownNetworkSkipsPrompt(t *testing.T) {
	b := &stubBackend{}
	c, _ := newTestCoordinator(b)

	if _, err := c.Submit(Action{Kind: KindConnect, SSID: "Known"}); err != nil {
		t.Fatalf("known network should connect without a credential: %v", err)
	}
}

func TestSubmitConflict(t *testing.T) {
	wait := make(chan struct{})
	b := &stubBackend{connectWait: wait}
	c, _ := newTestCoordinator(b)

	inv, err := c.Submit(Action{Kind: KindConnect, SSID: "Cafe"})
	if err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	done := make(chan Result, 1)
	go func() { done <- inv(context.Background()) }()

	// Second action on the same busy target is rejected, not queued, and
	// produces no backend call.
	_, err = c.Submit(Action{Kind: KindConnect, SSID: "Cafe"})
	if !errors.Is(err, ErrActionConflict) {
		t.Fatalf("expected ErrActionConflict, got %v", err)
	}

	// A different target is not affected.
	if _, err := c.Submit(Action{Kind: KindForget, SSID: "Known"}); err != nil {
		t.Errorf("action on a different target rejected: %v", err)
	}

	close(wait)
	<-done
	if got := atomic.LoadInt32(&b.connectCalls); got != 1 {
		t.Errorf("expected exactly one connect call, got %d", got)
	}

	// Target is free again after completion.
	if _, err := c.Submit(Action{Kind: KindConnect, SSID: "Cafe"}); err != nil {
		t.Errorf("target still busy after completion: %v", err)
	}
}

func TestConnectFailureIsTerminal(t *testing.T) {
	b := &stubBackend{connectErr: wifi.ErrAuthRejected}
	c, store := newTestCoordinator(b)

	inv, err := c.Submit(Action{Kind: KindConnect, SSID: "Home", Password: "wrong", HasPassword: true})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	res := inv(context.Background())
	if !errors.Is(res.Err, wifi.ErrAuthRejected) {
		t.Fatalf("expected ErrAuthRejected, got %v", res.Err)
	}
	if c.Busy("Home") {
		t.Error("pending action survived a failure")
	}
	st := store.Status()
	if st.Phase != PhaseError || !errors.Is(st.Err, wifi.ErrAuthRejected) {
		t.Errorf("expected Error status carrying the cause, got %+v", st)
	}
	if got := store.Snapshot().RowErrors["Home"]; !errors.Is(got, wifi.ErrAuthRejected) {
		t.Errorf("expected row error on Home, got %v", got)
	}

	// Acting on the network again clears the annotation.
	if _, err := c.Submit(Action{Kind: KindConnect, SSID: "Home", Password: "right", HasPassword: true}); err != nil {
		t.Fatalf("retry submit failed: %v", err)
	}
	if _, ok := store.Snapshot().RowErrors["Home"]; ok {
		t.Error("row error not cleared on retry")
	}
}

func TestTimeoutBecomesBackendTimeout(t *testing.T) {
	wait := make(chan struct{}) // never closed
	b := &stubBackend{connectWait: wait}
	c, store := newTestCoordinator(b)
	c.SetTimeout(10 * time.Millisecond)

	inv, err := c.Submit(Action{Kind: KindConnect, SSID: "Cafe"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	res := inv(context.Background())
	if !errors.Is(res.Err, wifi.ErrBackendTimeout) {
		t.Fatalf("expected ErrBackendTimeout, got %v", res.Err)
	}
	if c.Busy("Cafe") {
		t.Error("pending action survived a timeout")
	}
	if st := store.Status(); st.Phase != PhaseError {
		t.Errorf("expected Error status after timeout, got %+v", st)
	}
}

func TestAutoConnectConfirmedOnly(t *testing.T) {
	b := &stubBackend{}
	c, store := newTestCoordinator(b)
	store.ApplyProfiles([]wifi.Profile{{SSID: "Known", AutoConnect: false}})

	inv, err := c.Submit(Action{Kind: KindAutoConnect, SSID: "Known", Enable: true})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Before confirmation the displayed flag is unchanged.
	n, _ := store.Snapshot().Network("Known")
	if n.AutoConnect {
		t.Fatal("autoconnect flag flipped before backend confirmation")
	}

	inv(context.Background())
	n, _ = store.Snapshot().Network("Known")
	if !n.AutoConnect {
		t.Error("autoconnect flag did not flip after confirmed success")
	}
}

func TestForgetSuccessRemovesProfile(t *testing.T) {
	b := &stubBackend{}
	c, store := newTestCoordinator(b)
	store.ApplyProfiles([]wifi.Profile{{SSID: "Known", AutoConnect: true}})

	inv, err := c.Submit(Action{Kind: KindForget, SSID: "Known"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	inv(context.Background())

	n, _ := store.Snapshot().Network("Known")
	if n.IsKnown {
		t.Error("network still known after confirmed forget")
	}
}

func TestForgetFailureAnnotatesRow(t *testing.T) {
	b := &stubBackend{forgetErr: wifi.ErrNotFound}
	c, store := newTestCoordinator(b)

	inv, err := c.Submit(Action{Kind: KindForget, SSID: "Known"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	res := inv(context.Background())
	if !errors.Is(res.Err, wifi.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", res.Err)
	}
	// Forget failures never touch the connection status.
	if st := store.Status(); st.Phase == PhaseError {
		t.Errorf("forget failure leaked into connection status: %+v", st)
	}
	if got := store.Snapshot().RowErrors["Known"]; !errors.Is(got, wifi.ErrNotFound) {
		t.Errorf("expected row error, got %v", got)
	}
}
