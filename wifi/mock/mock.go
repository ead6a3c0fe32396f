// Package mock provides an in-memory wifi.Backend for tests and for running
// the TUI without touching a real network daemon (--backend=mock).
package mock

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/airtui/airtui/wifi"
)

// DefaultActionSleep emulates real-world daemon latency when running the TUI
// against the mock. Tests set it to 0.
var DefaultActionSleep = 500 * time.Millisecond

// Backend is an in-memory implementation of wifi.Backend. Exported fields
// may be mutated by tests before use; per-call error fields inject failures.
type Backend struct {
	mu       sync.Mutex
	networks []wifi.Network
	profiles map[string]wifi.Profile
	secrets  map[string]string
	active   string
	subs     []chan wifi.Event

	ScanErr        error
	ProfilesErr    error
	ConnectErr     error
	DisconnectErr  error
	ForgetErr      error
	AutoConnectErr error

	// ActionSleep is a delay before every call, to better emulate a real
	// daemon. Set to 0 during testing.
	ActionSleep time.Duration
}

// New creates a mock backend seeded with a list of fun networks.
func New() (*Backend, error) {
	networks := []wifi.Network{
		{SSID: "Pretty Fly for a WiFi", Strength: 92, Frequency: 5180, Security: wifi.SecurityWPA},
		{SSID: "Router? I Hardly Know Her", Strength: 78, Frequency: 2412, Security: wifi.SecurityWPA},
		{SSID: "The LAN Before Time", Strength: 71, Frequency: 5240, Security: wifi.SecurityWPA3},
		{SSID: "Abraham Linksys", Strength: 64, Frequency: 2437, Security: wifi.SecurityWPA},
		{SSID: "Drop It Like It's Hotspot", Strength: 55, Frequency: 2462, Security: wifi.SecurityOpen},
		{SSID: "Bill Wi the Science Fi", Strength: 47, Frequency: 5745, Security: wifi.SecurityWEP},
		{SSID: "No More Mister WiFi", Strength: 33, Frequency: 2412, Security: wifi.SecurityWPA},
		{SSID: "Silence of the LANs", Strength: 21, Frequency: 5180, Security: wifi.SecurityEnterprise},
	}
	profiles := map[string]wifi.Profile{
		"Abraham Linksys":       {SSID: "Abraham Linksys", AutoConnect: true},
		"The LAN Before Time":   {SSID: "The LAN Before Time", AutoConnect: false},
	}
	secrets := map[string]string{
		"Pretty Fly for a WiFi":     "swordfish",
		"Router? I Hardly Know Her": "hunter2",
		"Abraham Linksys":           "fourscore",
	}
	return &Backend{
		networks:    networks,
		profiles:    profiles,
		secrets:     secrets,
		ActionSleep: DefaultActionSleep,
	}, nil
}

// Seed replaces the backend's networks, profiles and secrets. For tests.
func (m *Backend) Seed(networks []wifi.Network, profiles []wifi.Profile, secrets map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.networks = networks
	m.profiles = make(map[string]wifi.Profile, len(profiles))
	for _, p := range profiles {
		m.profiles[p.SSID] = p
	}
	m.secrets = secrets
	m.active = ""
}

// Active returns the currently active SSID, or "".
func (m *Backend) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Backend) sleep() {
	if m.ActionSleep > 0 {
		time.Sleep(m.ActionSleep)
	}
}

func (m *Backend) emit(kind wifi.EventKind) {
	for _, ch := range m.subs {
		select {
		case ch <- wifi.Event{Kind: kind}:
		default:
		}
	}
}

func (m *Backend) Scan(ctx context.Context, rescan bool) ([]wifi.Network, error) {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ScanErr != nil {
		return nil, m.ScanErr
	}
	if rescan {
		// Emulate signal drift between scans.
		r := rand.New(rand.NewSource(time.Now().UnixNano()))
		for i := range m.networks {
			delta := r.Intn(11) - 5
			s := int(m.networks[i].Strength) + delta
			if s < 5 {
				s = 5
			}
			if s > 100 {
				s = 100
			}
			m.networks[i].Strength = uint8(s)
		}
	}

	out := make([]wifi.Network, len(m.networks))
	copy(out, m.networks)
	for i := range out {
		p, known := m.profiles[out[i].SSID]
		out[i].IsKnown = known
		out[i].AutoConnect = known && p.AutoConnect
		out[i].IsActive = out[i].SSID == m.active
	}
	return out, nil
}

func (m *Backend) SavedProfiles(ctx context.Context) ([]wifi.Profile, error) {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProfilesErr != nil {
		return nil, m.ProfilesErr
	}
	out := make([]wifi.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *Backend) Connect(ctx context.Context, ssid, password string) error {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ConnectErr != nil {
		return m.ConnectErr
	}

	var target *wifi.Network
	for i := range m.networks {
		if m.networks[i].SSID == ssid {
			target = &m.networks[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no such network %q: %w", ssid, wifi.ErrUnreachable)
	}

	if _, known := m.profiles[ssid]; !known && target.Security.RequiresPassphrase() {
		if password == "" {
			return fmt.Errorf("network %q is secured: %w", ssid, wifi.ErrAuthRequired)
		}
		if secret, ok := m.secrets[ssid]; ok && password != secret {
			return fmt.Errorf("bad passphrase for %q: %w", ssid, wifi.ErrAuthRejected)
		}
		m.profiles[ssid] = wifi.Profile{SSID: ssid, AutoConnect: true}
		defer m.emit(wifi.EventProfilesChanged)
	}

	m.active = ssid
	m.emit(wifi.EventStateChanged)
	return nil
}

func (m *Backend) Disconnect(ctx context.Context, ssid string) error {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DisconnectErr != nil {
		return m.DisconnectErr
	}
	if m.active != ssid {
		return fmt.Errorf("%q is not connected: %w", ssid, wifi.ErrNotFound)
	}
	m.active = ""
	m.emit(wifi.EventStateChanged)
	return nil
}

func (m *Backend) Forget(ctx context.Context, ssid string) error {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ForgetErr != nil {
		return m.ForgetErr
	}
	if _, ok := m.profiles[ssid]; !ok {
		return fmt.Errorf("no saved profile for %q: %w", ssid, wifi.ErrNotFound)
	}
	delete(m.profiles, ssid)
	if m.active == ssid {
		m.active = ""
		m.emit(wifi.EventStateChanged)
	}
	m.emit(wifi.EventProfilesChanged)
	return nil
}

func (m *Backend) SetAutoConnect(ctx context.Context, ssid string, enabled bool) error {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AutoConnectErr != nil {
		return m.AutoConnectErr
	}
	p, ok := m.profiles[ssid]
	if !ok {
		return fmt.Errorf("no saved profile for %q: %w", ssid, wifi.ErrNotFound)
	}
	p.AutoConnect = enabled
	m.profiles[ssid] = p
	m.emit(wifi.EventProfilesChanged)
	return nil
}

func (m *Backend) Secret(ctx context.Context, ssid string) (string, error) {
	m.sleep()
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[ssid]; !ok {
		return "", fmt.Errorf("no saved profile for %q: %w", ssid, wifi.ErrNotFound)
	}
	return m.secrets[ssid], nil
}

func (m *Backend) Events(ctx context.Context) (<-chan wifi.Event, error) {
	m.mu.Lock()
	ch := make(chan wifi.Event, 16)
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
