// Package engine reconciles backend-confirmed network state with the UI.
//
// The Store is the single authoritative in-process mirror of daemon state.
// It has exactly one writer path: confirmed backend events and terminal
// action results. User intent never writes here directly, so the UI can
// only ever render state the daemon has confirmed.
package engine

import (
	"sync"

	"github.com/airtui/airtui/wifi"
)

// Phase is the coarse connection state of the machine.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseDisconnecting
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseDisconnecting:
		return "disconnecting"
	case PhaseError:
		return "error"
	default:
		return "disconnected"
	}
}

// Status is the process-wide connection status. SSID is the target of the
// phase; Err is only set for PhaseError.
type Status struct {
	Phase Phase
	SSID  string
	Err   error
}

// Snapshot is a consistent read-only view of the store for rendering.
// No reader ever observes a half-applied scan.
type Snapshot struct {
	Networks  []wifi.Network
	Status    Status
	Profiles  map[string]wifi.Profile
	RowErrors map[string]error
}

// Network returns the snapshot entry for ssid, if present.
func (s Snapshot) Network(ssid string) (wifi.Network, bool) {
	for _, n := range s.Networks {
		if n.SSID == ssid {
			return n, true
		}
	}
	return wifi.Network{}, false
}

// Store holds the backend-confirmed state. All methods are safe for
// concurrent use; writes are atomic with respect to any single event.
type Store struct {
	mu        sync.RWMutex
	networks  []wifi.Network
	status    Status
	profiles  map[string]wifi.Profile
	rowErrors map[string]error
}

func NewStore() *Store {
	return &Store{
		profiles:  make(map[string]wifi.Profile),
		rowErrors: make(map[string]error),
	}
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	networks := make([]wifi.Network, len(s.networks))
	copy(networks, s.networks)
	profiles := make(map[string]wifi.Profile, len(s.profiles))
	for k, v := range s.profiles {
		profiles[k] = v
	}
	rowErrors := make(map[string]error, len(s.rowErrors))
	for k, v := range s.rowErrors {
		rowErrors[k] = v
	}
	return Snapshot{
		Networks:  networks,
		Status:    s.status,
		Profiles:  profiles,
		RowErrors: rowErrors,
	}
}

// Status returns the current connection status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// ApplyScan replaces the network list wholesale with a fresh scan result.
// Entries that disappeared from the scan but have an action pending (retain
// reports true for their SSID) are kept with their last known attributes
// until the action resolves, so a target never vanishes mid-operation.
//
// The connected entry is recomputed from the scan, never from local
// assumption. When no connect/disconnect is in flight the overall Status is
// derived from the scan as well: whichever reconciliation arrives last wins.
func (s *Store) ApplyScan(networks []wifi.Network, retain func(ssid string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]wifi.Network, len(networks))
	copy(fresh, networks)

	seen := make(map[string]bool, len(fresh))
	for _, n := range fresh {
		seen[n.SSID] = true
	}
	if retain != nil {
		for _, old := range s.networks {
			if !seen[old.SSID] && retain(old.SSID) {
				old.IsActive = false
				fresh = append(fresh, old)
				seen[old.SSID] = true
			}
		}
	}

	// The daemon is the source of truth for the single-active invariant,
	// but a scan captured mid-roam can briefly report two active APs with
	// different SSIDs. Keep only the strongest.
	activeSSID := ""
	for i := range fresh {
		if !fresh[i].IsActive {
			continue
		}
		if activeSSID == "" {
			activeSSID = fresh[i].SSID
		} else if fresh[i].SSID != activeSSID {
			fresh[i].IsActive = false
		}
	}

	wifi.SortNetworks(fresh)
	s.networks = fresh

	// Drop stale per-row errors for networks that no longer exist.
	for ssid := range s.rowErrors {
		if !seen[ssid] {
			delete(s.rowErrors, ssid)
		}
	}

	switch s.status.Phase {
	case PhaseConnecting, PhaseDisconnecting:
		// An action is in flight; its terminal result or a later event
		// settles the status. Never infer an outcome early.
	default:
		if activeSSID != "" {
			s.status = Status{Phase: PhaseConnected, SSID: activeSSID}
		} else if s.status.Phase == PhaseConnected {
			s.status = Status{Phase: PhaseDisconnected}
		}
	}
}

// ApplyProfiles replaces the saved-profile set and reconciles the known and
// autoconnect flags on the network list.
func (s *Store) ApplyProfiles(profiles []wifi.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[string]wifi.Profile, len(profiles))
	for _, p := range profiles {
		s.profiles[p.SSID] = p
	}
	s.reconcileProfilesLocked()
}

// forgetProfile removes a single profile after a confirmed forget result.
func (s *Store) forgetProfile(ssid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, ssid)
	s.reconcileProfilesLocked()
}

// setProfileAutoConnect records a confirmed autoconnect change.
func (s *Store) setProfileAutoConnect(ssid string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[ssid]
	if !ok {
		p = wifi.Profile{SSID: ssid}
	}
	p.AutoConnect = enabled
	s.profiles[ssid] = p
	s.reconcileProfilesLocked()
}

func (s *Store) reconcileProfilesLocked() {
	for i := range s.networks {
		p, known := s.profiles[s.networks[i].SSID]
		s.networks[i].IsKnown = known
		if known {
			s.networks[i].AutoConnect = p.AutoConnect
		} else {
			s.networks[i].AutoConnect = false
		}
	}
}

// SetStatus records a confirmed status transition. Races between an action's
// terminal result and a concurrent external event resolve by arrival order:
// last writer wins, since both derive from the same source of truth.
func (s *Store) SetStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status

	// A connected/disconnected confirmation supersedes the active flags
	// from the previous scan.
	switch status.Phase {
	case PhaseConnected:
		for i := range s.networks {
			s.networks[i].IsActive = s.networks[i].SSID == status.SSID
		}
	case PhaseDisconnected:
		for i := range s.networks {
			s.networks[i].IsActive = false
		}
	}
}

// SetRowError attaches a transient error to a single network's row.
func (s *Store) SetRowError(ssid string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.rowErrors, ssid)
		return
	}
	s.rowErrors[ssid] = err
}

// ClearRowError removes the error annotation from a network's row. Called
// when the user next acts on that network.
func (s *Store) ClearRowError(ssid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rowErrors, ssid)
}
