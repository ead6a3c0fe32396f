package wifi

import "context"

// SecurityType represents the security protocol of a network.
type SecurityType int

const (
	SecurityUnknown SecurityType = iota
	SecurityOpen
	SecurityWEP
	SecurityWPA
	SecurityWPA3
	SecurityEnterprise
)

func (s SecurityType) String() string {
	switch s {
	case SecurityOpen:
		return "Open"
	case SecurityWEP:
		return "WEP"
	case SecurityWPA:
		return "WPA/WPA2"
	case SecurityWPA3:
		return "WPA3"
	case SecurityEnterprise:
		return "Enterprise"
	default:
		return "Unknown"
	}
}

// RequiresPassphrase reports whether joining a network with this security
// type needs a credential up front. Enterprise networks need more than a
// passphrase, but prompting for one is still the closest thing we can do.
func (s SecurityType) RequiresPassphrase() bool {
	switch s {
	case SecurityOpen, SecurityWEP:
		return false
	}
	return true
}

// Band is a coarse frequency classification for display.
type Band int

const (
	BandUnknown Band = iota
	Band2GHz
	Band5GHz
	Band6GHz
)

func (b Band) String() string {
	switch b {
	case Band2GHz:
		return "2.4 GHz"
	case Band5GHz:
		return "5 GHz"
	case Band6GHz:
		return "6 GHz"
	default:
		return ""
	}
}

// Network represents a single observed network, grouped by SSID. Multiple
// access points broadcasting the same SSID collapse into one entry carrying
// the strongest signal.
type Network struct {
	SSID      string
	Strength  uint8 // 0-100
	Frequency uint  // MHz, from the strongest access point
	Security  SecurityType

	// IsActive means the daemon reports a fully activated connection on
	// this network. At most one network in a scan set may be active.
	IsActive bool
	// IsKnown means a saved profile exists for this SSID.
	IsKnown bool
	// AutoConnect is only meaningful when IsKnown is true.
	AutoConnect bool
}

// Band classifies the network's frequency.
func (n Network) Band() Band {
	switch {
	case n.Frequency >= 2400 && n.Frequency < 2500:
		return Band2GHz
	case n.Frequency >= 4900 && n.Frequency < 5900:
		return Band5GHz
	case n.Frequency >= 5925 && n.Frequency <= 7125:
		return Band6GHz
	}
	return BandUnknown
}

// Profile is the metadata of a saved connection profile.
type Profile struct {
	SSID        string
	AutoConnect bool
}

// Backend defines the capability interface for a network management daemon.
// Implementations exist for NetworkManager over D-Bus, for the nmcli helper
// binary, and as an in-memory mock. Every mutating call returns a definitive
// outcome: a timeout is a failure (ErrBackendTimeout), never a "maybe".
type Backend interface {
	// Scan returns all networks, triggering a fresh scan first when rescan
	// is true.
	Scan(ctx context.Context, rescan bool) ([]Network, error)
	// SavedProfiles returns the saved wireless profiles.
	SavedProfiles(ctx context.Context) ([]Profile, error)
	// Connect joins or activates the network. The password may be empty for
	// open/WEP networks and for networks with a saved profile.
	Connect(ctx context.Context, ssid string, password string) error
	// Disconnect deactivates the network's connection.
	Disconnect(ctx context.Context, ssid string) error
	// Forget removes the network's saved profile.
	Forget(ctx context.Context, ssid string) error
	// SetAutoConnect updates the autoconnect flag on a saved profile.
	SetAutoConnect(ctx context.Context, ssid string, enabled bool) error
	// Secret returns the stored passphrase of a saved profile, or "" for
	// profiles without one. Fails with ErrNotFound when no profile exists.
	Secret(ctx context.Context, ssid string) (string, error)
	// Events returns a stream of external state-change notifications. The
	// channel is closed when ctx is cancelled or the transport drops.
	Events(ctx context.Context) (<-chan Event, error)
}
