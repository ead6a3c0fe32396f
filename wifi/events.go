package wifi

// EventKind classifies an external state-change notification.
type EventKind int

const (
	// EventScanUpdated means the daemon's access point cache changed.
	EventScanUpdated EventKind = iota
	// EventStateChanged means the connection state changed, possibly from
	// outside this process (another tool, signal loss, roaming).
	EventStateChanged
	// EventProfilesChanged means the saved profile list changed.
	EventProfilesChanged
)

func (k EventKind) String() string {
	switch k {
	case EventScanUpdated:
		return "scan-updated"
	case EventStateChanged:
		return "state-changed"
	case EventProfilesChanged:
		return "profiles-changed"
	default:
		return "unknown"
	}
}

// Event is a notification from the Events stream. It carries no payload:
// consumers re-read state through Scan/SavedProfiles, which keeps the daemon
// as the single source of truth.
type Event struct {
	Kind EventKind
}
