//go:build linux

// Package networkmanager implements wifi.Backend over NetworkManager's D-Bus
// API.
package networkmanager

import (
	"context"
	"fmt"
	"time"

	"github.com/Wifx/gonetworkmanager/v3"
	"github.com/google/uuid"

	"github.com/airtui/airtui/wifi"
)

const activationTimeout = 30 * time.Second

// Backend talks to NetworkManager over the system bus.
type Backend struct {
	nm       gonetworkmanager.NetworkManager
	settings gonetworkmanager.Settings

	// Caches keyed by SSID, rebuilt on every Scan. Operations resolve
	// their targets through these, same lifetime as the displayed list.
	connections  map[string]gonetworkmanager.Connection
	accessPoints map[string]gonetworkmanager.AccessPoint
}

// New creates a D-Bus backend, failing with ErrBackendUnavailable when
// NetworkManager is not reachable on the system bus.
func New() (*Backend, error) {
	nm, err := gonetworkmanager.NewNetworkManager()
	if err != nil {
		return nil, fmt.Errorf("connecting to NetworkManager: %w", wifi.ErrBackendUnavailable)
	}
	settings, err := gonetworkmanager.NewSettings()
	if err != nil {
		return nil, fmt.Errorf("getting settings: %w", wifi.ErrBackendUnavailable)
	}
	// Probe the service so a missing daemon fails here, not on first use.
	if _, err := nm.GetPropertyVersion(); err != nil {
		return nil, fmt.Errorf("NetworkManager not responding: %w", wifi.ErrBackendUnavailable)
	}

	return &Backend{
		nm:           nm,
		settings:     settings,
		connections:  make(map[string]gonetworkmanager.Connection),
		accessPoints: make(map[string]gonetworkmanager.AccessPoint),
	}, nil
}

func (b *Backend) wirelessDevice() (gonetworkmanager.DeviceWireless, error) {
	devices, err := b.nm.GetDevices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if dev, ok := device.(gonetworkmanager.DeviceWireless); ok {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("no wireless device: %w", wifi.ErrNotFound)
}

// apSecurity decodes 802.11 capability flags into a SecurityType.
func apSecurity(flags, wpaFlags, rsnFlags uint32) wifi.SecurityType {
	const keyMgmt8021x = uint32(gonetworkmanager.Nm80211APSecKeyMgmt8021X)
	switch {
	case (wpaFlags|rsnFlags)&keyMgmt8021x != 0:
		return wifi.SecurityEnterprise
	case rsnFlags != 0 || wpaFlags != 0:
		return wifi.SecurityWPA
	case flags&uint32(gonetworkmanager.Nm80211APFlagsPrivacy) != 0:
		return wifi.SecurityWEP
	}
	return wifi.SecurityOpen
}

// profileSSID extracts the wireless SSID from a profile's settings, or "".
func profileSSID(s gonetworkmanager.ConnectionSettings) string {
	wireless, ok := s["802-11-wireless"]
	if !ok {
		return ""
	}
	if ssidBytes, ok := wireless["ssid"].([]byte); ok {
		return string(ssidBytes)
	}
	return ""
}

// activeSSID returns the SSID of the fully activated wireless connection, if
// any. A connection that is still activating does not count: the UI must not
// show a connection the daemon has not confirmed.
func (b *Backend) activeSSID() (string, error) {
	activeConns, err := b.nm.GetPropertyActiveConnections()
	if err != nil {
		return "", err
	}
	for _, ac := range activeConns {
		typ, err := ac.GetPropertyType()
		if err != nil || typ != "802-11-wireless" {
			continue
		}
		state, err := ac.GetPropertyState()
		if err != nil || state != gonetworkmanager.NmActiveConnectionStateActivated {
			continue
		}
		conn, err := ac.GetPropertyConnection()
		if err != nil {
			continue
		}
		s, err := conn.GetSettings()
		if err != nil {
			continue
		}
		if ssid := profileSSID(s); ssid != "" {
			return ssid, nil
		}
	}
	return "", nil
}

func (b *Backend) Scan(ctx context.Context, rescan bool) ([]wifi.Network, error) {
	dev, err := b.wirelessDevice()
	if err != nil {
		return nil, err
	}
	if rescan {
		if err := dev.RequestScan(); err != nil {
			return nil, fmt.Errorf("requesting scan: %w", err)
		}
	}

	aps, err := dev.GetAccessPoints()
	if err != nil {
		return nil, err
	}

	profiles, err := b.SavedProfiles(ctx)
	if err != nil {
		return nil, err
	}
	saved := make(map[string]wifi.Profile, len(profiles))
	for _, p := range profiles {
		saved[p.SSID] = p
	}

	active, err := b.activeSSID()
	if err != nil {
		return nil, err
	}

	b.accessPoints = make(map[string]gonetworkmanager.AccessPoint)
	byssid := make(map[string]wifi.Network)
	for _, ap := range aps {
		ssid, err := ap.GetPropertySSID()
		if err != nil || ssid == "" {
			continue
		}
		strength, _ := ap.GetPropertyStrength()
		if prev, ok := byssid[ssid]; ok && prev.Strength >= strength {
			continue
		}
		b.accessPoints[ssid] = ap

		frequency, _ := ap.GetPropertyFrequency()
		flags, _ := ap.GetPropertyFlags()
		wpaFlags, _ := ap.GetPropertyWPAFlags()
		rsnFlags, _ := ap.GetPropertyRSNFlags()

		n := wifi.Network{
			SSID:      ssid,
			Strength:  strength,
			Frequency: uint(frequency),
			Security:  apSecurity(uint32(flags), uint32(wpaFlags), uint32(rsnFlags)),
			IsActive:  ssid == active,
		}
		if p, known := saved[ssid]; known {
			n.IsKnown = true
			n.AutoConnect = p.AutoConnect
		}
		byssid[ssid] = n
	}

	networks := make([]wifi.Network, 0, len(byssid))
	for _, n := range byssid {
		networks = append(networks, n)
	}
	wifi.SortNetworks(networks)
	return networks, nil
}

func (b *Backend) SavedProfiles(ctx context.Context) ([]wifi.Profile, error) {
	conns, err := b.settings.ListConnections()
	if err != nil {
		return nil, err
	}

	b.connections = make(map[string]gonetworkmanager.Connection)
	var profiles []wifi.Profile
	for _, conn := range conns {
		s, err := conn.GetSettings()
		if err != nil {
			continue
		}
		ssid := profileSSID(s)
		if ssid == "" {
			continue
		}
		b.connections[ssid] = conn

		autoConnect := true
		if c, ok := s["connection"]; ok {
			if ac, ok := c["autoconnect"].(bool); ok {
				autoConnect = ac
			}
		}
		profiles = append(profiles, wifi.Profile{SSID: ssid, AutoConnect: autoConnect})
	}
	return profiles, nil
}

// waitActivated blocks until the active connection settles, translating the
// deactivation reason into the shared error taxonomy.
func (b *Backend) waitActivated(ctx context.Context, ac gonetworkmanager.ActiveConnection) error {
	stateChanges := make(chan gonetworkmanager.StateChange, 8)
	done := make(chan struct{})
	defer close(done)
	if err := ac.SubscribeState(stateChanges, done); err != nil {
		return err
	}

	// The connection may have settled before we subscribed.
	if state, err := ac.GetPropertyState(); err == nil &&
		state == gonetworkmanager.NmActiveConnectionStateActivated {
		return nil
	}

	timeout := time.After(activationTimeout)
	for {
		select {
		case change := <-stateChanges:
			switch change.State {
			case gonetworkmanager.NmActiveConnectionStateActivated:
				return nil
			case gonetworkmanager.NmActiveConnectionStateDeactivated:
				switch change.Reason {
				case gonetworkmanager.NmActiveConnectionStateReasonNoSecrets,
					gonetworkmanager.NmActiveConnectionStateReasonLoginFailed:
					return fmt.Errorf("activation failed: %w", wifi.ErrAuthRejected)
				}
				return fmt.Errorf("activation failed: %w", wifi.ErrUnreachable)
			}
		case <-timeout:
			return fmt.Errorf("activation: %w", wifi.ErrBackendTimeout)
		case <-ctx.Done():
			return fmt.Errorf("activation: %w", wifi.ErrBackendTimeout)
		}
	}
}

func (b *Backend) Connect(ctx context.Context, ssid, password string) error {
	dev, err := b.wirelessDevice()
	if err != nil {
		return err
	}

	// A saved profile activates without a credential.
	if conn, known := b.connections[ssid]; known {
		ap, ok := b.accessPoints[ssid]
		if !ok {
			return fmt.Errorf("access point for %s: %w", ssid, wifi.ErrNotFound)
		}
		ac, err := b.nm.ActivateWirelessConnection(conn, dev, ap)
		if err != nil {
			return err
		}
		return b.waitActivated(ctx, ac)
	}

	ap, ok := b.accessPoints[ssid]
	if !ok {
		return fmt.Errorf("access point for %s: %w", ssid, wifi.ErrNotFound)
	}
	flags, _ := ap.GetPropertyFlags()
	wpaFlags, _ := ap.GetPropertyWPAFlags()
	rsnFlags, _ := ap.GetPropertyRSNFlags()
	security := apSecurity(uint32(flags), uint32(wpaFlags), uint32(rsnFlags))

	if security.RequiresPassphrase() && password == "" {
		return fmt.Errorf("network %s is secured: %w", ssid, wifi.ErrAuthRequired)
	}

	deviceInterface, _ := dev.GetPropertyInterface()
	connection := map[string]map[string]interface{}{
		"connection": {
			"id":             ssid,
			"uuid":           uuid.New().String(),
			"type":           "802-11-wireless",
			"interface-name": deviceInterface,
			"autoconnect":    true,
		},
		"802-11-wireless": {
			"mode": "infrastructure",
			"ssid": []byte(ssid),
		},
		"ipv4": {"method": "auto"},
		"ipv6": {"method": "auto"},
	}
	switch security {
	case wifi.SecurityOpen:
	case wifi.SecurityWEP:
		connection["802-11-wireless"]["security"] = "802-11-wireless-security"
		connection["802-11-wireless-security"] = map[string]interface{}{
			"key-mgmt": "none",
			"wep-key0": password,
		}
	default:
		connection["802-11-wireless"]["security"] = "802-11-wireless-security"
		connection["802-11-wireless-security"] = map[string]interface{}{
			"key-mgmt": "wpa-psk",
			"psk":      password,
		}
	}

	ac, err := b.nm.AddAndActivateWirelessConnection(connection, dev, ap)
	if err != nil {
		return err
	}
	return b.waitActivated(ctx, ac)
}

func (b *Backend) Disconnect(ctx context.Context, ssid string) error {
	activeConns, err := b.nm.GetPropertyActiveConnections()
	if err != nil {
		return err
	}
	for _, ac := range activeConns {
		conn, err := ac.GetPropertyConnection()
		if err != nil {
			continue
		}
		s, err := conn.GetSettings()
		if err != nil {
			continue
		}
		if profileSSID(s) != ssid {
			continue
		}
		return b.nm.DeactivateConnection(ac)
	}
	return fmt.Errorf("%s is not connected: %w", ssid, wifi.ErrNotFound)
}

func (b *Backend) Forget(ctx context.Context, ssid string) error {
	conn, ok := b.connections[ssid]
	if !ok {
		return fmt.Errorf("no saved profile for %s: %w", ssid, wifi.ErrNotFound)
	}
	if err := conn.Delete(); err != nil {
		return err
	}
	delete(b.connections, ssid)
	return nil
}

// applyUpdateWorkaround strips ipv6 properties that NetworkManager returns
// in a different D-Bus type than it accepts on update.
// See: https://github.com/Wifx/gonetworkmanager/issues/13
func applyUpdateWorkaround(settings map[string]map[string]interface{}) {
	if ipv6, ok := settings["ipv6"]; ok {
		delete(ipv6, "addresses")
		delete(ipv6, "routes")
	}
}

func (b *Backend) SetAutoConnect(ctx context.Context, ssid string, enabled bool) error {
	conn, ok := b.connections[ssid]
	if !ok {
		return fmt.Errorf("no saved profile for %s: %w", ssid, wifi.ErrNotFound)
	}
	settings, err := conn.GetSettings()
	if err != nil {
		return err
	}
	if _, ok := settings["connection"]; !ok {
		settings["connection"] = make(map[string]interface{})
	}
	settings["connection"]["autoconnect"] = enabled

	applyUpdateWorkaround(settings)
	return conn.Update(settings)
}

func (b *Backend) Secret(ctx context.Context, ssid string) (string, error) {
	conn, ok := b.connections[ssid]
	if !ok {
		return "", fmt.Errorf("no saved profile for %s: %w", ssid, wifi.ErrNotFound)
	}
	s, err := conn.GetSettings()
	if err != nil {
		return "", err
	}
	if _, ok := s["802-11-wireless-security"]; !ok {
		return "", nil
	}
	secrets, err := conn.GetSecrets("802-11-wireless-security")
	if err != nil {
		return "", err
	}
	if sec, ok := secrets["802-11-wireless-security"]; ok {
		if psk, ok := sec["psk"].(string); ok {
			return psk, nil
		}
	}
	return "", nil
}

var _ wifi.Backend = (*Backend)(nil)
