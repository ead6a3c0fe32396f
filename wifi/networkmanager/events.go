//go:build linux

package networkmanager

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/airtui/airtui/wifi"
)

const (
	nmPathNamespace     = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmInterface         = "org.freedesktop.NetworkManager"
	nmSettingsInterface = "org.freedesktop.NetworkManager.Settings"
	nmWirelessInterface = "org.freedesktop.NetworkManager.Device.Wireless"
	nmAPInterface       = "org.freedesktop.NetworkManager.AccessPoint"
	propsInterface      = "org.freedesktop.DBus.Properties"
)

// classifySignal maps a raw D-Bus signal to an event. Returns false for bus
// chatter that does not affect displayed state.
func classifySignal(sig *dbus.Signal) (wifi.Event, bool) {
	switch sig.Name {
	case nmSettingsInterface + ".NewConnection",
		nmSettingsInterface + ".ConnectionRemoved":
		return wifi.Event{Kind: wifi.EventProfilesChanged}, true
	case nmInterface + ".StateChanged":
		return wifi.Event{Kind: wifi.EventStateChanged}, true
	case nmWirelessInterface + ".AccessPointAdded",
		nmWirelessInterface + ".AccessPointRemoved":
		return wifi.Event{Kind: wifi.EventScanUpdated}, true
	case propsInterface + ".PropertiesChanged":
		if len(sig.Body) < 2 {
			return wifi.Event{}, false
		}
		iface, _ := sig.Body[0].(string)
		changed, _ := sig.Body[1].(map[string]dbus.Variant)
		switch iface {
		case nmWirelessInterface:
			// LastScan / AccessPoints updates.
			return wifi.Event{Kind: wifi.EventScanUpdated}, true
		case nmAPInterface:
			if _, ok := changed["Strength"]; ok {
				return wifi.Event{Kind: wifi.EventScanUpdated}, true
			}
		case nmInterface:
			if _, ok := changed["ActiveConnections"]; ok {
				return wifi.Event{Kind: wifi.EventStateChanged}, true
			}
			if _, ok := changed["State"]; ok {
				return wifi.Event{Kind: wifi.EventStateChanged}, true
			}
		}
	}
	return wifi.Event{}, false
}

// Events subscribes to NetworkManager's D-Bus signals on a dedicated bus
// connection. The channel closes when ctx is cancelled; the caller may call
// Events again to resubscribe after a bus drop.
func (b *Backend) Events(ctx context.Context) (<-chan wifi.Event, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to system bus: %w", wifi.ErrBackendUnavailable)
	}

	matches := [][]dbus.MatchOption{
		{dbus.WithMatchInterface(nmInterface), dbus.WithMatchMember("StateChanged")},
		{dbus.WithMatchInterface(nmSettingsInterface)},
		{dbus.WithMatchInterface(nmWirelessInterface)},
		{
			dbus.WithMatchInterface(propsInterface),
			dbus.WithMatchMember("PropertiesChanged"),
			dbus.WithMatchPathNamespace(nmPathNamespace),
		},
	}
	for _, m := range matches {
		if err := conn.AddMatchSignalContext(ctx, m...); err != nil {
			conn.Close()
			return nil, fmt.Errorf("subscribing to signals: %w", err)
		}
	}

	sigs := make(chan *dbus.Signal, 64)
	conn.Signal(sigs)

	ch := make(chan wifi.Event, 16)
	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-sigs:
				if !ok {
					return
				}
				ev, relevant := classifySignal(sig)
				if !relevant {
					continue
				}
				select {
				case ch <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}
