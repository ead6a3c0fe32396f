//go:build linux

package networkmanager

import (
	"testing"

	"github.com/Wifx/gonetworkmanager/v3"
	"github.com/godbus/dbus/v5"

	"github.com/airtui/airtui/wifi"
)

func TestAPSecurity(t *testing.T) {
	privacy := uint32(gonetworkmanager.Nm80211APFlagsPrivacy)
	keyMgmt8021x := uint32(gonetworkmanager.Nm80211APSecKeyMgmt8021X)
	psk := uint32(gonetworkmanager.Nm80211APSecKeyMgmtPSK)

	tests := []struct {
		name                   string
		flags, wpaFlags, rsnFlags uint32
		want                   wifi.SecurityType
	}{
		{"open", 0, 0, 0, wifi.SecurityOpen},
		{"wep", privacy, 0, 0, wifi.SecurityWEP},
		{"wpa-psk", privacy, psk, 0, wifi.SecurityWPA},
		{"rsn-psk", privacy, 0, psk, wifi.SecurityWPA},
		{"enterprise", privacy, 0, keyMgmt8021x, wifi.SecurityEnterprise},
	}
	for _, tt := range tests {
		if got := apSecurity(tt.flags, tt.wpaFlags, tt.rsnFlags); got != tt.want {
			t.Errorf("%s: apSecurity = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestProfileSSID(t *testing.T) {
	s := gonetworkmanager.ConnectionSettings{
		"connection":     {"id": "Home", "type": "802-11-wireless"},
		"802-11-wireless": {"ssid": []byte("Home")},
	}
	if got := profileSSID(s); got != "Home" {
		t.Errorf("profileSSID = %q, want Home", got)
	}

	wired := gonetworkmanager.ConnectionSettings{
		"connection": {"id": "eth0", "type": "802-3-ethernet"},
	}
	if got := profileSSID(wired); got != "" {
		t.Errorf("profileSSID on wired profile = %q, want empty", got)
	}
}

func TestClassifySignal(t *testing.T) {
	tests := []struct {
		name string
		sig  *dbus.Signal
		kind wifi.EventKind
		ok   bool
	}{
		{
			"profile added",
			&dbus.Signal{Name: nmSettingsInterface + ".NewConnection"},
			wifi.EventProfilesChanged, true,
		},
		{
			"nm state",
			&dbus.Signal{Name: nmInterface + ".StateChanged"},
			wifi.EventStateChanged, true,
		},
		{
			"ap added",
			&dbus.Signal{Name: nmWirelessInterface + ".AccessPointAdded"},
			wifi.EventScanUpdated, true,
		},
		{
			"active connections changed",
			&dbus.Signal{
				Name: propsInterface + ".PropertiesChanged",
				Body: []interface{}{
					nmInterface,
					map[string]dbus.Variant{"ActiveConnections": {}},
				},
			},
			wifi.EventStateChanged, true,
		},
		{
			"ap strength",
			&dbus.Signal{
				Name: propsInterface + ".PropertiesChanged",
				Body: []interface{}{
					nmAPInterface,
					map[string]dbus.Variant{"Strength": {}},
				},
			},
			wifi.EventScanUpdated, true,
		},
		{
			"unrelated properties",
			&dbus.Signal{
				Name: propsInterface + ".PropertiesChanged",
				Body: []interface{}{
					"org.freedesktop.NetworkManager.Device.Statistics",
					map[string]dbus.Variant{"TxBytes": {}},
				},
			},
			0, false,
		},
		{
			"unrelated signal",
			&dbus.Signal{Name: "org.freedesktop.DBus.NameOwnerChanged"},
			0, false,
		},
	}
	for _, tt := range tests {
		ev, ok := classifySignal(tt.sig)
		if ok != tt.ok || (ok && ev.Kind != tt.kind) {
			t.Errorf("%s: classifySignal = %v,%v want %v,%v", tt.name, ev.Kind, ok, tt.kind, tt.ok)
		}
	}
}
