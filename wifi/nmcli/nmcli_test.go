package nmcli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/airtui/airtui/wifi"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"*:Home:72:5180 MHz:WPA2", []string{"*", "Home", "72", "5180 MHz", "WPA2"}},
		{` :Cafe\: Upstairs:40:2412 MHz:`, []string{" ", "Cafe: Upstairs", "40", "2412 MHz", ""}},
		{`:Back\\slash:10:2412 MHz:WEP`, []string{"", `Back\slash`, "10", "2412 MHz", "WEP"}},
	}
	for _, tt := range tests {
		if got := splitFields(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFields(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSecurity(t *testing.T) {
	tests := []struct {
		in   string
		want wifi.SecurityType
	}{
		{"", wifi.SecurityOpen},
		{"--", wifi.SecurityOpen},
		{"WEP", wifi.SecurityWEP},
		{"WPA2", wifi.SecurityWPA},
		{"WPA1 WPA2", wifi.SecurityWPA},
		{"WPA3", wifi.SecurityWPA3},
		{"WPA2 802.1X", wifi.SecurityEnterprise},
	}
	for _, tt := range tests {
		if got := parseSecurity(tt.in); got != tt.want {
			t.Errorf("parseSecurity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseScan(t *testing.T) {
	out := "*:Home:72:5180 MHz:WPA2\n" +
		" :Cafe:40:2412 MHz:\n" +
		" :Home:55:2437 MHz:WPA2\n" +
		" :\n" // hidden SSID line, ignored

	networks := parseScan(out)
	if len(networks) != 2 {
		t.Fatalf("expected 2 networks, got %d: %v", len(networks), networks)
	}

	var home, cafe *wifi.Network
	for i := range networks {
		switch networks[i].SSID {
		case "Home":
			home = &networks[i]
		case "Cafe":
			cafe = &networks[i]
		}
	}
	if home == nil || cafe == nil {
		t.Fatalf("missing networks: %v", networks)
	}

	// The active AP wins the duplicate-SSID merge even if weaker.
	if !home.IsActive || home.Strength != 72 || home.Frequency != 5180 {
		t.Errorf("Home merged wrong: %+v", *home)
	}
	if cafe.Security != wifi.SecurityOpen || cafe.IsActive {
		t.Errorf("Cafe parsed wrong: %+v", *cafe)
	}
}

func TestParseScanStrongerDuplicateWins(t *testing.T) {
	out := " :Mesh:40:2412 MHz:WPA2\n" +
		" :Mesh:80:5180 MHz:WPA2\n"
	networks := parseScan(out)
	if len(networks) != 1 {
		t.Fatalf("expected 1 network, got %d", len(networks))
	}
	if networks[0].Strength != 80 || networks[0].Frequency != 5180 {
		t.Errorf("strongest AP should win: %+v", networks[0])
	}
}

func TestMapError(t *testing.T) {
	base := errors.New("exit status 4")
	tests := []struct {
		stderr string
		want   error
	}{
		{"Error: Connection activation failed: Secrets were required, but not provided.", wifi.ErrAuthRejected},
		{"Error: No network with SSID 'Nope' found.", wifi.ErrNotFound},
		{"Error: Timeout expired.", wifi.ErrBackendTimeout},
		{"Error: NetworkManager is not running.", wifi.ErrBackendUnavailable},
		{"Error: Connection activation failed: device disconnected", wifi.ErrUnreachable},
	}
	for _, tt := range tests {
		got := mapError(tt.stderr, base)
		if !errors.Is(got, tt.want) {
			t.Errorf("mapError(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}

	// Unrecognized stderr keeps the message but maps to no sentinel.
	got := mapError("Error: something odd", base)
	if got == nil || errors.Is(got, wifi.ErrNotFound) {
		t.Errorf("unexpected mapping: %v", got)
	}
}

func TestClassifyMonitorLine(t *testing.T) {
	tests := []struct {
		line string
		kind wifi.EventKind
		ok   bool
	}{
		{"wlan0: connected to Home", wifi.EventStateChanged, true},
		{"wlan0: disconnected", wifi.EventStateChanged, true},
		{"Connectivity is now 'full'", wifi.EventStateChanged, true},
		{"connection profile 'Home' was removed", wifi.EventProfilesChanged, true},
		{"", 0, false},
		{"Networkmanager is now in the 'connected' state", wifi.EventStateChanged, true},
	}
	for _, tt := range tests {
		ev, ok := classifyMonitorLine(tt.line)
		if ok != tt.ok || (ok && ev.Kind != tt.kind) {
			t.Errorf("classifyMonitorLine(%q) = %v,%v want %v,%v", tt.line, ev.Kind, ok, tt.kind, tt.ok)
		}
	}
}
