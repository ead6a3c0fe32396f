package wifi

import (
	"reflect"
	"testing"
)

func ssids(networks []Network) []string {
	out := make([]string, len(networks))
	for i, n := range networks {
		out[i] = n.SSID
	}
	return out
}

func TestSortNetworks(t *testing.T) {
	networks := []Network{
		{SSID: "Cafe", Strength: 40},
		{SSID: "Home", Strength: 72},
		{SSID: "Attic", Strength: 40},
		{SSID: "Garage", Strength: 90},
	}
	SortNetworks(networks)

	want := []string{"Garage", "Home", "Attic", "Cafe"}
	if got := ssids(networks); !reflect.DeepEqual(got, want) {
		t.Errorf("got order %v, want %v", got, want)
	}
}

func TestSortNetworksStable(t *testing.T) {
	networks := []Network{
		{SSID: "Home", Strength: 72},
		{SSID: "Cafe", Strength: 40},
	}
	SortNetworks(networks)
	first := ssids(networks)

	// Repeated sorts of identical content must not reorder anything.
	for i := 0; i < 3; i++ {
		SortNetworks(networks)
		if got := ssids(networks); !reflect.DeepEqual(got, first) {
			t.Fatalf("sort not stable: got %v, want %v", got, first)
		}
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		freq uint
		want Band
	}{
		{2412, Band2GHz},
		{2484, Band2GHz},
		{5180, Band5GHz},
		{5955, Band6GHz},
		{0, BandUnknown},
	}
	for _, tt := range tests {
		n := Network{Frequency: tt.freq}
		if got := n.Band(); got != tt.want {
			t.Errorf("Band(%d) = %v, want %v", tt.freq, got, tt.want)
		}
	}
}

func TestRequiresPassphrase(t *testing.T) {
	if SecurityOpen.RequiresPassphrase() {
		t.Error("open networks should not require a passphrase")
	}
	if SecurityWEP.RequiresPassphrase() {
		t.Error("WEP networks join without an upfront passphrase")
	}
	if !SecurityWPA.RequiresPassphrase() {
		t.Error("WPA networks should require a passphrase")
	}
	if !SecurityWPA3.RequiresPassphrase() {
		t.Error("WPA3 networks should require a passphrase")
	}
}
