package qrwifi

import (
	"strings"
	"testing"

	"github.com/airtui/airtui/wifi"
)

func TestEscape(t *testing.T) {
	in := `a;b,c:d"e\f`
	want := `a\;b\,c\:d\"e\\f`
	if got := Escape(in); got != want {
		t.Errorf("Escape(%q) = %q, want %q", in, got, want)
	}
}

func TestJoinString(t *testing.T) {
	tests := []struct {
		name     string
		ssid     string
		password string
		security wifi.SecurityType
		want     string
	}{
		{"wpa", "Home", "hunter2", wifi.SecurityWPA, "WIFI:S:Home;T:WPA;P:hunter2;;"},
		{"open", "Cafe", "", wifi.SecurityOpen, "WIFI:S:Cafe;T:nopass;;"},
		{"wep", "Old", "abc", wifi.SecurityWEP, "WIFI:S:Old;T:WEP;P:abc;;"},
		{"escaped", "Semi;Colon", "p:w", wifi.SecurityWPA, `WIFI:S:Semi\;Colon;T:WPA;P:p\:w;;`},
	}
	for _, tt := range tests {
		if got := JoinString(tt.ssid, tt.password, tt.security); got != tt.want {
			t.Errorf("%s: JoinString = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	out, err := Render("Home", "hunter2", wifi.SecurityWPA)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "█") && !strings.Contains(out, "▄") {
		t.Error("rendered QR contains no block characters")
	}
}
