// Package qrwifi renders WIFI: join strings as terminal QR codes, so a phone
// can join a network straight off the screen.
package qrwifi

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/airtui/airtui/wifi"
)

// Escape handles the special character escaping the WIFI: format requires
// for SSIDs and passphrases.
func Escape(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`;`, `\;`,
		`,`, `\,`,
		`:`, `\:`,
		`"`, `\"`,
	)
	return r.Replace(s)
}

// JoinString builds the WIFI:S:...;T:...;P:...;; payload for a network.
func JoinString(ssid, password string, security wifi.SecurityType) string {
	var b strings.Builder
	b.WriteString("WIFI:S:")
	b.WriteString(Escape(ssid))
	b.WriteString(";")

	switch security {
	case wifi.SecurityOpen:
		b.WriteString("T:nopass;")
	case wifi.SecurityWEP:
		b.WriteString("T:WEP;P:")
		b.WriteString(Escape(password))
		b.WriteString(";")
	default:
		// WPA3-Personal readers accept T:WPA too.
		b.WriteString("T:WPA;P:")
		b.WriteString(Escape(password))
		b.WriteString(";")
	}

	b.WriteString(";")
	return b.String()
}

// Render returns a terminal-friendly QR code for joining the network.
func Render(ssid, password string, security wifi.SecurityType) (string, error) {
	q, err := qrcode.New(JoinString(ssid, password, security), qrcode.Medium)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}
