package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

func cliContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), engine.DefaultTimeout)
}

// networkJSON is the --json shape for a single network.
type networkJSON struct {
	SSID        string `json:"ssid"`
	Strength    uint8  `json:"strength"`
	Frequency   uint   `json:"frequency,omitempty"`
	Band        string `json:"band,omitempty"`
	Security    string `json:"security"`
	Active      bool   `json:"active"`
	Known       bool   `json:"known"`
	AutoConnect bool   `json:"autoconnect"`
}

func toNetworkJSON(n wifi.Network) networkJSON {
	return networkJSON{
		SSID:        n.SSID,
		Strength:    n.Strength,
		Frequency:   n.Frequency,
		Band:        n.Band().String(),
		Security:    n.Security.String(),
		Active:      n.IsActive,
		Known:       n.IsKnown,
		AutoConnect: n.AutoConnect,
	}
}

func formatNetwork(n wifi.Network) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("%d%%", n.Strength))
	if band := n.Band().String(); band != "" {
		parts = append(parts, band)
	}
	parts = append(parts, n.Security.String())
	if n.IsKnown {
		parts = append(parts, "known")
	}
	if n.AutoConnect {
		parts = append(parts, "auto")
	}
	if n.IsActive {
		parts = append(parts, "active")
	}
	return strings.Join(parts, ", ")
}

func runList(w io.Writer, jsonOut bool, rescan bool, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	networks, err := b.Scan(ctx, rescan)
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}

	if jsonOut {
		out := make([]networkJSON, len(networks))
		for i, n := range networks {
			out[i] = toNetworkJSON(n)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, n := range networks {
		fmt.Fprintf(w, "%s\t%s\n", n.SSID, formatNetwork(n))
	}
	return nil
}

func runShow(w io.Writer, jsonOut bool, ssid string, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	networks, err := b.Scan(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to list networks: %w", err)
	}

	for _, n := range networks {
		if n.SSID != ssid {
			continue
		}
		secret := ""
		if n.IsKnown {
			secret, err = b.Secret(ctx, ssid)
			if err != nil {
				return fmt.Errorf("failed to get network secret: %w", err)
			}
		}

		if jsonOut {
			out := struct {
				networkJSON
				Passphrase string `json:"passphrase,omitempty"`
			}{toNetworkJSON(n), secret}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		fmt.Fprintf(w, "SSID: %s\n", n.SSID)
		fmt.Fprintf(w, "Strength: %d%%\n", n.Strength)
		if band := n.Band().String(); band != "" {
			fmt.Fprintf(w, "Band: %s\n", band)
		}
		fmt.Fprintf(w, "Security: %s\n", n.Security)
		fmt.Fprintf(w, "Active: %t\n", n.IsActive)
		fmt.Fprintf(w, "Known: %t\n", n.IsKnown)
		if n.IsKnown {
			fmt.Fprintf(w, "Autoconnect: %t\n", n.AutoConnect)
			fmt.Fprintf(w, "Passphrase: %s\n", secret)
		}
		return nil
	}

	return fmt.Errorf("network not found: %s", ssid)
}

func runConnect(w io.Writer, ssid, passphrase string, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	if err := b.Connect(ctx, ssid, passphrase); err != nil {
		if errors.Is(err, wifi.ErrAuthRequired) {
			return fmt.Errorf("%q needs a passphrase, pass one with --passphrase", ssid)
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	fmt.Fprintf(w, "Connected to %s\n", ssid)
	return nil
}

func runDisconnect(w io.Writer, ssid string, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	if err := b.Disconnect(ctx, ssid); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	fmt.Fprintf(w, "Disconnected from %s\n", ssid)
	return nil
}

func runForget(w io.Writer, ssid string, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	if err := b.Forget(ctx, ssid); err != nil {
		return fmt.Errorf("failed to forget: %w", err)
	}
	fmt.Fprintf(w, "Forgot %s\n", ssid)
	return nil
}

func runAutoConnect(w io.Writer, ssid string, enabled bool, b wifi.Backend) error {
	ctx, cancel := cliContext()
	defer cancel()

	if err := b.SetAutoConnect(ctx, ssid, enabled); err != nil {
		return fmt.Errorf("failed to update autoconnect: %w", err)
	}
	state := "off"
	if enabled {
		state = "on"
	}
	fmt.Fprintf(w, "Autoconnect %s for %s\n", state, ssid)
	return nil
}
