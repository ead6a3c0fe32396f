//go:build linux && !mock

package main

import (
	"fmt"
	"log/slog"

	"github.com/airtui/airtui/wifi"
	"github.com/airtui/airtui/wifi/mock"
	"github.com/airtui/airtui/wifi/networkmanager"
	"github.com/airtui/airtui/wifi/nmcli"
)

// GetBackend resolves the --backend flag. "auto" prefers the D-Bus backend
// and falls back to the nmcli helper when the bus is not reachable.
func GetBackend(name string) (wifi.Backend, error) {
	switch name {
	case "networkmanager":
		return networkmanager.New()
	case "nmcli":
		return nmcli.New()
	case "mock":
		return mock.New()
	case "", "auto":
		b, err := networkmanager.New()
		if err == nil {
			return b, nil
		}
		slog.Warn("failed to initialize networkmanager backend, falling back to nmcli", "error", err)
		return nmcli.New()
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}
