//go:build !linux && !mock

package main

import (
	"fmt"

	"github.com/airtui/airtui/wifi"
	"github.com/airtui/airtui/wifi/mock"
)

// GetBackend only offers the mock backend on operating systems without a
// NetworkManager.
func GetBackend(name string) (wifi.Backend, error) {
	if name == "mock" {
		return mock.New()
	}
	return nil, fmt.Errorf("unsupported operating system")
}
