//go:build mock

package main

import (
	"github.com/airtui/airtui/wifi"
	mockBackend "github.com/airtui/airtui/wifi/mock"
)

func GetBackend(name string) (wifi.Backend, error) {
	return mockBackend.New()
}
