package tui

import (
	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

// Row is one renderable network entry. It is a pure projection of a store
// snapshot plus the pending-action set; building rows never mutates state.
type Row struct {
	SSID        string
	Strength    uint8
	Band        wifi.Band
	Security    wifi.SecurityType
	Connected   bool
	Known       bool
	AutoConnect bool

	// Busy means an action on this network is in flight.
	Busy bool
	// Err is the row's transient failure annotation, or nil.
	Err error
}

// BuildRows projects a snapshot into display rows. Order follows the
// snapshot, which the store keeps sorted by strength.
func BuildRows(snap engine.Snapshot, busy func(ssid string) bool) []Row {
	rows := make([]Row, 0, len(snap.Networks))
	for _, n := range snap.Networks {
		r := Row{
			SSID:        n.SSID,
			Strength:    n.Strength,
			Band:        n.Band(),
			Security:    n.Security,
			Connected:   n.IsActive,
			Known:       n.IsKnown,
			AutoConnect: n.AutoConnect,
			Err:         snap.RowErrors[n.SSID],
		}
		if busy != nil {
			r.Busy = busy(n.SSID)
		}
		rows = append(rows, r)
	}
	return rows
}
