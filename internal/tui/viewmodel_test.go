package tui

import (
	"errors"
	"testing"

	"github.com/airtui/airtui/internal/engine"
	"github.com/airtui/airtui/wifi"
)

func TestBuildRows(t *testing.T) {
	store := engine.NewStore()
	store.ApplyScan([]wifi.Network{
		{SSID: "Attic", Strength: 80, Frequency: 5180, Security: wifi.SecurityWPA, IsActive: true},
		{SSID: "Garage", Strength: 30, Frequency: 2412, Security: wifi.SecurityOpen},
	}, nil)
	store.ApplyProfiles([]wifi.Profile{{SSID: "Attic", AutoConnect: true}})
	rowErr := errors.New("no carrier")
	store.SetRowError("Garage", rowErr)

	rows := BuildRows(store.Snapshot(), func(ssid string) bool { return ssid == "Garage" })
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	attic := rows[0]
	if !attic.Connected || !attic.Known || !attic.AutoConnect || attic.Busy {
		t.Errorf("unexpected Attic row: %+v", attic)
	}
	if attic.Band != wifi.Band5GHz {
		t.Errorf("expected 5 GHz band, got %v", attic.Band)
	}

	garage := rows[1]
	if !garage.Busy {
		t.Error("busy flag not set from pending set")
	}
	if !errors.Is(garage.Err, rowErr) {
		t.Errorf("row error not carried over: %v", garage.Err)
	}
	if garage.Known || garage.Connected {
		t.Errorf("unexpected flags on Garage row: %+v", garage)
	}
}

func TestBuildRowsNilBusy(t *testing.T) {
	store := engine.NewStore()
	store.ApplyScan([]wifi.Network{{SSID: "Attic", Strength: 50}}, nil)

	rows := BuildRows(store.Snapshot(), nil)
	if len(rows) != 1 || rows[0].Busy {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
