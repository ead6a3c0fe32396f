package tui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func writeThemeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing theme file: %v", err)
	}
	return path
}

func TestLoadTheme(t *testing.T) {
	defer func() { CurrentTheme = NewDefaultTheme() }()

	path := writeThemeFile(t, `
		Primary = "#FF0000"
		SignalHigh = "#008000"
	`)
	if err := LoadTheme(path); err != nil {
		t.Fatalf("LoadTheme failed: %v", err)
	}

	if CurrentTheme.Primary != lipgloss.Color("#FF0000") {
		t.Errorf("Expected Primary color to be #FF0000, but got %v", CurrentTheme.Primary)
	}
	if CurrentTheme.SignalHighDark != "#008000" || CurrentTheme.SignalHighLight != "#008000" {
		t.Errorf("SignalHigh override not applied to both backgrounds: %q / %q",
			CurrentTheme.SignalHighDark, CurrentTheme.SignalHighLight)
	}

	// Values not present in the file keep their defaults.
	def := NewDefaultTheme()
	if CurrentTheme.Subtle != def.Subtle {
		t.Errorf("Expected Subtle to keep its default, but got %v", CurrentTheme.Subtle)
	}
	if CurrentTheme.SignalLowDark != def.SignalLowDark {
		t.Errorf("Expected SignalLow to keep its default, but got %q", CurrentTheme.SignalLowDark)
	}
}

func TestLoadTheme_EmptyPath(t *testing.T) {
	originalTheme := CurrentTheme
	if err := LoadTheme(""); err != nil {
		t.Fatalf("LoadTheme(\"\") should not return an error, but got: %v", err)
	}
	if CurrentTheme.Primary != originalTheme.Primary {
		t.Errorf("Theme should not change when path is empty")
	}
}

func TestLoadTheme_InvalidToml(t *testing.T) {
	path := writeThemeFile(t, `Primary = `)
	if err := LoadTheme(path); err == nil {
		t.Fatalf("LoadTheme should have failed for invalid TOML, but it didn't")
	}
}
