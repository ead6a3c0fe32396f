// Package helpers holds small formatting utilities shared by the CLI and TUI.
package helpers

import (
	"fmt"
	"time"
)

// FormatDuration renders a past timestamp as a coarse "3h ago" style string.
func FormatDuration(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
	return t.Format("2006-01-02")
}
