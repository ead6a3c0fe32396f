package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", FormatDuration(now.Add(-10*time.Second)))
	assert.Equal(t, "5m ago", FormatDuration(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", FormatDuration(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", FormatDuration(now.Add(-49*time.Hour)))

	old := now.Add(-90 * 24 * time.Hour)
	assert.Equal(t, old.Format("2006-01-02"), FormatDuration(old))
}
