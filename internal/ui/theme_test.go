package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/wipe/internal/config"
)

func TestApplyTheme(t *testing.T) {
	origRed, origGreen := ColorRed, ColorGreen
	t.Cleanup(func() {
		ColorRed, ColorGreen = origRed, origGreen
		rebuildStyles()
	})

	red := "#ff0000"
	empty := ""
	ApplyTheme(config.ThemeConfig{Red: &red, Green: &empty})

	assert.Equal(t, lipgloss.Color("#ff0000"), ColorRed)
	assert.Equal(t, origGreen, ColorGreen, "empty override is ignored")
	assert.Equal(t, lipgloss.TerminalColor(ColorRed), styleIconFailed.GetForeground())
}
