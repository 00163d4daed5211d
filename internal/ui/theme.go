package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/wipe/internal/config"
)

// Catppuccin Mocha palette, mutable so config can override.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorMuted  = lipgloss.Color("#5a6278")
)

// Pre-built styles, rebuilt by rebuildStyles() after color changes.
var (
	styleIconDone   lipgloss.Style
	styleIconFailed lipgloss.Style
	styleWarning    lipgloss.Style
	styleMuted      lipgloss.Style
	styleError      lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleIconDone = lipgloss.NewStyle().Foreground(ColorGreen)
	styleIconFailed = lipgloss.NewStyle().Foreground(ColorRed)
	styleWarning = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	styleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	styleError = lipgloss.NewStyle().Foreground(ColorRed)
}

// ApplyTheme overrides palette colors from the config file.
func ApplyTheme(t config.ThemeConfig) {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil && *v != "" {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&ColorGreen, t.Green)
	set(&ColorYellow, t.Yellow)
	set(&ColorRed, t.Red)
	set(&ColorMuted, t.Muted)
	rebuildStyles()
}
