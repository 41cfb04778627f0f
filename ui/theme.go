package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var (
	// BackgroundColor is the base background color of the window.
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	// RunningColor highlights the countdown while a run is active.
	RunningColor = color.NRGBA{R: 0x4c, G: 0xd1, B: 0x7a, A: 0xff}
)

// CustomTheme darkens the default theme and uses RunningColor as the
// primary accent.
type CustomTheme struct {
	fyne.Theme
}

// NewCustomTheme creates a new instance of the custom theme.
func NewCustomTheme() fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme()}
}

// Color returns the color for the given name, forcing the dark variant.
func (t *CustomTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return BackgroundColor
	case theme.ColorNamePrimary:
		return RunningColor
	}
	return t.Theme.Color(name, theme.VariantDark)
}
