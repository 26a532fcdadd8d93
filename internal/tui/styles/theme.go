package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Apply selects which side of the adaptive palette is rendered and returns
// the concrete theme in effect. "auto" follows the terminal background.
func Apply(theme string) string {
	switch theme {
	case ThemeDark:
		lipgloss.SetHasDarkBackground(true)
		return ThemeDark
	case ThemeLight:
		lipgloss.SetHasDarkBackground(false)
		return ThemeLight
	default:
		if lipgloss.HasDarkBackground() {
			return ThemeDark
		}
		return ThemeLight
	}
}

// Toggle returns the opposite of a concrete theme.
func Toggle(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
