package iostreams

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the color scheme. Kept here rather than in the indicator so
// every surface (bar, plain lines, command output) shares one palette.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
)

// ColorScheme provides terminal color formatting. When colors are disabled,
// every method returns the input string unmodified.
type ColorScheme struct {
	enabled bool
	theme   string // "light", "dark", or "none"
}

// NewColorScheme creates a ColorScheme.
func NewColorScheme(enabled bool, theme string) *ColorScheme {
	if theme == "" {
		theme = "dark"
	}
	return &ColorScheme{enabled: enabled, theme: theme}
}

// Enabled returns whether colors are enabled.
func (cs *ColorScheme) Enabled() bool {
	return cs.enabled
}

func (cs *ColorScheme) render(style lipgloss.Style, s string) string {
	if !cs.enabled {
		return s
	}
	return style.Render(s)
}

// Green returns the string in the success color.
func (cs *ColorScheme) Green(s string) string {
	return cs.render(successStyle, s)
}

// Red returns the string in the error color.
func (cs *ColorScheme) Red(s string) string {
	return cs.render(errorStyle, s)
}

// Yellow returns the string in the warning color.
func (cs *ColorScheme) Yellow(s string) string {
	return cs.render(warningStyle, s)
}

// Muted returns the string dimmed.
func (cs *ColorScheme) Muted(s string) string {
	return cs.render(mutedStyle, s)
}

// Accent returns the string in the accent color.
func (cs *ColorScheme) Accent(s string) string {
	return cs.render(accentStyle, s)
}

// Bold returns the string in bold.
func (cs *ColorScheme) Bold(s string) string {
	if !cs.enabled {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}

// Colored renders s in an arbitrary terminal color name or hex value, used
// for the user-configured indicator color.
func (cs *ColorScheme) Colored(color, s string) string {
	if !cs.enabled || color == "" {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

// SuccessIcon returns a green check mark.
func (cs *ColorScheme) SuccessIcon() string {
	return cs.Green("✓")
}

// FailureIcon returns a red cross.
func (cs *ColorScheme) FailureIcon() string {
	return cs.Red("✗")
}

// Mutedf returns a formatted dimmed string.
func (cs *ColorScheme) Mutedf(format string, a ...any) string {
	return cs.Muted(fmt.Sprintf(format, a...))
}
