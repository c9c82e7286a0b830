package themes

import (
	"github.com/Veraticus/fraudwatch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// Theme names accepted by GetTheme.
const (
	NameDefault         = "default"
	NameCatppuccinMocha = "catppuccin-mocha"
)

// Verdict colors are fixed across themes so an alert always reads as one.
const (
	alertBackground  = lipgloss.Color("#8B0000")
	normalBackground = lipgloss.Color("#006400")
	verdictText      = lipgloss.Color("#FFFFFF")
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Label         lipgloss.Style
	Normal        lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	Box           lipgloss.Style
	FocusedBox    lipgloss.Style
	StatusPending lipgloss.Style
	FraudAlert    lipgloss.Style
	SafeAlert     lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Foreground    lipgloss.Color
}

// Verdict returns the result style for a severity tag. Unknown tags render
// as alerts.
func (t Theme) Verdict(sev model.Severity) lipgloss.Style {
	if sev == model.SeverityNormal {
		return t.SafeAlert
	}
	return t.FraudAlert
}

func verdictStyle(bg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(verdictText).
		Bold(true).
		Padding(1, 2)
}

// Default is the default theme.
var Default = Theme{
	// Colors
	Primary:    lipgloss.Color("#0072FF"),
	Foreground: lipgloss.Color("#fafafa"),
	Border:     lipgloss.Color("#404040"),
	Muted:      lipgloss.Color("#737373"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		MarginBottom(1),
	Label: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),

	// Component styles
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#404040")).
		Padding(0, 3),
	ButtonFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#0072FF")).
		Bold(true).
		Padding(0, 3),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	FocusedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#0072FF")).
		Padding(0, 1),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")).
		Italic(true),

	FraudAlert: verdictStyle(alertBackground),
	SafeAlert:  verdictStyle(normalBackground),
}

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = Theme{
	// Colors
	Primary:    lipgloss.Color("#cba6f7"),
	Foreground: lipgloss.Color("#cdd6f4"),
	Border:     lipgloss.Color("#45475a"),
	Muted:      lipgloss.Color("#6c7086"),

	// Text styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a6adc8")).
		MarginBottom(1),
	Label: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#cdd6f4")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")),

	// Component styles
	Button: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#cdd6f4")).
		Background(lipgloss.Color("#313244")).
		Padding(0, 3),
	ButtonFocused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1e1e2e")).
		Background(lipgloss.Color("#cba6f7")).
		Bold(true).
		Padding(0, 3),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#45475a")).
		Padding(0, 1),
	FocusedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#cba6f7")).
		Padding(0, 1),
	StatusPending: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6c7086")).
		Italic(true),

	FraudAlert: verdictStyle(alertBackground),
	SafeAlert:  verdictStyle(normalBackground),
}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case NameCatppuccinMocha:
		return CatppuccinMocha
	default:
		return Default
	}
}
