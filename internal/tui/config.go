package tui

import (
	"github.com/Veraticus/fraudwatch/internal/inference"
	"github.com/Veraticus/fraudwatch/internal/tui/themes"
)

// Detector scores one raw feature string.
type Detector interface {
	Handle(input string) inference.Result
}

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Detector Detector
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Width:  80,
		Height: 24,
	}
}

// WithDetector sets the scorer behind the Detect Fraud button.
func WithDetector(d Detector) Option {
	return func(c *Config) {
		c.Detector = d
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithHelp starts with the full help view expanded.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
