// Package config loads user settings for transit from
// ~/.config/transit/settings.yaml (or $TRANSIT_CONFIG_DIR).
package config

import (
	"fmt"
	"time"
)

// Settings is the user-facing configuration. Every field only affects how
// the indicator renders or where logs go; none of it alters the notifier's
// control logic.
type Settings struct {
	// Delay before the indicator appears for an in-flight visit.
	Delay time.Duration `mapstructure:"delay" yaml:"delay"`

	// Color of the indicator bar (terminal color name or hex).
	Color string `mapstructure:"color" yaml:"color"`

	// IncludeDefaultStyling applies the built-in bar styling. When false the
	// bar renders as raw glyphs for hosts that style the terminal themselves.
	IncludeDefaultStyling bool `mapstructure:"include_default_styling" yaml:"include_default_styling"`

	// ShowSpinner renders a spinner glyph next to the bar while a visit is
	// in flight.
	ShowSpinner bool `mapstructure:"show_spinner" yaml:"show_spinner"`

	// Progress selects the rendering mode: "auto", "plain", or "tty".
	Progress string `mapstructure:"progress" yaml:"progress"`

	Logging LoggingSettings `mapstructure:"logging" yaml:"logging"`
}

// LoggingSettings configures optional rotated file logging.
type LoggingSettings struct {
	FileEnabled *bool `mapstructure:"file_enabled" yaml:"file_enabled,omitempty"`
	MaxSizeMB   int   `mapstructure:"max_size_mb" yaml:"max_size_mb,omitempty"`
	MaxAgeDays  int   `mapstructure:"max_age_days" yaml:"max_age_days,omitempty"`
	MaxBackups  int   `mapstructure:"max_backups" yaml:"max_backups,omitempty"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Delay:                 250 * time.Millisecond,
		Color:                 "#29d",
		IncludeDefaultStyling: true,
		ShowSpinner:           true,
		Progress:              "auto",
	}
}

// Validate checks settings for values the rest of the program cannot handle.
func (s *Settings) Validate() error {
	if s.Delay < 0 {
		return fmt.Errorf("delay must not be negative (got %s)", s.Delay)
	}
	switch s.Progress {
	case "auto", "plain", "tty":
	default:
		return fmt.Errorf("progress mode must be auto, plain, or tty (got %q)", s.Progress)
	}
	return nil
}
