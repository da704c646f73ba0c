package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// SettingsFileName is the settings file inside the config directory.
	SettingsFileName = "settings.yaml"

	// ConfigDirEnvVar overrides the config directory location.
	ConfigDirEnvVar = "TRANSIT_CONFIG_DIR"
)

// Loader handles loading and watching the transit settings file.
type Loader struct {
	dir string
	v   *viper.Viper
}

// NewLoader creates a loader rooted at the user's config directory
// ($TRANSIT_CONFIG_DIR when set, otherwise os.UserConfigDir()/transit).
func NewLoader() (*Loader, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return NewLoaderAt(dir), nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return NewLoaderAt(filepath.Join(base, "transit")), nil
}

// NewLoaderAt creates a loader rooted at an explicit directory.
func NewLoaderAt(dir string) *Loader {
	return &Loader{
		dir: dir,
		v:   viper.New(),
	}
}

// Dir returns the config directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Path returns the full path to the settings file.
func (l *Loader) Path() string {
	return filepath.Join(l.dir, SettingsFileName)
}

// LogsDir returns the directory for rotated log files.
func (l *Loader) LogsDir() string {
	return filepath.Join(l.dir, "logs")
}

// Exists reports whether the settings file exists.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.Path())
	return err == nil
}

// Load reads the settings file, applying defaults for anything unset.
// A missing file is not an error: defaults are returned as-is.
func (l *Loader) Load() (*Settings, error) {
	defaults := DefaultSettings()

	l.v.SetConfigFile(l.Path())
	l.v.SetConfigType("yaml")
	l.v.SetDefault("delay", defaults.Delay)
	l.v.SetDefault("color", defaults.Color)
	l.v.SetDefault("include_default_styling", defaults.IncludeDefaultStyling)
	l.v.SetDefault("show_spinner", defaults.ShowSpinner)
	l.v.SetDefault("progress", defaults.Progress)

	if l.Exists() {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", l.Path(), err)
	}

	return &s, nil
}

// Watch re-reads the settings file when it changes and invokes onChange for
// each change event. The settings file must exist before watching starts.
func (l *Loader) Watch(onChange func(fsnotify.Event)) error {
	if !l.Exists() {
		return fmt.Errorf("watch requires an existing settings file at %s", l.Path())
	}
	if onChange != nil {
		l.v.OnConfigChange(onChange)
	}
	l.v.WatchConfig()
	return nil
}

// Write persists settings, creating the config directory if needed.
func (l *Loader) Write(s *Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settingsDoc{
		Delay:                 s.Delay.String(),
		Color:                 s.Color,
		IncludeDefaultStyling: s.IncludeDefaultStyling,
		ShowSpinner:           s.ShowSpinner,
		Progress:              s.Progress,
		Logging:               s.Logging,
	})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(l.Path(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// settingsDoc is the on-disk shape: durations serialize as strings
// ("250ms") so the file stays hand-editable.
type settingsDoc struct {
	Delay                 string          `yaml:"delay"`
	Color                 string          `yaml:"color"`
	IncludeDefaultStyling bool            `yaml:"include_default_styling"`
	ShowSpinner           bool            `yaml:"show_spinner"`
	Progress              string          `yaml:"progress"`
	Logging               LoggingSettings `yaml:"logging,omitempty"`
}
