// Package cmdutil provides shared dependencies and helpers for CLI commands.
package cmdutil

import (
	"fmt"

	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/iostreams"
)

// Factory provides shared dependencies for CLI commands. Commands extract
// only the fields they need into per-command Options structs.
type Factory struct {
	// Version info (set at build time via ldflags)
	Version   string
	BuildDate string

	// IO streams for input/output (for testability)
	IOStreams *iostreams.IOStreams

	// Dependency providers (closures with lazy initialization)
	SettingsLoader func() (*config.Loader, error)
	Settings       func() (*config.Settings, error)
}

// New wires a Factory against the real environment. Settings load lazily and
// are cached for the life of the process.
func New(version, buildDate string) *Factory {
	f := &Factory{
		Version:   version,
		BuildDate: buildDate,
		IOStreams: iostreams.New(),
	}

	var (
		loader    *config.Loader
		loaderErr error
	)
	f.SettingsLoader = func() (*config.Loader, error) {
		if loader == nil && loaderErr == nil {
			loader, loaderErr = config.NewLoader()
		}
		return loader, loaderErr
	}

	var (
		settings    *config.Settings
		settingsErr error
	)
	f.Settings = func() (*config.Settings, error) {
		if settings == nil && settingsErr == nil {
			l, err := f.SettingsLoader()
			if err != nil {
				settingsErr = err
				return nil, err
			}
			settings, settingsErr = l.Load()
		}
		return settings, settingsErr
	}

	return f
}

// PrintHelpHint prints a contextual help hint to stderr. cmdPath should be
// cmd.CommandPath() (e.g., "transit watch").
func PrintHelpHint(ios *iostreams.IOStreams, cmdPath string) {
	fmt.Fprintf(ios.ErrOut, "\nRun '%s --help' for more information.\n", cmdPath)
}
