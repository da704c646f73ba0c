// Package root assembles the transit command tree.
package root

import (
	"github.com/spf13/cobra"

	"github.com/schmitthub/transit/internal/cmd/demo"
	initcmd "github.com/schmitthub/transit/internal/cmd/init"
	versioncmd "github.com/schmitthub/transit/internal/cmd/version"
	"github.com/schmitthub/transit/internal/cmd/watch"
	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/logger"
)

// NewCmdRoot creates the root command for the transit CLI.
func NewCmdRoot(f *cmdutil.Factory, version, buildDate string) *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "transit",
		Short: "A visit progress indicator for terminal applications",
		Long: `Transit turns navigation lifecycle events into a slim progress bar, the way
single-page apps show a bar across the top of the page during a visit.

Quick start:
  transit init           # Write default settings (~/.config/transit/settings.yaml)
  transit demo           # Watch the indicator run a scripted visit
  some-host | transit watch   # Drive the indicator from real lifecycle events`,
		SilenceUsage: true,
		Annotations: map[string]string{
			"versionInfo": versioncmd.Format(version, buildDate),
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initializeLogger(f, debug)

			logger.Debug().
				Str("version", f.Version).
				Bool("debug", debug).
				Msg("transit starting")

			return nil
		},
		Version: f.Version,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "D", false, "Enable debug logging")

	// Version template
	cmd.SetVersionTemplate(versioncmd.Format(version, buildDate) + "\n")

	cmd.AddCommand(initcmd.NewCmdInit(f, nil))
	cmd.AddCommand(watch.NewCmdWatch(f, nil))
	cmd.AddCommand(demo.NewCmdDemo(f, nil))
	cmd.AddCommand(versioncmd.NewCmdVersion(f, version, buildDate))

	return cmd
}

// initializeLogger sets up the logger with file logging if possible, falling
// back to console-only logging on any error.
func initializeLogger(f *cmdutil.Factory, debug bool) {
	loader, err := f.SettingsLoader()
	if err != nil {
		logger.Init(debug)
		return
	}

	settings, err := f.Settings()
	if err != nil {
		logger.Init(debug)
		return
	}

	if err := logger.InitWithFile(debug, loader.LogsDir(), loggerConfig(settings)); err != nil {
		logger.Init(debug)
	}
}

func loggerConfig(s *config.Settings) *logger.LoggingConfig {
	return &logger.LoggingConfig{
		FileEnabled: s.Logging.FileEnabled,
		MaxSizeMB:   s.Logging.MaxSizeMB,
		MaxAgeDays:  s.Logging.MaxAgeDays,
		MaxBackups:  s.Logging.MaxBackups,
	}
}
