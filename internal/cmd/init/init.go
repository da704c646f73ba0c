// Package init implements "transit init": write the default settings file.
package init

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/config"
	"github.com/schmitthub/transit/internal/iostreams"
)

// Options holds the init command configuration.
type Options struct {
	IO             *iostreams.IOStreams
	SettingsLoader func() (*config.Loader, error)

	Force bool
}

// NewCmdInit creates the init command.
func NewCmdInit(f *cmdutil.Factory, runF func(*Options) error) *cobra.Command {
	opts := &Options{
		IO:             f.IOStreams,
		SettingsLoader: f.SettingsLoader,
	}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runF != nil {
				return runF(opts)
			}
			return initRun(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite an existing settings file")

	return cmd
}

func initRun(opts *Options) error {
	loader, err := opts.SettingsLoader()
	if err != nil {
		return err
	}

	if loader.Exists() && !opts.Force {
		return fmt.Errorf("settings file already exists at %s (use --force to overwrite)", loader.Path())
	}

	if err := loader.Write(config.DefaultSettings()); err != nil {
		return err
	}

	cs := opts.IO.ColorScheme()
	fmt.Fprintf(opts.IO.Out, "%s Wrote %s\n", cs.SuccessIcon(), loader.Path())
	return nil
}
