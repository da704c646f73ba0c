package main

import (
	"os"

	"github.com/schmitthub/transit/internal/cmd/root"
	"github.com/schmitthub/transit/internal/cmdutil"
	"github.com/schmitthub/transit/internal/logger"
)

// Set at build time via ldflags.
var (
	version   = "DEV"
	buildDate = ""
)

func main() {
	defer logger.CloseFileWriter()

	f := cmdutil.New(version, buildDate)
	rootCmd := root.NewCmdRoot(f, version, buildDate)

	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		cmdutil.PrintHelpHint(f.IOStreams, cmd.CommandPath())
		os.Exit(1)
	}
}
