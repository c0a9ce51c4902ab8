// Package cli implements the muse command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/openmuse/muse/config"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "muse",
	Short: "Creative image generation with dual-tier memory",
	Long: "muse turns prompts into images and remembers every creation in a " +
		"short-term (session) and long-term (on-disk) semantic memory, so remix " +
		"requests can build on past work.",
	SilenceUsage: true,
}

var verbose bool

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the command tree.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the application logger.
// The returned cleanup closes the log file.
func setup() (config.Config, *slog.Logger, func() error) {
	cfg := config.Load()
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log, cleanup := config.SetupLogger(cfg.LogFile, level)
	slog.SetDefault(log)
	return cfg, log, cleanup
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
