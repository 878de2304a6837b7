package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nvandessel/alignleap/internal/config"
	"github.com/nvandessel/alignleap/internal/logging"
	"github.com/spf13/cobra"
)

// Set at build time via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alignleap",
		Short: "Alignment leap - stochastic inertia graph simulator",
		Long: `alignleap simulates an agent on a complete graph whose edges learn
inertia from an alignment flow. Unresolved pressure accumulates as heat;
when heat outruns a dynamic threshold the agent leaps to a new node.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.alignleap/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug, or trace")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newGraphCmd(),
		newConfigCmd(),
		newParamsCmd(),
	)
	return rootCmd
}

// loadConfig resolves the effective configuration for a command: defaults,
// then the config file, then environment, then --log-level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	return cfg, nil
}

// newLogger writes operational logs to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}
