// Package cmd provides the CLI commands for centrefind.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"centrefind/internal/config"
	"centrefind/internal/logging"
	"centrefind/internal/store"
	"centrefind/pkg/version"
)

var (
	debugMode      bool
	configPath     string
	loggingCleanup func()
)

// NewRootCmd creates the root command for the centrefind CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "centrefind",
		Short: "Fuzzy search over a local filesystem path index",
		Long: `Centrefind keeps a durable index of every path under your chosen
roots and answers ranked, typo-tolerant queries against it.

Build the index once, then search it instantly:

  centrefind index /data /srv
  centrefind search "minecraft server world"`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("centrefind version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.centrefind/logs/")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.centrefind/config.yaml)")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func startLogging(_ *cobra.Command, _ []string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	// File logging only; stderr stays clean for command output.
	logCfg.WriteToStderr = false

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// Logging is best-effort; a read-only home directory must not
		// block the command itself.
		slog.Warn("logging_setup_failed", slog.String("error", err.Error()))
		return nil
	}
	slog.SetDefault(logger)
	loggingCleanup = cleanup

	if debugMode {
		slog.Debug("debug logging enabled",
			slog.String("log_file", logging.DefaultLogPath()),
			slog.String("version", version.Version))
	}
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadDefault()
}

// openStore opens the index database described by the config.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.DatabasePath(), store.Options{
		Accelerator: cfg.Index.Accelerator,
		BlevePath:   cfg.BleveIndexPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open index: %w", err)
	}
	return st, nil
}
