package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/config"
	"github.com/sznuper/keeper/internal/runner"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "keeper",
	Short: "Keep Pella.app servers alive",
	Long: "keeper signs in to the Pella.app dashboard with a headless browser, starts stopped servers, " +
		"claims renewals and reports each account through Shoutrrr. Run it once or as a cron daemon.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	registerOptionFlags(rootCmd)
}

func setupLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves, overlays flags and validates. The returned path is
// empty when no config file was found.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, path, err := config.Resolve(cfgFile)
	if err != nil {
		return nil, "", err
	}
	applyOptionFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func newRunner(cfg *config.Config, logger *slog.Logger) (*runner.Runner, error) {
	durs, err := cfg.Options.Durations()
	if err != nil {
		return nil, err
	}
	open, err := runner.BrowserOpener(cfg.Options, durs)
	if err != nil {
		return nil, err
	}
	return runner.New(cfg, logger, open)
}
