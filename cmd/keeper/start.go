package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/config"
	"github.com/sznuper/keeper/internal/runner"
	"github.com/sznuper/keeper/internal/schedule"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the keeper daemon",
	Long: "Processes all accounts on the configured cron schedule until interrupted. " +
		"The config file is watched and reloaded on change.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now, _ := cmd.Flags().GetBool("now")
		logger := setupLogger()

		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		job := func(ctx context.Context, cfg *config.Config) {
			r, err := newRunner(cfg, logger)
			if err != nil {
				logger.Error("building runner", "error", err)
				return
			}
			logSummary(logger, r.RunAll(ctx, false))
		}

		if now {
			job(ctx, cfg)
		}

		d := &schedule.Daemon{
			Path: path,
			Load: func() (*config.Config, error) {
				cfg, _, err := loadConfig(cmd)
				return cfg, err
			},
			Job:    job,
			Logger: logger,
		}
		return d.Run(ctx)
	},
}

func init() {
	startCmd.Flags().Bool("now", false, "process all accounts once before waiting for the schedule")
	rootCmd.AddCommand(startCmd)
}

func logSummary(logger *slog.Logger, results []runner.Result) {
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	logger.Info("batch finished", "accounts", len(results), "failed", failed)
}
