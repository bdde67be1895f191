package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every account once",
	Long: "Processes all configured accounts in order, or a single one with --account. " +
		"Use --dry-run to validate notification targets without sending.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		only, _ := cmd.Flags().GetString("account")
		logger := setupLogger()

		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		r, err := newRunner(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var results []runner.Result
		if only != "" {
			acct := r.FindAccount(only)
			if acct == nil {
				return fmt.Errorf("account %q not found in config", only)
			}
			results = append(results, r.RunAccount(ctx, acct, dryRun))
		} else {
			results = r.RunAll(ctx, dryRun)
		}

		for _, res := range results {
			printResult(res)
		}
		// Per-account failures are reported, not turned into an exit code.
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("dry-run", false, "validate notification targets without sending")
	runCmd.Flags().String("account", "", "process only the account with this server id or (masked) identity")
	rootCmd.AddCommand(runCmd)
}

func printResult(r runner.Result) {
	run := r.Run
	header := fmt.Sprintf("%s %s (%s)", run.State.Emoji(), run.AccountMasked, run.ResourceAddress)
	fmt.Println(styled(stateStyle(run.State), header))
	fmt.Printf("  State: %s\n", run.State)
	fmt.Printf("  Remaining: %s\n", run.Remaining)
	fmt.Printf("  Claim: %s\n", run.Claim)
	if len(run.ClaimedLabels) > 0 {
		fmt.Printf("  Claimed: %s\n", strings.Join(run.ClaimedLabels, ", "))
	}
	if r.Err != nil {
		fmt.Printf("  %s (%s): %s\n", styled(errStyle, "Error"), r.ErrStage, r.Err)
	}
	for _, note := range run.Notes {
		fmt.Printf("  %s\n", styled(faintStyle, "note: "+note))
	}
	if run.Screenshot != "" {
		fmt.Printf("  Screenshot: %s\n", run.Screenshot)
	}

	if len(r.Notified) > 0 {
		label := "Notified"
		if r.DryRun {
			label = "Would notify"
		}
		fmt.Printf("  %s: %s\n", label, strings.Join(r.Notified, ", "))
	}
	if r.NotifyErr != nil {
		fmt.Printf("  %s: %s\n", styled(warnStyle, "Notify error"), r.NotifyErr)
	}
}
