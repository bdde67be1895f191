package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the keeper configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if path == "" {
			path = "(environment only)"
		}
		fmt.Println(styled(okStyle, "✓ Config is valid"))
		fmt.Printf("  Source: %s\n", path)
		fmt.Printf("  Schedule: %s (%s)\n", cfg.Schedule, cfg.Options.Timezone)

		fmt.Println(styled(titleStyle, "Accounts"))
		for _, a := range cfg.Accounts {
			extra := ""
			if a.HasTelegram() {
				extra = " +telegram"
			}
			fmt.Printf("  %s → %s%s\n", a.Masked(), a.ServerID, extra)
		}

		if len(cfg.Services) > 0 {
			names := make([]string, 0, len(cfg.Services))
			for name := range cfg.Services {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Println(styled(titleStyle, "Services"))
			for _, name := range names {
				fmt.Printf("  %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
