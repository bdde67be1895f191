package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sznuper/keeper/internal/account"
)

var maskCmd = &cobra.Command{
	Use:   "mask <identity>",
	Short: "Print an identity the way notifications show it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(account.Mask(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(maskCmd)
}
