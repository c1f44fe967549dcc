package main

import (
	"os"

	"github.com/spf13/cobra"

	"payrelay/internal/interfaces/cli/migrate"
	"payrelay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "payrelay",
		Short: "PayRelay - HerePay payment gateway service",
		Long:  `PayRelay bridges a storefront's orders to the HerePay payment processor: signed initiation, channel listing, and exactly-once reconciliation of payment results.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
