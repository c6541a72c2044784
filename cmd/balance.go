package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentibet/sentibet/pkg/types"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show account balance and exchange status",
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balance, err := client.GetBalance(ctx)
	if err != nil {
		return fmt.Errorf("get balance: %w", err)
	}

	fmt.Printf("=== Account (%s) ===\n\n", cfg.Environment)
	fmt.Printf("Available: %s\n", types.FormatCents(int(balance.Balance)))
	if balance.PendingBalance != 0 {
		fmt.Printf("Pending:   %s\n", types.FormatCents(int(balance.PendingBalance)))
	}

	status, err := client.GetExchangeStatus(ctx)
	if err != nil {
		fmt.Printf("\nExchange status unavailable: %v\n", err)
		return nil
	}

	fmt.Printf("\nExchange active: %v\n", status.ExchangeActive)
	fmt.Printf("Trading active:  %v\n", status.TradingActive)

	return nil
}
