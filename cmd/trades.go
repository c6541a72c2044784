package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/pkg/types"
)

var tradesCmd = &cobra.Command{
	Use:   "trades <ticker|url>",
	Short: "Show recent public trades for a market",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrades,
}

var tradesLimit int

func init() {
	rootCmd.AddCommand(tradesCmd)

	tradesCmd.Flags().IntVarP(&tradesLimit, "limit", "n", 20, "Maximum trades to show")
}

func runTrades(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	ticker := kalshi.ExtractTicker(args[0])

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trades, err := client.GetTrades(ctx, ticker, tradesLimit)
	if err != nil {
		return fmt.Errorf("get trades: %w", err)
	}

	if len(trades) == 0 {
		fmt.Printf("No recent trades for %s\n", ticker)
		return nil
	}

	fmt.Printf("%-24s %8s %6s %6s  %s\n", "TIME", "PRICE", "COUNT", "TAKER", "TRADE")
	for i := range trades {
		tr := &trades[i]
		fmt.Printf("%-24s %8s %6d %6s  %s\n",
			tr.Created, types.FormatCents(tr.Price), tr.Count, tr.Taker, tr.TradeID)
	}

	return nil
}
