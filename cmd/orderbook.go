package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/pkg/types"
)

var orderbookCmd = &cobra.Command{
	Use:   "orderbook <ticker|url>",
	Short: "Show the resting order book for a market",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrderbook,
}

var orderbookDepth int

func init() {
	rootCmd.AddCommand(orderbookCmd)

	orderbookCmd.Flags().IntVarP(&orderbookDepth, "depth", "d", 10, "Levels to show per side")
}

func runOrderbook(cmd *cobra.Command, args []string) error {
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

	book, err := client.GetOrderBook(ctx, ticker, orderbookDepth)
	if err != nil {
		return fmt.Errorf("get order book: %w", err)
	}

	fmt.Printf("=== Order Book: %s ===\n\n", book.Ticker)
	printSide("YES", book.Yes)
	fmt.Println()
	printSide("NO", book.No)

	return nil
}

func printSide(side string, levels []types.PriceLevel) {
	fmt.Printf("%s bids:\n", side)
	if len(levels) == 0 {
		fmt.Println("  (empty)")
		return
	}

	// The exchange returns levels ascending; show best bids first.
	shown := 0
	for i := len(levels) - 1; i >= 0 && shown < orderbookDepth; i-- {
		fmt.Printf("  %s x %d\n", types.FormatCents(levels[i].Price), levels[i].Count)
		shown++
	}
}
