package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/pkg/types"
)

var marketsCmd = &cobra.Command{
	Use:   "markets [ticker|url]",
	Short: "List markets with current pricing",
	Long: `List markets and their current asks. With a market ticker or URL as
the argument, lists every sibling market under the same event.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMarkets,
}

var (
	marketsEvent  string
	marketsSeries string
	marketsStatus string
	marketsLimit  int
)

func init() {
	rootCmd.AddCommand(marketsCmd)

	marketsCmd.Flags().StringVarP(&marketsEvent, "event", "e", "", "Filter by event ticker")
	marketsCmd.Flags().StringVarP(&marketsSeries, "series", "s", "", "Filter by series ticker")
	marketsCmd.Flags().StringVar(&marketsStatus, "status", "open", "Filter by status")
	marketsCmd.Flags().IntVarP(&marketsLimit, "limit", "n", 50, "Maximum markets to list")
}

func runMarkets(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := newClient(cfg, logger)
	if err != nil {
		return err
	}

	event := marketsEvent
	if len(args) == 1 {
		event = kalshi.EventTickerOf(kalshi.ExtractTicker(args[0]))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	list, err := client.ListMarkets(ctx, &kalshi.MarketFilter{
		EventTicker:  event,
		SeriesTicker: marketsSeries,
		Status:       marketsStatus,
		Limit:        marketsLimit,
	})
	if err != nil {
		return fmt.Errorf("list markets: %w", err)
	}

	if len(list.Markets) == 0 {
		fmt.Println("No markets matched")
		return nil
	}

	fmt.Printf("%-28s %8s %8s %10s  %s\n", "TICKER", "YES ASK", "NO ASK", "VOLUME", "TITLE")
	for i := range list.Markets {
		m := &list.Markets[i]
		fmt.Printf("%-28s %8s %8s %10d  %s\n",
			m.Ticker, askString(m.YesAsk), askString(m.NoAsk), m.Volume, m.Title)
	}
	if list.Cursor != "" {
		fmt.Printf("\n(more available, cursor %s)\n", list.Cursor)
	}

	return nil
}

func askString(p *int) string {
	price, ok := types.ValidPrice(p)
	if !ok {
		return "-"
	}
	return types.FormatCents(price)
}
