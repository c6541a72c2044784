package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sentibet/sentibet/internal/kalshi"
)

var watchCmd = &cobra.Command{
	Use:   "watch <ticker|url ...>",
	Short: "Stream live quote updates for markets",
	Long: `Watch subscribes to the exchange WebSocket ticker channel and prints
every quote change for the given markets until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	env, err := kalshi.ParseEnvironment(cfg.Environment)
	if err != nil {
		return err
	}

	key, err := kalshi.LoadPrivateKey(cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("load private key: %w", err)
	}

	tickers := make([]string, 0, len(args))
	for _, arg := range args {
		tickers = append(tickers, kalshi.ExtractTicker(arg))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := kalshi.NewStream(&kalshi.StreamConfig{
		Environment: env,
		KeyID:       cfg.KeyID,
		PrivateKey:  key,
		Logger:      logger,
	})

	err = stream.Connect(ctx)
	if err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	defer func() { _ = stream.Close() }()

	err = stream.Subscribe(tickers)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	fmt.Printf("Watching %d market(s), Ctrl+C to stop\n\n", len(tickers))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case update, ok := <-stream.Updates():
			if !ok {
				return fmt.Errorf("stream closed")
			}
			printUpdate(&update)
		case <-sigCh:
			fmt.Println("\nStopping")
			return nil
		}
	}
}

func printUpdate(u *kalshi.TickerUpdate) {
	ts := time.UnixMilli(u.Timestamp).Format("15:04:05")
	if u.Timestamp < 1e12 {
		ts = time.Unix(u.Timestamp, 0).Format("15:04:05")
	}

	line := fmt.Sprintf("[%s] %-28s", ts, u.Ticker)
	if u.YesBid != nil {
		line += fmt.Sprintf(" bid=%d", *u.YesBid)
	}
	if u.YesAsk != nil {
		line += fmt.Sprintf(" ask=%d", *u.YesAsk)
	}
	if u.Price != nil {
		line += fmt.Sprintf(" last=%d", *u.Price)
	}
	line += fmt.Sprintf(" vol=%d", u.Volume)
	fmt.Println(line)
}
