package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/engine"
	"github.com/sentibet/sentibet/internal/kalshi"
)

// Run executes one analysis batch: resolve tickers, analyze, rank,
// confirm, submit. With Serve set it then keeps the ops server up until
// a shutdown signal.
func (a *App) Run(opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	a.logger.Info("application-starting",
		zap.String("environment", a.cfg.Environment),
		zap.String("log-level", a.cfg.LogLevel),
		zap.Bool("dry-run", opts.DryRun))

	a.wg.Add(1)
	go a.runHTTPServer()

	if a.breaker != nil {
		a.breaker.Start(a.ctx)
	}

	a.healthChecker.SetReady(true)

	err := a.runBatch(opts)
	if err != nil {
		a.logger.Error("batch-failed", zap.Error(err))
	}

	if opts.Serve {
		a.waitForShutdownSignal()
	}

	shutdownErr := a.Shutdown()
	if err != nil {
		return err
	}
	return shutdownErr
}

func (a *App) runBatch(opts *Options) error {
	tickers, err := a.resolveTickers(opts)
	if err != nil {
		return fmt.Errorf("resolve tickers: %w", err)
	}
	if len(tickers) == 0 {
		return fmt.Errorf("no markets to analyze")
	}

	outcomes := a.builder.Analyze(a.ctx, tickers)
	recs := engine.Recommendations(outcomes)
	portfolio := engine.Summarize(recs)
	a.recorder.Record(outcomes, recs, portfolio)

	fmt.Printf("\nAnalyzed %d markets: %d recommendation(s)\n", len(tickers), len(recs))
	for i := range outcomes {
		if outcomes[i].Skipped() {
			fmt.Printf("  skip %-20s %s\n", outcomes[i].Ticker, outcomes[i].SkipReason)
		}
	}
	if len(recs) > 0 {
		fmt.Printf("portfolio: total EV $%.2f, avg EV $%.4f across %d bet(s)\n",
			portfolio.TotalEV, portfolio.AvgEV, portfolio.Count)
	}

	if opts.DryRun || len(recs) == 0 {
		if opts.DryRun {
			a.logger.Info("dry-run-complete", zap.Int("recommendations", len(recs)))
		}
		return nil
	}

	summary, err := a.runner.Run(a.ctx, recs)
	if err != nil {
		return fmt.Errorf("run workflow: %w", err)
	}

	fmt.Printf("\nbatch: %d recommended, %d confirmed, %d succeeded, %d failed\n",
		summary.TotalRecommendations, summary.Confirmed, summary.Succeeded, summary.Failed)

	return nil
}

// resolveTickers turns CLI options into the concrete market list. An
// event ticker expands through listing pagination.
func (a *App) resolveTickers(opts *Options) ([]string, error) {
	if len(opts.Tickers) > 0 {
		return opts.Tickers, nil
	}
	if opts.EventTicker == "" {
		return nil, fmt.Errorf("either tickers or an event ticker is required")
	}

	var tickers []string
	cursor := ""
	for {
		page, err := a.client.ListMarkets(a.ctx, &kalshi.MarketFilter{
			EventTicker: opts.EventTicker,
			Status:      "open",
			Limit:       100,
			Cursor:      cursor,
		})
		if err != nil {
			return nil, err
		}
		for i := range page.Markets {
			tickers = append(tickers, page.Markets[i].Ticker)
		}
		if page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	a.logger.Info("event-expanded",
		zap.String("event", opts.EventTicker),
		zap.Int("markets", len(tickers)))

	return tickers, nil
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) waitForShutdownSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	a.logger.Info("serving-until-signal", zap.String("http-addr", ":"+a.cfg.HTTPPort))

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}
}

// gracePeriod bounds how long shutdown waits for in-flight HTTP
// requests.
const gracePeriod = 10 * time.Second
