package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/app"
	"github.com/sentibet/sentibet/internal/kalshi"
)

var runCmd = &cobra.Command{
	Use:   "run [ticker|url ...]",
	Short: "Analyze markets and walk recommendations through confirmation",
	Long: `Run one analysis batch. Markets come from positional arguments
(tickers or Kalshi market URLs) or from --event, which expands to every
open market under that event.

Each recommendation is confirmed interactively before any order is
submitted; --yes answers every prompt affirmatively and --dry-run stops
after analysis.`,
	RunE: runRun,
}

var (
	runEvent       string
	runTextsDir    string
	runAutoConfirm bool
	runDryRun      bool
	runServe       bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runEvent, "event", "e", "", "Event ticker to expand into markets")
	runCmd.Flags().StringVarP(&runTextsDir, "texts-dir", "t", "", "Override the scraped texts directory")
	runCmd.Flags().BoolVarP(&runAutoConfirm, "yes", "y", false, "Answer yes to every confirmation prompt")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Analyze only, never prompt or submit")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "Keep the ops HTTP server running after the batch")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if runTextsDir != "" {
		cfg.TextsDir = runTextsDir
	}

	tickers := make([]string, 0, len(args))
	for _, arg := range args {
		ticker := kalshi.ExtractTicker(arg)
		tickers = append(tickers, ticker)

		// A pasted production URL overrides the configured environment
		// so the analysis prices against the right book.
		if ticker != arg {
			env := kalshi.DetectEnvironment(arg)
			if string(env) != cfg.Environment {
				logger.Info("environment-from-url",
					zap.String("url", arg),
					zap.String("environment", string(env)))
				cfg.Environment = string(env)
			}
		}
	}

	if len(tickers) == 0 && runEvent == "" {
		return fmt.Errorf("provide market tickers, URLs, or --event")
	}

	opts := &app.Options{
		Tickers:     tickers,
		EventTicker: runEvent,
		AutoConfirm: runAutoConfirm,
		DryRun:      runDryRun,
		Serve:       runServe,
	}

	application, err := app.New(cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	return application.Run(opts)
}
