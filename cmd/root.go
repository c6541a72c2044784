package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "sentibet",
	Short: "Sentiment-driven betting engine for Kalshi prediction markets",
	Long: `Sentibet analyzes scraped text sentiment against Kalshi market pricing,
computes expected value per market, sizes positions with a fractional
Kelly criterion, and walks each recommendation through an explicit
confirmation workflow before submitting limit orders.

All exchange requests are RSA-PSS signed and rate limited. The demo
environment is the default; production requires KALSHI_ENV=prod.`,
}

// Execute runs the CLI. Called once from main.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads .env plus environment variables and builds the
// logger. Every command starts here.
func loadConfig() (*config.Config, *zap.Logger, error) {
	err := godotenv.Load()
	if err != nil {
		fmt.Printf("Warning: .env file not found\n")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

// newClient builds a signed exchange client from configuration.
func newClient(cfg *config.Config, logger *zap.Logger) (*kalshi.Client, error) {
	env, err := kalshi.ParseEnvironment(cfg.Environment)
	if err != nil {
		return nil, err
	}

	key, err := kalshi.LoadPrivateKey(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}

	return kalshi.NewClient(&kalshi.Config{
		Environment:        env,
		KeyID:              cfg.KeyID,
		PrivateKey:         key,
		MinRequestInterval: cfg.MinRequestInterval,
		RequestTimeout:     cfg.RequestTimeout,
		Logger:             logger,
	})
}
