package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// ConsoleStorage implements Storage by logging. The default when no
// database is configured.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a logging storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleStorage{logger: logger}
}

func (c *ConsoleStorage) StoreRecommendation(ctx context.Context, rec *types.BetRecommendation) error {
	c.logger.Info("recommendation",
		zap.String("ticker", rec.Ticker),
		zap.String("side", rec.Side),
		zap.Float64("confidence", rec.Confidence),
		zap.Float64("predicted-probability", rec.PredictedProbability),
		zap.Float64("expected-value", rec.ExpectedValue),
		zap.Int("recommended-size", rec.RecommendedSize),
		zap.Int("current-price", rec.CurrentPrice),
		zap.String("market-title", rec.MarketTitle))
	return nil
}

func (c *ConsoleStorage) StoreOrderResult(ctx context.Context, result *types.OrderResult) error {
	c.logger.Info("order-result",
		zap.String("ticker", result.Ticker),
		zap.String("side", result.Side),
		zap.String("client-order-id", result.ClientOrderID),
		zap.Bool("success", result.Success),
		zap.String("exchange-order-id", result.ExchangeOrderID),
		zap.String("endpoint", result.Endpoint),
		zap.Int("attempts", result.Attempts),
		zap.String("failure-reason", result.FailureReason))
	return nil
}

func (c *ConsoleStorage) Close() error {
	return nil
}
