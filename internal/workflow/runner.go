package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// Breaker gates order flow on account health. A nil Breaker never trips.
type Breaker interface {
	Allow(ctx context.Context) error
	RecordOrder(costCents int64)
}

// Store persists recommendations and order results for audit.
type Store interface {
	StoreRecommendation(ctx context.Context, rec *types.BetRecommendation) error
	StoreOrderResult(ctx context.Context, result *types.OrderResult) error
}

// Runner drives a ranked recommendation batch end to end: confirm each
// one in order, then submit the confirmed orders FIFO. Confirmation is
// human-in-the-loop and strictly sequential; a failure on one order
// never aborts the rest of the batch.
type Runner struct {
	confirmer *Confirmer
	submitter *Submitter
	breaker   Breaker
	store     Store
	logger    *zap.Logger
}

// RunnerConfig holds runner configuration.
type RunnerConfig struct {
	Confirmer *Confirmer
	Submitter *Submitter
	Breaker   Breaker
	Store     Store
	Logger    *zap.Logger
}

// NewRunner creates a batch runner.
func NewRunner(cfg *RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		confirmer: cfg.Confirmer,
		submitter: cfg.Submitter,
		breaker:   cfg.Breaker,
		store:     cfg.Store,
		logger:    logger,
	}
}

// Run processes the batch and reports what happened to every
// recommendation.
func (r *Runner) Run(ctx context.Context, recs []*types.BetRecommendation) (*types.BatchSummary, error) {
	summary := &types.BatchSummary{TotalRecommendations: len(recs)}

	var orders []*types.BetOrder
	for _, rec := range recs {
		if r.store != nil {
			err := r.store.StoreRecommendation(ctx, rec)
			if err != nil {
				r.logger.Warn("recommendation-store-failed", zap.String("ticker", rec.Ticker), zap.Error(err))
			}
		}

		order, err := r.confirmer.Confirm(rec)
		if err != nil {
			return summary, err
		}
		if order == nil {
			continue
		}
		orders = append(orders, order)
	}
	summary.Confirmed = len(orders)

	for _, order := range orders {
		if r.breaker != nil {
			err := r.breaker.Allow(ctx)
			if err != nil {
				summary.Failed++
				r.logger.Warn("order-blocked-by-breaker",
					zap.String("ticker", order.Ticker),
					zap.Error(err))
				r.storeResult(ctx, &types.OrderResult{
					Ticker:        order.Ticker,
					Side:          order.Side,
					ClientOrderID: order.ClientOrderID,
					FailureReason: "circuit breaker open: " + err.Error(),
				})
				continue
			}
		}

		result := r.submitter.Submit(ctx, order)
		r.storeResult(ctx, result)

		if result.Success {
			summary.Succeeded++
			if r.breaker != nil {
				r.breaker.RecordOrder(int64(order.Amount * order.Price))
			}
		} else {
			summary.Failed++
		}
	}

	r.logger.Info("batch-complete",
		zap.Int("recommendations", summary.TotalRecommendations),
		zap.Int("confirmed", summary.Confirmed),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

func (r *Runner) storeResult(ctx context.Context, result *types.OrderResult) {
	if r.store == nil {
		return
	}
	err := r.store.StoreOrderResult(ctx, result)
	if err != nil {
		r.logger.Warn("order-result-store-failed", zap.String("ticker", result.Ticker), zap.Error(err))
	}
}
