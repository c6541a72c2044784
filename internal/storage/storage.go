package storage

import (
	"context"

	"github.com/sentibet/sentibet/pkg/types"
)

// Storage persists recommendations and order results for audit.
type Storage interface {
	StoreRecommendation(ctx context.Context, rec *types.BetRecommendation) error
	StoreOrderResult(ctx context.Context, result *types.OrderResult) error
	Close() error
}
