package circuitbreaker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// BalanceFetcher reads the account balance. Both the exchange client and
// test mocks implement it.
type BalanceFetcher interface {
	GetBalance(ctx context.Context) (*types.Balance, error)
}

// BalanceCircuitBreaker gates order submission on account balance. The
// disable threshold floats with recent order sizes so a run of large
// orders raises the floor, and hysteresis keeps the breaker from
// flapping when the balance hovers near it. All amounts are cents.
type BalanceCircuitBreaker struct {
	enabled atomic.Bool

	checkInterval   time.Duration
	balances        BalanceFetcher
	logger          *zap.Logger
	orderMultiplier float64
	minAbsolute     int64
	hysteresisRatio float64

	mu               sync.RWMutex
	lastBalance      int64
	lastCheck        time.Time
	recentOrders     []int64
	disableThreshold int64
	enableThreshold  int64
}

// Config holds circuit breaker configuration.
type Config struct {
	CheckInterval   time.Duration
	OrderMultiplier float64
	MinAbsolute     int64
	HysteresisRatio float64
	Balances        BalanceFetcher
	Logger          *zap.Logger
}

// Status is a point-in-time snapshot for debugging and HTTP endpoints.
type Status struct {
	Enabled          bool      `json:"enabled"`
	LastBalance      int64     `json:"last_balance_cents"`
	LastCheck        time.Time `json:"last_check"`
	DisableThreshold int64     `json:"disable_threshold_cents"`
	EnableThreshold  int64     `json:"enable_threshold_cents"`
	AvgOrderSize     float64   `json:"avg_order_size_cents"`
	RecentOrderCount int       `json:"recent_order_count"`
}

// New creates a circuit breaker. It starts enabled; the first balance
// check happens in Start.
func New(cfg *Config) (*BalanceCircuitBreaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Balances == nil {
		return nil, fmt.Errorf("balance fetcher cannot be nil")
	}
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("check interval must be positive")
	}
	if cfg.OrderMultiplier <= 0 {
		return nil, fmt.Errorf("order multiplier must be positive")
	}
	if cfg.MinAbsolute <= 0 {
		return nil, fmt.Errorf("min absolute must be positive")
	}
	if cfg.HysteresisRatio < 1.0 {
		return nil, fmt.Errorf("hysteresis ratio must be >= 1.0")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := &BalanceCircuitBreaker{
		checkInterval:    cfg.CheckInterval,
		balances:         cfg.Balances,
		logger:           logger,
		orderMultiplier:  cfg.OrderMultiplier,
		minAbsolute:      cfg.MinAbsolute,
		hysteresisRatio:  cfg.HysteresisRatio,
		recentOrders:     make([]int64, 0, 20),
		disableThreshold: cfg.MinAbsolute,
		enableThreshold:  int64(float64(cfg.MinAbsolute) * cfg.HysteresisRatio),
	}
	breaker.enabled.Store(true)

	breakerEnabled.Set(1)
	breakerDisableThreshold.Set(float64(breaker.disableThreshold))
	breakerEnableThreshold.Set(float64(breaker.enableThreshold))

	return breaker, nil
}

// IsEnabled reports whether orders may flow. Lock-free.
func (b *BalanceCircuitBreaker) IsEnabled() bool {
	return b.enabled.Load()
}

// Allow returns an error when the breaker is open. Satisfies the
// workflow's gate interface.
func (b *BalanceCircuitBreaker) Allow(ctx context.Context) error {
	if b.enabled.Load() {
		return nil
	}

	b.mu.RLock()
	balance := b.lastBalance
	threshold := b.enableThreshold
	b.mu.RUnlock()

	return fmt.Errorf("balance %s below re-enable threshold %s",
		types.FormatCents(int(balance)), types.FormatCents(int(threshold)))
}

// RecordOrder adds a filled order's cost to the rolling window and
// recalculates thresholds.
func (b *BalanceCircuitBreaker) RecordOrder(costCents int64) {
	if costCents <= 0 {
		b.logger.Warn("invalid-order-cost", zap.Int64("cost-cents", costCents))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recentOrders = append(b.recentOrders, costCents)
	if len(b.recentOrders) > 20 {
		b.recentOrders = b.recentOrders[1:]
	}

	var sum int64
	for _, cost := range b.recentOrders {
		sum += cost
	}
	avg := float64(sum) / float64(len(b.recentOrders))

	b.disableThreshold = int64(avg * b.orderMultiplier)
	if b.disableThreshold < b.minAbsolute {
		b.disableThreshold = b.minAbsolute
	}
	b.enableThreshold = int64(float64(b.disableThreshold) * b.hysteresisRatio)

	breakerAvgOrderSize.Set(avg)
	breakerDisableThreshold.Set(float64(b.disableThreshold))
	breakerEnableThreshold.Set(float64(b.enableThreshold))

	b.logger.Debug("thresholds-updated",
		zap.Float64("avg-order-cents", avg),
		zap.Int("order-count", len(b.recentOrders)),
		zap.Int64("disable-threshold", b.disableThreshold),
		zap.Int64("enable-threshold", b.enableThreshold))
}

// CheckBalance fetches the balance and applies the hysteresis state
// transition.
func (b *BalanceCircuitBreaker) CheckBalance(ctx context.Context) error {
	start := time.Now()
	defer func() {
		breakerCheckDuration.Observe(time.Since(start).Seconds())
	}()

	balance, err := b.balances.GetBalance(ctx)
	if err != nil {
		b.logger.Error("balance-check-failed", zap.Error(err))
		return fmt.Errorf("get balance: %w", err)
	}

	b.mu.Lock()
	b.lastBalance = balance.Balance
	b.lastCheck = time.Now()
	disableThreshold := b.disableThreshold
	enableThreshold := b.enableThreshold
	b.mu.Unlock()

	breakerBalance.Set(float64(balance.Balance))

	currentlyEnabled := b.enabled.Load()
	switch {
	case currentlyEnabled && balance.Balance < disableThreshold:
		b.enabled.Store(false)
		breakerEnabled.Set(0)
		breakerStateChanges.Inc()
		b.logger.Warn("circuit-breaker-opened",
			zap.Int64("balance-cents", balance.Balance),
			zap.Int64("disable-threshold", disableThreshold))

	case !currentlyEnabled && balance.Balance >= enableThreshold:
		b.enabled.Store(true)
		breakerEnabled.Set(1)
		breakerStateChanges.Inc()
		b.logger.Info("circuit-breaker-closed",
			zap.Int64("balance-cents", balance.Balance),
			zap.Int64("enable-threshold", enableThreshold))

	default:
		b.logger.Debug("balance-checked",
			zap.Int64("balance-cents", balance.Balance),
			zap.Bool("enabled", currentlyEnabled))
	}

	return nil
}

// Start checks once immediately, then monitors in the background until
// the context is cancelled.
func (b *BalanceCircuitBreaker) Start(ctx context.Context) {
	b.logger.Info("circuit-breaker-started",
		zap.Duration("check-interval", b.checkInterval),
		zap.Float64("order-multiplier", b.orderMultiplier),
		zap.Int64("min-absolute-cents", b.minAbsolute))

	err := b.CheckBalance(ctx)
	if err != nil {
		b.logger.Error("initial-balance-check-failed", zap.Error(err))
	}

	go b.monitorLoop(ctx)
}

func (b *BalanceCircuitBreaker) monitorLoop(ctx context.Context) {
	ticker := time.NewTicker(b.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("circuit-breaker-stopped")
			return
		case <-ticker.C:
			err := b.CheckBalance(ctx)
			if err != nil {
				b.logger.Error("balance-check-error", zap.Error(err))
			}
		}
	}
}

// GetStatus returns a snapshot of the breaker's state.
func (b *BalanceCircuitBreaker) GetStatus() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sum int64
	for _, cost := range b.recentOrders {
		sum += cost
	}
	avg := 0.0
	if len(b.recentOrders) > 0 {
		avg = float64(sum) / float64(len(b.recentOrders))
	}

	return Status{
		Enabled:          b.enabled.Load(),
		LastBalance:      b.lastBalance,
		LastCheck:        b.lastCheck,
		DisableThreshold: b.disableThreshold,
		EnableThreshold:  b.enableThreshold,
		AvgOrderSize:     avg,
		RecentOrderCount: len(b.recentOrders),
	}
}
