package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentibet/sentibet/pkg/types"
)

type stubBalances struct {
	balance int64
	err     error
}

func (s *stubBalances) GetBalance(ctx context.Context) (*types.Balance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &types.Balance{Balance: s.balance}, nil
}

func testBreaker(t *testing.T, balances *stubBalances) *BalanceCircuitBreaker {
	t.Helper()
	breaker, err := New(&Config{
		CheckInterval:   time.Minute,
		OrderMultiplier: 5.0,
		MinAbsolute:     500,
		HysteresisRatio: 1.5,
		Balances:        balances,
	})
	require.NoError(t, err)
	return breaker
}

func TestNewValidation(t *testing.T) {
	balances := &stubBalances{balance: 1000}

	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "nil-config", cfg: nil},
		{name: "nil-fetcher", cfg: &Config{CheckInterval: time.Minute, OrderMultiplier: 5, MinAbsolute: 500, HysteresisRatio: 1.5}},
		{name: "zero-interval", cfg: &Config{Balances: balances, OrderMultiplier: 5, MinAbsolute: 500, HysteresisRatio: 1.5}},
		{name: "zero-multiplier", cfg: &Config{Balances: balances, CheckInterval: time.Minute, MinAbsolute: 500, HysteresisRatio: 1.5}},
		{name: "zero-min", cfg: &Config{Balances: balances, CheckInterval: time.Minute, OrderMultiplier: 5, HysteresisRatio: 1.5}},
		{name: "hysteresis-below-one", cfg: &Config{Balances: balances, CheckInterval: time.Minute, OrderMultiplier: 5, MinAbsolute: 500, HysteresisRatio: 0.9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestStartsEnabled(t *testing.T) {
	breaker := testBreaker(t, &stubBalances{balance: 10000})
	assert.True(t, breaker.IsEnabled())
	assert.NoError(t, breaker.Allow(context.Background()))
}

func TestOpensBelowThreshold(t *testing.T) {
	balances := &stubBalances{balance: 400} // below the 500 minimum
	breaker := testBreaker(t, balances)

	require.NoError(t, breaker.CheckBalance(context.Background()))

	assert.False(t, breaker.IsEnabled())
	err := breaker.Allow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below re-enable threshold")
}

func TestHysteresisPreventsFlapping(t *testing.T) {
	balances := &stubBalances{balance: 400}
	breaker := testBreaker(t, balances)

	require.NoError(t, breaker.CheckBalance(context.Background()))
	require.False(t, breaker.IsEnabled())

	// Back above the disable threshold but below enable threshold
	// (500 * 1.5 = 750): stays open.
	balances.balance = 600
	require.NoError(t, breaker.CheckBalance(context.Background()))
	assert.False(t, breaker.IsEnabled())

	// Above the enable threshold: closes.
	balances.balance = 800
	require.NoError(t, breaker.CheckBalance(context.Background()))
	assert.True(t, breaker.IsEnabled())
}

func TestRecordOrderRaisesThresholds(t *testing.T) {
	breaker := testBreaker(t, &stubBalances{balance: 10000})

	// Average 200 cents * multiplier 5 = 1000 disable threshold.
	breaker.RecordOrder(100)
	breaker.RecordOrder(300)

	status := breaker.GetStatus()
	assert.Equal(t, int64(1000), status.DisableThreshold)
	assert.Equal(t, int64(1500), status.EnableThreshold)
	assert.Equal(t, 2, status.RecentOrderCount)
	assert.InDelta(t, 200, status.AvgOrderSize, 1e-9)
}

func TestRecordOrderFloorsAtMinimum(t *testing.T) {
	breaker := testBreaker(t, &stubBalances{balance: 10000})

	// Tiny orders cannot push the threshold below the absolute minimum.
	breaker.RecordOrder(10)

	status := breaker.GetStatus()
	assert.Equal(t, int64(500), status.DisableThreshold)
}

func TestRecordOrderIgnoresInvalidCost(t *testing.T) {
	breaker := testBreaker(t, &stubBalances{balance: 10000})
	breaker.RecordOrder(0)
	breaker.RecordOrder(-5)
	assert.Equal(t, 0, breaker.GetStatus().RecentOrderCount)
}

func TestRecordOrderRollingWindow(t *testing.T) {
	breaker := testBreaker(t, &stubBalances{balance: 10000})
	for i := 0; i < 25; i++ {
		breaker.RecordOrder(100)
	}
	assert.Equal(t, 20, breaker.GetStatus().RecentOrderCount)
}

func TestCheckBalanceErrorKeepsState(t *testing.T) {
	balances := &stubBalances{balance: 10000}
	breaker := testBreaker(t, balances)

	balances.err = errors.New("api down")
	err := breaker.CheckBalance(context.Background())
	require.Error(t, err)
	assert.True(t, breaker.IsEnabled())
}
