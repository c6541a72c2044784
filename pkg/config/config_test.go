package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.Environment)
	assert.Equal(t, 100*time.Millisecond, cfg.MinRequestInterval)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0.25, cfg.KellyFraction)
	assert.Equal(t, 10, cfg.MaxShares)
	assert.Equal(t, 1, cfg.OrderAmount)
	assert.Equal(t, 4, cfg.FetchConcurrency)
	assert.Equal(t, "console", cfg.StorageMode)
	assert.Equal(t, "/trade-api/v2/portfolio/orders", cfg.OrderEndpoints[0])
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("KALSHI_ENV", "prod")
	t.Setenv("KALSHI_MIN_REQUEST_INTERVAL", "250ms")
	t.Setenv("KALSHI_ORDER_ENDPOINTS", "/a, /b,,/c")
	t.Setenv("MAX_SHARES", "5")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, 250*time.Millisecond, cfg.MinRequestInterval)
	assert.Equal(t, []string{"/a", "/b", "/c"}, cfg.OrderEndpoints)
	assert.Equal(t, 5, cfg.MaxShares)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad-environment",
			mutate:  func(c *Config) { c.Environment = "staging" },
			wantErr: "KALSHI_ENV",
		},
		{
			name:    "zero-rate-interval",
			mutate:  func(c *Config) { c.MinRequestInterval = 0 },
			wantErr: "KALSHI_MIN_REQUEST_INTERVAL",
		},
		{
			name:    "kelly-fraction-above-one",
			mutate:  func(c *Config) { c.KellyFraction = 1.5 },
			wantErr: "KELLY_FRACTION",
		},
		{
			name:    "zero-order-amount",
			mutate:  func(c *Config) { c.OrderAmount = 0 },
			wantErr: "ORDER_AMOUNT",
		},
		{
			name:    "empty-endpoints",
			mutate:  func(c *Config) { c.OrderEndpoints = nil },
			wantErr: "KALSHI_ORDER_ENDPOINTS",
		},
		{
			name:    "bad-storage-mode",
			mutate:  func(c *Config) { c.StorageMode = "redis" },
			wantErr: "STORAGE_MODE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv()
			require.NoError(t, err)

			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug")
	require.NoError(t, err)
	require.NotNil(t, logger)

	_, err = NewLogger("shouting")
	assert.Error(t, err)
}
