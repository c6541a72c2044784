package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default order-submission endpoint candidates, tried in order. The
// exchange's order contract was not stable at integration time, so the
// list is configuration (KALSHI_ORDER_ENDPOINTS), not hard fact.
var defaultOrderEndpoints = []string{
	"/trade-api/v2/portfolio/orders",
	"/portfolio/orders",
	"/trade-api/v2/orders",
	"/trading/orders",
	"/orders",
	"/v1/orders",
	"/api/orders",
}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Kalshi API
	Environment        string // "demo" or "prod"
	KeyID              string
	KeyFile            string
	MinRequestInterval time.Duration
	RequestTimeout     time.Duration
	OrderEndpoints     []string

	// Sentiment
	SentimentAPIURL string
	TextsDir        string
	CorpusTTL       time.Duration

	// Analysis
	FetchConcurrency int
	KellyFraction    float64
	MaxShares        int

	// Workflow
	OrderAmount int // hard safety ceiling per order

	// Circuit breaker
	CircuitBreakerEnabled         bool
	CircuitBreakerCheckInterval   time.Duration
	CircuitBreakerOrderMultiplier float64
	CircuitBreakerMinCents        int64
	CircuitBreakerHysteresisRatio float64

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		Environment:        getEnvOrDefault("KALSHI_ENV", "demo"),
		KeyID:              os.Getenv("KALSHI_KEY_ID"),
		KeyFile:            getEnvOrDefault("KALSHI_KEY_FILE", "kalshi.pem"),
		MinRequestInterval: getDurationOrDefault("KALSHI_MIN_REQUEST_INTERVAL", 100*time.Millisecond),
		RequestTimeout:     getDurationOrDefault("KALSHI_REQUEST_TIMEOUT", 90*time.Second),
		OrderEndpoints:     getListOrDefault("KALSHI_ORDER_ENDPOINTS", defaultOrderEndpoints),

		SentimentAPIURL: os.Getenv("SENTIMENT_API_URL"),
		TextsDir:        getEnvOrDefault("TEXTS_DIR", "scraped_data"),
		CorpusTTL:       getDurationOrDefault("CORPUS_TTL", 6*time.Hour),

		FetchConcurrency: getIntOrDefault("FETCH_CONCURRENCY", 4),
		KellyFraction:    getFloat64OrDefault("KELLY_FRACTION", 0.25),
		MaxShares:        getIntOrDefault("MAX_SHARES", 10),

		OrderAmount: getIntOrDefault("ORDER_AMOUNT", 1),

		CircuitBreakerEnabled:         getBoolOrDefault("CIRCUIT_BREAKER_ENABLED", false),
		CircuitBreakerCheckInterval:   getDurationOrDefault("CIRCUIT_BREAKER_CHECK_INTERVAL", 30*time.Second),
		CircuitBreakerOrderMultiplier: getFloat64OrDefault("CIRCUIT_BREAKER_ORDER_MULTIPLIER", 5.0),
		CircuitBreakerMinCents:        int64(getIntOrDefault("CIRCUIT_BREAKER_MIN_CENTS", 500)),
		CircuitBreakerHysteresisRatio: getFloat64OrDefault("CIRCUIT_BREAKER_HYSTERESIS_RATIO", 1.5),

		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "sentibet"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "sentibet123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "sentibet"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.Environment != "demo" && c.Environment != "prod" {
		return fmt.Errorf("KALSHI_ENV must be 'demo' or 'prod', got %q", c.Environment)
	}

	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.MinRequestInterval <= 0 {
		return fmt.Errorf("KALSHI_MIN_REQUEST_INTERVAL must be positive, got %s", c.MinRequestInterval)
	}

	if c.KellyFraction <= 0 || c.KellyFraction > 1.0 {
		return fmt.Errorf("KELLY_FRACTION must be in (0, 1], got %f", c.KellyFraction)
	}

	if c.MaxShares < 1 {
		return fmt.Errorf("MAX_SHARES must be >= 1, got %d", c.MaxShares)
	}

	if c.OrderAmount < 1 {
		return fmt.Errorf("ORDER_AMOUNT must be >= 1, got %d", c.OrderAmount)
	}

	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be >= 1, got %d", c.FetchConcurrency)
	}

	if len(c.OrderEndpoints) == 0 {
		return fmt.Errorf("KALSHI_ORDER_ENDPOINTS cannot be empty")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "console" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'console', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
