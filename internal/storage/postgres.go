package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage connects and verifies the database is reachable.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{db: db, logger: logger}, nil
}

// StoreRecommendation inserts one bet recommendation.
func (p *PostgresStorage) StoreRecommendation(ctx context.Context, rec *types.BetRecommendation) error {
	query := `
		INSERT INTO bet_recommendations (
			ticker, side, confidence, predicted_probability, expected_value,
			recommended_size, current_price, reasoning, market_title, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.Ticker,
		rec.Side,
		rec.Confidence,
		rec.PredictedProbability,
		rec.ExpectedValue,
		rec.RecommendedSize,
		rec.CurrentPrice,
		rec.Reasoning,
		rec.MarketTitle,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}

	p.logger.Debug("recommendation-stored",
		zap.String("ticker", rec.Ticker),
		zap.String("side", rec.Side))

	return nil
}

// StoreOrderResult inserts one submission result, successful or not.
func (p *PostgresStorage) StoreOrderResult(ctx context.Context, result *types.OrderResult) error {
	query := `
		INSERT INTO bet_orders (
			ticker, side, client_order_id, success, exchange_order_id,
			endpoint, attempts, failure_reason, submitted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		result.Ticker,
		result.Side,
		result.ClientOrderID,
		result.Success,
		result.ExchangeOrderID,
		result.Endpoint,
		result.Attempts,
		result.FailureReason,
		result.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order result: %w", err)
	}

	p.logger.Debug("order-result-stored",
		zap.String("ticker", result.Ticker),
		zap.String("client-order-id", result.ClientOrderID),
		zap.Bool("success", result.Success))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
