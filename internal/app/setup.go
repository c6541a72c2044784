package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/circuitbreaker"
	"github.com/sentibet/sentibet/internal/engine"
	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/internal/sentiment"
	"github.com/sentibet/sentibet/internal/storage"
	"github.com/sentibet/sentibet/internal/workflow"
	"github.com/sentibet/sentibet/pkg/config"
	"github.com/sentibet/sentibet/pkg/healthprobe"
	"github.com/sentibet/sentibet/pkg/httpserver"
)

// New builds the application graph. Nothing is started yet; Run does
// that.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	client, err := setupClient(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup exchange client: %w", err)
	}

	corpus, err := setupCorpus(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup corpus: %w", err)
	}

	provider, err := setupProvider(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup sentiment provider: %w", err)
	}

	builder := engine.NewBuilder(&engine.Config{
		Markets:          client,
		Corpus:           corpus,
		Provider:         provider,
		FetchConcurrency: cfg.FetchConcurrency,
		KellyFraction:    cfg.KellyFraction,
		MaxShares:        cfg.MaxShares,
		Logger:           logger,
	})

	store, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	breaker, err := setupBreaker(cfg, client, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup circuit breaker: %w", err)
	}

	runner, err := setupRunner(cfg, client, breaker, store, opts, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup workflow: %w", err)
	}

	healthChecker := healthprobe.New()
	recorder := engine.NewBatchRecorder()

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Recorder:      recorder,
		Breaker:       breaker,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		client:        client,
		corpus:        corpus,
		builder:       builder,
		recorder:      recorder,
		runner:        runner,
		breaker:       breaker,
		store:         store,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

func setupClient(cfg *config.Config, logger *zap.Logger) (*kalshi.Client, error) {
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

func setupCorpus(cfg *config.Config, logger *zap.Logger) (*sentiment.Corpus, error) {
	corpus, err := sentiment.NewCorpus(&sentiment.CorpusConfig{
		TTL:    cfg.CorpusTTL,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	loaded, err := corpus.LoadDir(cfg.TextsDir)
	if err != nil {
		logger.Warn("corpus-dir-unavailable",
			zap.String("dir", cfg.TextsDir),
			zap.Error(err))
		return corpus, nil
	}
	if loaded == 0 {
		logger.Warn("corpus-empty", zap.String("dir", cfg.TextsDir))
	}

	return corpus, nil
}

func setupProvider(cfg *config.Config, logger *zap.Logger) (sentiment.Provider, error) {
	if cfg.SentimentAPIURL == "" {
		return nil, fmt.Errorf("SENTIMENT_API_URL is required")
	}

	return sentiment.NewHTTPProvider(&sentiment.HTTPProviderConfig{
		URL:     cfg.SentimentAPIURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupBreaker(cfg *config.Config, client *kalshi.Client, logger *zap.Logger) (*circuitbreaker.BalanceCircuitBreaker, error) {
	if !cfg.CircuitBreakerEnabled {
		return nil, nil
	}

	return circuitbreaker.New(&circuitbreaker.Config{
		CheckInterval:   cfg.CircuitBreakerCheckInterval,
		OrderMultiplier: cfg.CircuitBreakerOrderMultiplier,
		MinAbsolute:     cfg.CircuitBreakerMinCents,
		HysteresisRatio: cfg.CircuitBreakerHysteresisRatio,
		Balances:        client,
		Logger:          logger,
	})
}

func setupRunner(
	cfg *config.Config,
	client *kalshi.Client,
	breaker *circuitbreaker.BalanceCircuitBreaker,
	store storage.Storage,
	opts *Options,
	logger *zap.Logger,
) (*workflow.Runner, error) {
	var answers workflow.AnswerSource = workflow.NewConsoleAnswerSource()
	if opts.AutoConfirm {
		answers = &workflow.AutoAnswerSource{Answer: true}
	}

	confirmer := workflow.NewConfirmer(&workflow.ConfirmerConfig{
		Answers: answers,
		Amount:  cfg.OrderAmount,
		Logger:  logger,
	})

	submitter, err := workflow.NewSubmitter(&workflow.SubmitterConfig{
		Transport: client,
		Endpoints: cfg.OrderEndpoints,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	// The interface indirection keeps a nil breaker from becoming a
	// typed non-nil interface value.
	var gate workflow.Breaker
	if breaker != nil {
		gate = breaker
	}

	return workflow.NewRunner(&workflow.RunnerConfig{
		Confirmer: confirmer,
		Submitter: submitter,
		Breaker:   gate,
		Store:     store,
		Logger:    logger,
	}), nil
}
