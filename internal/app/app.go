package app

import (
	"context"
	"sync"

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

// App wires one analysis batch end to end: exchange client, corpus,
// decision engine, confirmation workflow and the ops HTTP server.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server

	client   *kalshi.Client
	corpus   *sentiment.Corpus
	builder  *engine.Builder
	recorder *engine.BatchRecorder
	runner   *workflow.Runner
	breaker  *circuitbreaker.BalanceCircuitBreaker
	store    storage.Storage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options holds per-invocation options from the CLI.
type Options struct {
	// Tickers analyzes these markets directly.
	Tickers []string

	// EventTicker expands to every market under an event. Ignored when
	// Tickers is set.
	EventTicker string

	// AutoConfirm answers yes to every confirmation prompt.
	AutoConfirm bool

	// DryRun stops after analysis; no confirmation, no orders.
	DryRun bool

	// Serve keeps the ops HTTP server running after the batch until a
	// shutdown signal arrives.
	Serve bool
}
