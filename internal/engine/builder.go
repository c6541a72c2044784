package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/sentiment"
	"github.com/sentibet/sentibet/pkg/types"
)

// MarketDataSource supplies quotes. The decision engine depends only on
// this, never on a concrete exchange client.
type MarketDataSource interface {
	GetMarket(ctx context.Context, ticker string) (*types.MarketQuote, error)
}

// TextSource supplies raw texts for a ticker. An empty result means
// "insufficient data", not an error.
type TextSource interface {
	Lookup(ticker string) []string
}

// Config holds builder configuration.
type Config struct {
	Markets  MarketDataSource
	Corpus   TextSource
	Provider sentiment.Provider

	// FetchConcurrency bounds parallel market fetches. Analysis itself
	// runs sequentially over the materialized snapshot.
	FetchConcurrency int
	KellyFraction    float64
	MaxShares        int

	Logger *zap.Logger
}

// Builder turns a ticker list into per-market analysis outcomes. Quote
// fetches run in parallel up to a bound; the decision pipeline is pure
// and synchronous over the fetched snapshot.
type Builder struct {
	markets  MarketDataSource
	corpus   TextSource
	provider sentiment.Provider

	concurrency   int
	kellyFraction float64
	maxShares     int

	logger *zap.Logger
}

// NewBuilder creates an analysis builder.
func NewBuilder(cfg *Config) *Builder {
	concurrency := cfg.FetchConcurrency
	if concurrency < 1 {
		concurrency = 4
	}
	kelly := cfg.KellyFraction
	if kelly <= 0 {
		kelly = 0.25
	}
	maxShares := cfg.MaxShares
	if maxShares < 1 {
		maxShares = 10
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Builder{
		markets:       cfg.Markets,
		corpus:        cfg.Corpus,
		provider:      cfg.Provider,
		concurrency:   concurrency,
		kellyFraction: kelly,
		maxShares:     maxShares,
		logger:        logger,
	}
}

type fetched struct {
	quote *types.MarketQuote
	err   error
}

// Analyze fetches every market and runs the decision pipeline on each.
// One outcome is returned per input ticker, in input order. A failure on
// one market never aborts the others.
func (b *Builder) Analyze(ctx context.Context, tickers []string) []types.AnalysisOutcome {
	start := time.Now()

	snapshot := b.fetchAll(ctx, tickers)

	outcomes := make([]types.AnalysisOutcome, len(tickers))
	for i, ticker := range tickers {
		outcomes[i] = b.analyzeMarket(ctx, ticker, snapshot[i])

		if outcomes[i].Skipped() {
			marketsAnalyzed.WithLabelValues(outcomes[i].SkipReason).Inc()
		} else {
			marketsAnalyzed.WithLabelValues("recommended").Inc()
		}
	}

	analysisDuration.Observe(time.Since(start).Seconds())

	b.logger.Info("batch-analyzed",
		zap.Int("markets", len(tickers)),
		zap.Duration("elapsed", time.Since(start)))

	return outcomes
}

func (b *Builder) fetchAll(ctx context.Context, tickers []string) []fetched {
	snapshot := make([]fetched, len(tickers))
	sem := make(chan struct{}, b.concurrency)

	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			quote, err := b.markets.GetMarket(ctx, ticker)
			snapshot[i] = fetched{quote: quote, err: err}
		}(i, ticker)
	}
	wg.Wait()

	return snapshot
}

func (b *Builder) analyzeMarket(ctx context.Context, ticker string, f fetched) types.AnalysisOutcome {
	outcome := types.AnalysisOutcome{Ticker: ticker}

	if f.err != nil {
		outcome.SkipReason = types.SkipFetchFailed
		outcome.Detail = f.err.Error()
		return outcome
	}
	quote := f.quote

	texts := b.corpus.Lookup(ticker)
	if len(texts) == 0 {
		outcome.SkipReason = types.SkipNoSentimentData
		return outcome
	}

	signal, err := b.provider.Analyze(ctx, texts, quote.Title)
	if err != nil {
		if errors.Is(err, types.ErrNoSentimentData) {
			outcome.SkipReason = types.SkipNoSentimentData
		} else {
			outcome.SkipReason = types.SkipProviderFailed
			outcome.Detail = err.Error()
		}
		return outcome
	}

	mapped, err := sentiment.Evaluate(signal, quote)
	if err != nil {
		outcome.SkipReason = types.SkipNoEdge
		return outcome
	}

	threshold, err := sentiment.Threshold(ticker)
	if err != nil {
		outcome.SkipReason = types.SkipNoThreshold
		return outcome
	}
	adjusted := sentiment.AdjustForThreshold(mapped.ProbYes, threshold)

	yesAsk, okYes := types.ValidPrice(quote.YesAsk)
	noAsk, okNo := types.ValidPrice(quote.NoAsk)
	if !okYes && !okNo {
		outcome.SkipReason = types.SkipNoValidPrice
		return outcome
	}

	// EV decides the final side. The mapper's directional read feeds the
	// probability and the audit trail; a side with no valid price is
	// excluded outright.
	evYes, evNo := 0.0, 0.0
	if okYes {
		evYes = ExpectedValue(adjusted, yesAsk)
	}
	if okNo {
		evNo = ExpectedValue(1-adjusted, noAsk)
	}

	side, ev, price := types.SideYes, evYes, yesAsk
	if evNo > evYes {
		side, ev, price = types.SideNo, evNo, noAsk
	}
	if ev <= 0 {
		outcome.SkipReason = types.SkipNoEdge
		outcome.Detail = fmt.Sprintf("ev yes=%.4f no=%.4f", evYes, evNo)
		return outcome
	}

	size := SizeBet(mapped.Confidence, ev, price, b.kellyFraction, b.maxShares)
	if size < 1 {
		outcome.SkipReason = types.SkipNoEdge
		return outcome
	}

	probability := adjusted
	if side == types.SideNo {
		probability = 1 - adjusted
	}

	outcome.Recommendation = &types.BetRecommendation{
		Ticker:               ticker,
		Side:                 side,
		Confidence:           mapped.Confidence,
		PredictedProbability: adjusted,
		ExpectedValue:        ev,
		RecommendedSize:      size,
		CurrentPrice:         price,
		Reasoning: fmt.Sprintf("%s; threshold %d adjusts p(yes) to %.2f; %s EV %.4f at %s (p=%.2f)",
			mapped.Reasoning, threshold, adjusted, side, ev, types.FormatCents(price), probability),
		MarketTitle: quote.Title,
		CreatedAt:   time.Now(),
	}

	b.logger.Debug("market-recommended",
		zap.String("ticker", ticker),
		zap.String("side", side),
		zap.Float64("ev", ev),
		zap.Int("size", size))

	return outcome
}

// Recommendations filters outcomes down to the ranked recommendation
// list.
func Recommendations(outcomes []types.AnalysisOutcome) []*types.BetRecommendation {
	var recs []*types.BetRecommendation
	for i := range outcomes {
		if outcomes[i].Recommendation != nil {
			recs = append(recs, outcomes[i].Recommendation)
		}
	}
	return Rank(recs)
}
