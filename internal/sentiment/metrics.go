package sentiment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	corpusLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_corpus_lookups_total",
		Help: "Corpus lookups by ladder level (exact, event_base, general, miss)",
	}, []string{"level"})

	providerRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_provider_requests_total",
		Help: "Classifier requests by outcome",
	}, []string{"outcome"})

	providerDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sentiment_provider_duration_seconds",
		Help:    "Classifier request duration",
		Buckets: prometheus.DefBuckets,
	})

	mapperOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentiment_mapper_outcomes_total",
		Help: "Mapper verdicts by path (directional, arbitrage, sentiment_gap, undervalued, no_edge)",
	}, []string{"path"})
)
