package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	marketsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_markets_analyzed_total",
		Help: "Analyzed markets by outcome (recommended or skip reason)",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_analysis_duration_seconds",
		Help:    "Batch analysis duration",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	})
)
