package kalshi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalshi_requests_total",
		Help: "Total API requests by method and status class",
	}, []string{"method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kalshi_request_duration_seconds",
		Help:    "API request duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	rateLimitWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kalshi_rate_limit_wait_seconds",
		Help:    "Time spent waiting on the request rate limiter",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	signingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kalshi_signing_failures_total",
		Help: "Total request signing failures",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalshi_ws_messages_total",
		Help: "Total WebSocket messages received by type",
	}, []string{"type"})
)
