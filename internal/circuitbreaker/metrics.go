package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	breakerEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_enabled",
		Help: "Whether order flow is allowed (1) or blocked (0)",
	})

	breakerBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_balance_cents",
		Help: "Last observed account balance in cents",
	})

	breakerDisableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_disable_threshold_cents",
		Help: "Balance below which the breaker opens",
	})

	breakerEnableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_enable_threshold_cents",
		Help: "Balance above which the breaker closes again",
	})

	breakerAvgOrderSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_avg_order_size_cents",
		Help: "Rolling average order cost",
	})

	breakerStateChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuit_breaker_state_changes_total",
		Help: "Total open/close transitions",
	})

	breakerCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "circuit_breaker_check_duration_seconds",
		Help:    "Balance check duration",
		Buckets: prometheus.DefBuckets,
	})
)
