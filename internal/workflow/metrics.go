package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	confirmations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_confirmations_total",
		Help: "Confirmation outcomes (confirmed, cancelled)",
	}, []string{"outcome"})

	ordersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_orders_submitted_total",
		Help: "Order submissions by outcome (success, rejected, failed)",
	}, []string{"outcome"})

	endpointFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workflow_endpoint_failures_total",
		Help: "Order endpoint attempts that failed and advanced the fallback chain",
	}, []string{"endpoint"})
)
