package httpserver

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/internal/circuitbreaker"
	"github.com/sentibet/sentibet/internal/engine"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

type recommendationsHandler struct {
	recorder *engine.BatchRecorder
	logger   *zap.Logger
}

func newRecommendationsHandler(recorder *engine.BatchRecorder, logger *zap.Logger) *recommendationsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recommendationsHandler{recorder: recorder, logger: logger}
}

// handle serves the latest batch snapshot. An empty snapshot is a valid
// response, not an error; callers distinguish by generated_at.
func (h *recommendationsHandler) handle(w http.ResponseWriter, r *http.Request) {
	report := h.recorder.Latest()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(report)
	if err != nil {
		h.logger.Warn("recommendations-encode-failed", zap.Error(err))
	}
}

type breakerHandler struct {
	breaker *circuitbreaker.BalanceCircuitBreaker
}

func newBreakerHandler(breaker *circuitbreaker.BalanceCircuitBreaker) *breakerHandler {
	return &breakerHandler{breaker: breaker}
}

func (h *breakerHandler) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.breaker.GetStatus())
}
