package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// Transport posts a JSON body to an API path and returns the raw
// response.
type Transport interface {
	Post(ctx context.Context, path string, body any) ([]byte, error)
}

// Submitter pushes confirmed orders to the exchange. The order contract
// was not stable at integration time, so submission walks a prioritized
// list of candidate endpoints: the first non-empty response wins, a
// definitive rejection stops the chain, and transport failures or
// missing routes advance to the next candidate. If every candidate
// fails, the whole chain is retried once with an alternate field
// encoding.
type Submitter struct {
	transport Transport
	endpoints []string
	logger    *zap.Logger
}

// SubmitterConfig holds submitter configuration.
type SubmitterConfig struct {
	Transport Transport
	Endpoints []string
	Logger    *zap.Logger
}

// NewSubmitter creates a submitter.
func NewSubmitter(cfg *SubmitterConfig) (*Submitter, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("no order endpoints configured")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Submitter{transport: cfg.Transport, endpoints: cfg.Endpoints, logger: logger}, nil
}

// Submit attempts one order. The result always reports what happened;
// submission never silently succeeds or fails. The order's client id is
// reused verbatim across every attempt so the exchange can collapse
// duplicates.
func (s *Submitter) Submit(ctx context.Context, order *types.BetOrder) *types.OrderResult {
	result := &types.OrderResult{
		Ticker:        order.Ticker,
		Side:          order.Side,
		ClientOrderID: order.ClientOrderID,
		SubmittedAt:   time.Now(),
	}

	// Limit one cent above the observed ask improves fill odds while
	// staying a limit order.
	limitPrice := order.Price + 1
	if limitPrice > 99 {
		limitPrice = 99
	}

	primary := orderPayload(order, limitPrice)
	alternate := alternatePayload(order, limitPrice)

	for round, payload := range []any{primary, alternate} {
		for _, endpoint := range s.endpoints {
			result.Attempts++

			body, err := s.transport.Post(ctx, endpoint, payload)
			if err == nil && len(bytes.TrimSpace(body)) > 0 {
				result.Success = true
				result.Endpoint = endpoint
				result.ExchangeOrderID = exchangeOrderID(body)

				ordersSubmitted.WithLabelValues("success").Inc()
				s.logger.Info("order-submitted",
					zap.String("ticker", order.Ticker),
					zap.String("endpoint", endpoint),
					zap.String("exchange-order-id", result.ExchangeOrderID),
					zap.Int("attempts", result.Attempts))
				return result
			}

			if rejected, reason := definitiveRejection(err); rejected {
				result.FailureReason = reason
				ordersSubmitted.WithLabelValues("rejected").Inc()
				s.logger.Warn("order-rejected",
					zap.String("ticker", order.Ticker),
					zap.String("endpoint", endpoint),
					zap.String("reason", reason))
				return result
			}

			endpointFailures.WithLabelValues(endpoint).Inc()
			s.logger.Debug("order-endpoint-failed",
				zap.String("endpoint", endpoint),
				zap.Int("round", round),
				zap.Error(err))
		}
	}

	result.FailureReason = fmt.Sprintf("all %d endpoint attempts failed", result.Attempts)
	ordersSubmitted.WithLabelValues("failed").Inc()
	s.logger.Error("order-submission-exhausted",
		zap.String("ticker", order.Ticker),
		zap.Int("attempts", result.Attempts))
	return result
}

// definitiveRejection reports whether the error is a non-transient
// exchange rejection. Missing routes and server-side failures are
// transient for fallback purposes; other client errors mean the
// exchange understood the order and said no.
func definitiveRejection(err error) (bool, string) {
	var httpErr *types.HTTPError
	if !errors.As(err, &httpErr) {
		return false, ""
	}
	if httpErr.Status == 404 || httpErr.Status >= 500 {
		return false, ""
	}
	return true, fmt.Sprintf("rejected with status %d: %s", httpErr.Status, httpErr.Body)
}

func orderPayload(order *types.BetOrder, limitPrice int) *types.OrderPayload {
	payload := &types.OrderPayload{
		Ticker:        order.Ticker,
		Action:        "buy",
		Side:          order.Side,
		Count:         order.Amount,
		Type:          "limit",
		ClientOrderID: order.ClientOrderID,
	}
	if order.Side == types.SideYes {
		payload.YesPrice = &limitPrice
	} else {
		payload.NoPrice = &limitPrice
	}
	return payload
}

// alternatePayload uses a flat price field instead of per-side prices.
func alternatePayload(order *types.BetOrder, limitPrice int) map[string]any {
	return map[string]any{
		"ticker":          order.Ticker,
		"action":          "buy",
		"side":            order.Side,
		"count":           order.Amount,
		"type":            "limit",
		"price":           limitPrice,
		"client_order_id": order.ClientOrderID,
	}
}

func exchangeOrderID(body []byte) string {
	var resp struct {
		Order struct {
			OrderID string `json:"order_id"`
		} `json:"order"`
		OrderID string `json:"order_id"`
	}
	if json.Unmarshal(body, &resp) != nil {
		return ""
	}
	if resp.Order.OrderID != "" {
		return resp.Order.OrderID
	}
	return resp.OrderID
}
