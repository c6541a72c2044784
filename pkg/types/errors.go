package types

import (
	"errors"
	"fmt"
)

// TransportError wraps a network-level failure. Always retryable at the
// caller's discretion.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx exchange response. 4xx responses are
// non-retryable and surfaced to the operator with the body; 5xx are safe
// to retry once after a short delay.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Status, e.Body)
}

// Retryable reports whether the response class permits a retry.
func (e *HTTPError) Retryable() bool { return e.Status >= 500 }

// SigningError is a private key or padding failure. Fatal: it aborts the
// run before any market analysis, never silently skipped.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("request signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// OrderRejectedError is an exchange-side rejection after a successful
// round-trip (e.g. insufficient balance). Recorded per order; it never
// affects sibling orders and never advances the endpoint fallback chain.
type OrderRejectedError struct {
	ClientOrderID string
	Status        int
	Body          string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order %s rejected (status %d): %s", e.ClientOrderID, e.Status, e.Body)
}

// Sentinel outcomes of market analysis. Both are expected and common;
// the market is skipped with an audit message.
var (
	ErrNoSentimentData = errors.New("no sentiment texts matched market")
	ErrNoEdge          = errors.New("no positive expected value on either side")
	ErrNoThreshold     = errors.New("ticker carries no numeric threshold suffix")
)
