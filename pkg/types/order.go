package types

import "time"

// BetOrder is an order confirmed by the operator. Immutable once
// created; submitted exactly once per ClientOrderID.
type BetOrder struct {
	Ticker        string `json:"ticker"`
	Side          string `json:"side"`
	Amount        int    `json:"amount"`
	Price         int    `json:"price"`
	ClientOrderID string `json:"client_order_id"`
	MarketTitle   string `json:"market_title"`
}

// OrderPayload is the wire format for order submission. Exactly one of
// YesPrice/NoPrice is populated, matching Side.
type OrderPayload struct {
	Ticker        string `json:"ticker"`
	Action        string `json:"action"`
	Side          string `json:"side"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
	YesPrice      *int   `json:"yes_price,omitempty"`
	NoPrice       *int   `json:"no_price,omitempty"`
	ClientOrderID string `json:"client_order_id"`
}

// OrderResult records the outcome of one submission attempt chain.
type OrderResult struct {
	Ticker          string    `json:"ticker"`
	Side            string    `json:"side"`
	ClientOrderID   string    `json:"client_order_id"`
	Success         bool      `json:"success"`
	ExchangeOrderID string    `json:"exchange_order_id,omitempty"`
	Endpoint        string    `json:"endpoint,omitempty"`
	Attempts        int       `json:"attempts"`
	FailureReason   string    `json:"failure_reason,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// BatchSummary aggregates one betting batch for operator reporting.
type BatchSummary struct {
	TotalRecommendations int `json:"total_recommendations"`
	Confirmed            int `json:"confirmed"`
	Succeeded            int `json:"succeeded"`
	Failed               int `json:"failed"`
}
