package types

import (
	"fmt"
	"time"
)

// Bet sides.
const (
	SideYes = "yes"
	SideNo  = "no"
)

// BetRecommendation is a single sized, ranked trade recommendation.
// Created by the engine; read-only downstream. At most one order is
// ever placed against a recommendation.
type BetRecommendation struct {
	Ticker               string    `json:"ticker"`
	Side                 string    `json:"side"`
	Confidence           float64   `json:"confidence"`
	PredictedProbability float64   `json:"predicted_probability"`
	ExpectedValue        float64   `json:"expected_value"`
	RecommendedSize      int       `json:"recommended_size"`
	CurrentPrice         int       `json:"current_price"`
	Reasoning            string    `json:"reasoning"`
	MarketTitle          string    `json:"market_title"`
	CreatedAt            time.Time `json:"created_at"`
}

func (r *BetRecommendation) String() string {
	return fmt.Sprintf("Recommendation[%s] side=%s p=%.2f ev=%.4f size=%d price=%d¢",
		r.Ticker, r.Side, r.PredictedProbability, r.ExpectedValue, r.RecommendedSize, r.CurrentPrice)
}

// Reasons a market is skipped during analysis.
const (
	SkipFetchFailed     = "fetch_failed"
	SkipNoSentimentData = "no_sentiment_data"
	SkipProviderFailed  = "provider_failed"
	SkipNoThreshold     = "no_threshold"
	SkipNoEdge          = "no_edge"
	SkipNoValidPrice    = "no_valid_price"
)

// AnalysisOutcome is the per-market result of one analysis pass. Exactly
// one of Recommendation or SkipReason is set; skips are ordinary
// outcomes, not failures of the batch.
type AnalysisOutcome struct {
	Ticker         string             `json:"ticker"`
	Recommendation *BetRecommendation `json:"recommendation,omitempty"`
	SkipReason     string             `json:"skip_reason,omitempty"`
	Detail         string             `json:"detail,omitempty"`
}

// Skipped reports whether the market produced no recommendation.
func (o *AnalysisOutcome) Skipped() bool {
	return o.Recommendation == nil
}
