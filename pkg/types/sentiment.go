package types

// Sentiment labels produced by the external classifier.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentSignal is the per-market aggregate produced by the external
// sentiment classifier. Treated as a value object; the engine never
// recomputes it.
type SentimentSignal struct {
	PositivePct     float64 `json:"positive_percentage"`
	OverallLabel    string  `json:"overall_sentiment"`
	Confidence      float64 `json:"confidence"`
	SourceTextCount int     `json:"source_text_count"`
}
