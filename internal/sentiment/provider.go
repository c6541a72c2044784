package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// Provider classifies a batch of texts about a market.
type Provider interface {
	Analyze(ctx context.Context, texts []string, marketTitle string) (*types.SentimentSignal, error)
}

// HTTPProvider calls an external classifier service. The classifier
// itself is out of process; this client only speaks its wire contract.
type HTTPProvider struct {
	url    string
	http   *http.Client
	logger *zap.Logger
}

// HTTPProviderConfig holds provider configuration.
type HTTPProviderConfig struct {
	URL     string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewHTTPProvider creates a classifier client.
func NewHTTPProvider(cfg *HTTPProviderConfig) (*HTTPProvider, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("missing sentiment API URL")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPProvider{
		url:    cfg.URL,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

type analyzeRequest struct {
	Texts       []string `json:"texts"`
	MarketTitle string   `json:"market_title"`
}

// Analyze posts the texts and decodes the classifier's verdict.
func (p *HTTPProvider) Analyze(ctx context.Context, texts []string, marketTitle string) (*types.SentimentSignal, error) {
	if len(texts) == 0 {
		return nil, types.ErrNoSentimentData
	}

	payload, err := json.Marshal(analyzeRequest{Texts: texts, MarketTitle: marketTitle})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &types.TransportError{Op: "sentiment analyze", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		providerRequests.WithLabelValues("transport_error").Inc()
		return nil, &types.TransportError{Op: "sentiment analyze", Err: err}
	}
	defer resp.Body.Close()

	providerDuration.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		providerRequests.WithLabelValues("transport_error").Inc()
		return nil, &types.TransportError{Op: "sentiment analyze", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		providerRequests.WithLabelValues("http_error").Inc()
		return nil, &types.HTTPError{Status: resp.StatusCode, Body: string(body)}
	}

	var signal types.SentimentSignal
	err = json.Unmarshal(body, &signal)
	if err != nil {
		providerRequests.WithLabelValues("decode_error").Inc()
		return nil, fmt.Errorf("decode sentiment response: %w", err)
	}

	providerRequests.WithLabelValues("ok").Inc()

	p.logger.Debug("sentiment-analyzed",
		zap.String("market", marketTitle),
		zap.String("label", signal.OverallLabel),
		zap.Float64("positive-pct", signal.PositivePct),
		zap.Int("texts", len(texts)))

	return &signal, nil
}
