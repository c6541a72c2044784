package kalshi

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sentibet/sentibet/pkg/types"
)

// Config holds client configuration.
type Config struct {
	Environment Environment
	KeyID       string
	PrivateKey  *rsa.PrivateKey

	// MinRequestInterval is the floor between consecutive requests.
	MinRequestInterval time.Duration
	RequestTimeout     time.Duration

	// BaseURL overrides the environment host. Tests only.
	BaseURL string

	Logger *zap.Logger
}

// Client is an authenticated HTTP client for the exchange API. Every
// request is signed and paced through a shared rate limiter, so a single
// Client is safe for concurrent use and callers never coordinate pacing
// themselves.
type Client struct {
	env     Environment
	baseURL string
	signer  *signer
	limiter *rate.Limiter
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client for the configured environment.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.KeyID == "" {
		return nil, fmt.Errorf("missing API key ID")
	}
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("missing private key")
	}

	interval := cfg.MinRequestInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = cfg.Environment.HTTPBase()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		env:     cfg.Environment,
		baseURL: baseURL,
		signer:  &signer{keyID: cfg.KeyID, key: cfg.PrivateKey},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Environment returns the deployment this client talks to.
func (c *Client) Environment() Environment {
	return c.env
}

// get issues a signed GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, out)
	return err
}

// post issues a signed POST with a JSON body. It returns the raw response
// body so callers can distinguish empty responses from populated ones.
func (c *Client) post(ctx context.Context, path string, body any, out any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// delete issues a signed DELETE and decodes the JSON response into out.
func (c *Client) delete(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, out)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) ([]byte, error) {
	waitStart := time.Now()
	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, &types.TransportError{Op: method + " " + path, Err: err}
	}
	rateLimitWait.Observe(time.Since(waitStart).Seconds())

	ts := time.Now().UnixMilli()
	sig, err := c.signer.sign(method, path, ts)
	if err != nil {
		signingFailures.Inc()
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &types.TransportError{Op: method + " " + path, Err: err}
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.signer.keyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", sig)
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", strconv.FormatInt(ts, 10))
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, &types.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport_error").Inc()
		return nil, &types.TransportError{Op: method + " " + path, Err: err}
	}

	requestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode/100*100)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("api-request-failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return respBody, &types.HTTPError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil && len(respBody) > 0 {
		err = json.Unmarshal(respBody, out)
		if err != nil {
			return respBody, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}

	return respBody, nil
}
