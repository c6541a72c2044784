package kalshi

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sentibet/sentibet/pkg/types"
)

// TickerUpdate is a single streamed quote change for a market.
type TickerUpdate struct {
	Ticker    string `json:"market_ticker"`
	YesBid    *int   `json:"yes_bid"`
	YesAsk    *int   `json:"yes_ask"`
	Price     *int   `json:"price"`
	Volume    int64  `json:"volume"`
	Timestamp int64  `json:"ts"`
}

type wsEnvelope struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

type wsCommand struct {
	ID     int       `json:"id"`
	Cmd    string    `json:"cmd"`
	Params *wsParams `json:"params,omitempty"`
}

type wsParams struct {
	Channels      []string `json:"channels"`
	MarketTickers []string `json:"market_tickers"`
}

// StreamConfig holds WebSocket watcher configuration.
type StreamConfig struct {
	Environment Environment
	KeyID       string
	PrivateKey  *rsa.PrivateKey

	// URL overrides the environment endpoint. Tests only.
	URL string

	Logger *zap.Logger
}

// Stream maintains a single authenticated WebSocket session subscribed to
// the ticker channel. Updates are delivered on a channel; the read loop
// stops on the first read error or context cancellation.
type Stream struct {
	url    string
	signer *signer
	logger *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int

	updates chan TickerUpdate
}

// NewStream creates a disconnected ticker stream.
func NewStream(cfg *StreamConfig) *Stream {
	wsURL := cfg.URL
	if wsURL == "" {
		wsURL = cfg.Environment.WSBase() + wsPath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Stream{
		url:     wsURL,
		signer:  &signer{keyID: cfg.KeyID, key: cfg.PrivateKey},
		logger:  logger,
		nextID:  1,
		updates: make(chan TickerUpdate, 64),
	}
}

// Connect dials the exchange and starts the read loop. The handshake is
// signed the same way as HTTP requests, over GET and the WebSocket path.
func (s *Stream) Connect(ctx context.Context) error {
	ts := time.Now().UnixMilli()
	sig, err := s.signer.sign(http.MethodGet, wsPath, ts)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("KALSHI-ACCESS-KEY", s.signer.keyID)
	headers.Set("KALSHI-ACCESS-SIGNATURE", sig)
	headers.Set("KALSHI-ACCESS-TIMESTAMP", strconv.FormatInt(ts, 10))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, headers)
	if err != nil {
		return &types.TransportError{Op: "ws dial", Err: err}
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	go s.readLoop(ctx)

	s.logger.Info("ws-connected", zap.String("url", s.url))
	return nil
}

// Subscribe registers for ticker updates on the given markets.
func (s *Stream) Subscribe(tickers []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("stream not connected")
	}

	cmd := wsCommand{
		ID:  s.nextID,
		Cmd: "subscribe",
		Params: &wsParams{
			Channels:      []string{"ticker"},
			MarketTickers: tickers,
		},
	}
	s.nextID++

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("encode subscribe command: %w", err)
	}

	err = s.conn.WriteMessage(websocket.TextMessage, payload)
	if err != nil {
		return &types.TransportError{Op: "ws subscribe", Err: err}
	}

	s.logger.Info("ws-subscribed", zap.Strings("tickers", tickers))
	return nil
}

// Updates returns the stream of ticker changes. The channel is closed
// when the read loop exits.
func (s *Stream) Updates() <-chan TickerUpdate {
	return s.updates
}

// Close tears down the connection, which unblocks the read loop.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Stream) readLoop(ctx context.Context) {
	defer close(s.updates)

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("ws-read-failed", zap.Error(err))
			}
			return
		}

		var env wsEnvelope
		err = json.Unmarshal(raw, &env)
		if err != nil {
			s.logger.Warn("ws-bad-message", zap.Error(err))
			continue
		}

		wsMessagesTotal.WithLabelValues(env.Type).Inc()

		if env.Type != "ticker" {
			continue
		}

		var update TickerUpdate
		err = json.Unmarshal(env.Msg, &update)
		if err != nil {
			s.logger.Warn("ws-bad-ticker-payload", zap.Error(err))
			continue
		}

		select {
		case s.updates <- update:
		case <-ctx.Done():
			return
		}
	}
}
