package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/sentibet/sentibet/pkg/types"
)

const apiPrefix = "/trade-api/v2"

// Exchange is a mock HTTP server that simulates the Kalshi trade API:
// market quotes, order books, balance, exchange status, and order
// submission. Requests must carry the signed-auth headers; signatures
// are not verified, only required.
type Exchange struct {
	*httptest.Server

	mu          sync.Mutex
	markets     map[string]*types.MarketQuote
	books       map[string]*types.OrderBook
	balance     int64
	orders      []json.RawMessage
	nextOrderID int
}

// NewExchange starts a mock exchange with no markets and a zero balance.
func NewExchange() *Exchange {
	ex := &Exchange{
		markets:     make(map[string]*types.MarketQuote),
		books:       make(map[string]*types.OrderBook),
		nextOrderID: 1,
	}
	ex.Server = httptest.NewServer(http.HandlerFunc(ex.handle))
	return ex
}

// AddMarket registers a market quote.
func (ex *Exchange) AddMarket(quote *types.MarketQuote) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.markets[quote.Ticker] = quote
}

// SetBook registers an order book for a ticker.
func (ex *Exchange) SetBook(book *types.OrderBook) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.books[book.Ticker] = book
}

// SetBalance sets the account balance in cents.
func (ex *Exchange) SetBalance(cents int64) {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	ex.balance = cents
}

// Orders returns the raw bodies of every order received.
func (ex *Exchange) Orders() []json.RawMessage {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	result := make([]json.RawMessage, len(ex.orders))
	copy(result, ex.orders)
	return result
}

func (ex *Exchange) handle(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("KALSHI-ACCESS-KEY") == "" ||
		r.Header.Get("KALSHI-ACCESS-SIGNATURE") == "" ||
		r.Header.Get("KALSHI-ACCESS-TIMESTAMP") == "" {
		http.Error(w, `{"error":"missing authentication"}`, http.StatusUnauthorized)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, apiPrefix)

	ex.mu.Lock()
	defer ex.mu.Unlock()

	switch {
	case path == "/markets" && r.Method == http.MethodGet:
		ex.listMarkets(w, r)
	case strings.HasPrefix(path, "/markets/") && strings.HasSuffix(path, "/orderbook"):
		ticker := strings.TrimSuffix(strings.TrimPrefix(path, "/markets/"), "/orderbook")
		ex.orderbook(w, ticker)
	case strings.HasPrefix(path, "/markets/"):
		ex.market(w, strings.TrimPrefix(path, "/markets/"))
	case path == "/portfolio/balance":
		writeJSON(w, &types.Balance{Balance: ex.balance})
	case path == "/exchange/status":
		writeJSON(w, &types.ExchangeStatus{ExchangeActive: true, TradingActive: true})
	case path == "/portfolio/orders" && r.Method == http.MethodPost:
		ex.acceptOrder(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (ex *Exchange) listMarkets(w http.ResponseWriter, r *http.Request) {
	event := r.URL.Query().Get("event_ticker")

	list := types.MarketList{Markets: []types.MarketQuote{}}
	for _, m := range ex.markets {
		if event != "" && m.EventTicker != event {
			continue
		}
		list.Markets = append(list.Markets, *m)
	}
	writeJSON(w, &list)
}

func (ex *Exchange) market(w http.ResponseWriter, ticker string) {
	m, ok := ex.markets[ticker]
	if !ok {
		http.Error(w, `{"error":"market not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]*types.MarketQuote{"market": m})
}

func (ex *Exchange) orderbook(w http.ResponseWriter, ticker string) {
	book, ok := ex.books[ticker]
	if !ok {
		http.Error(w, `{"error":"market not found"}`, http.StatusNotFound)
		return
	}

	encode := func(levels []types.PriceLevel) [][2]int {
		out := make([][2]int, len(levels))
		for i, l := range levels {
			out[i] = [2]int{l.Price, l.Count}
		}
		return out
	}
	writeJSON(w, map[string]any{
		"orderbook": map[string]any{
			"yes": encode(book.Yes),
			"no":  encode(book.No),
		},
	})
}

func (ex *Exchange) acceptOrder(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil {
		http.Error(w, `{"error":"bad body"}`, http.StatusBadRequest)
		return
	}

	ex.orders = append(ex.orders, body)
	orderID := fmt.Sprintf("EX-%d", ex.nextOrderID)
	ex.nextOrderID++

	writeJSON(w, map[string]any{
		"order": map[string]any{"order_id": orderID, "status": "resting"},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
