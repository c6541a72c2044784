package kalshi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketFilterQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter MarketFilter
		want   string
	}{
		{
			name:   "empty",
			filter: MarketFilter{},
			want:   "",
		},
		{
			name:   "event-only",
			filter: MarketFilter{EventTicker: "KXTRON"},
			want:   "?event_ticker=KXTRON",
		},
		{
			name:   "status-and-limit",
			filter: MarketFilter{Status: "open", Limit: 100},
			want:   "?limit=100&status=open",
		},
		{
			name:   "cursor-pagination",
			filter: MarketFilter{Cursor: "abc123", Limit: 50},
			want:   "?cursor=abc123&limit=50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.query())
		})
	}
}

func TestGetMarket(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-api/v2/markets/KXTRON-50", r.URL.Path)
		w.Write([]byte(`{"market":{"ticker":"KXTRON-50","title":"TRON above 50?","yes_ask":40,"no_ask":65,"status":"active"}}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	market, err := client.GetMarket(context.Background(), "KXTRON-50")
	require.NoError(t, err)

	assert.Equal(t, "KXTRON-50", market.Ticker)
	require.NotNil(t, market.YesAsk)
	assert.Equal(t, 40, *market.YesAsk)
	require.NotNil(t, market.NoAsk)
	assert.Equal(t, 65, *market.NoAsk)
	assert.Nil(t, market.YesBid)
}

func TestListMarketsPagination(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cursor") == "" {
			w.Write([]byte(`{"markets":[{"ticker":"A-1"}],"cursor":"next"}`))
			return
		}
		w.Write([]byte(`{"markets":[{"ticker":"B-2"}],"cursor":""}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	page1, err := client.ListMarkets(context.Background(), &MarketFilter{EventTicker: "KXTRON"})
	require.NoError(t, err)
	require.Len(t, page1.Markets, 1)
	assert.Equal(t, "next", page1.Cursor)

	page2, err := client.ListMarkets(context.Background(), &MarketFilter{EventTicker: "KXTRON", Cursor: page1.Cursor})
	require.NoError(t, err)
	assert.Equal(t, "B-2", page2.Markets[0].Ticker)
	assert.Empty(t, page2.Cursor)
}

func TestGetOrderBookDecodesLevels(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-api/v2/markets/KXTRON-50/orderbook", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"orderbook":{"yes":[[40,120],[39,80]],"no":[[60,50]]}}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	book, err := client.GetOrderBook(context.Background(), "KXTRON-50", 0)
	require.NoError(t, err)

	require.Len(t, book.Yes, 2)
	assert.Equal(t, 40, book.Yes[0].Price)
	assert.Equal(t, 120, book.Yes[0].Count)
	require.Len(t, book.No, 1)
	assert.Equal(t, 60, book.No[0].Price)
}

func TestGetOrderBookDepthQuery(t *testing.T) {
	key := testKey(t)

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"orderbook":{"yes":[],"no":[]}}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	_, err := client.GetOrderBook(context.Background(), "KXTRON-50", 5)
	require.NoError(t, err)
	assert.Equal(t, "depth=5", gotQuery)
}

func TestGetExchangeStatus(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-api/v2/exchange/status", r.URL.Path)
		w.Write([]byte(`{"exchange_active":true,"trading_active":false}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	status, err := client.GetExchangeStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.ExchangeActive)
	assert.False(t, status.TradingActive)
}

func TestGetTrades(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-api/v2/markets/trades", r.URL.Path)
		assert.Equal(t, "KXTRON-50", r.URL.Query().Get("ticker"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"trades":[{"trade_id":"t1","ticker":"KXTRON-50","yes_price":42,"count":3,"taker_side":"yes"}]}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	trades, err := client.GetTrades(context.Background(), "KXTRON-50", 2)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, 42, trades[0].Price)
	assert.Equal(t, "yes", trades[0].Taker)
}

func TestCancelOrder(t *testing.T) {
	key := testKey(t)

	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"order":{"order_id":"ord-1","status":"canceled"}}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	err := client.CancelOrder(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/trade-api/v2/portfolio/orders/ord-1", gotPath)
}

func TestGetBalance(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trade-api/v2/portfolio/balance", r.URL.Path)
		w.Write([]byte(`{"balance":250000,"payout":0}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	balance, err := client.GetBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(250000), balance.Balance)
}

func TestPostReturnsRawBody(t *testing.T) {
	key := testKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"order":{"order_id":"ord-1"}}`))
	}))
	defer server.Close()

	client := testClient(t, key, server.URL, time.Millisecond)

	body, err := client.Post(context.Background(), "/trade-api/v2/portfolio/orders", map[string]any{"ticker": "X"})
	require.NoError(t, err)
	assert.Contains(t, string(body), "ord-1")
}
