package kalshi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sentibet/sentibet/pkg/types"
)

const (
	marketsPath   = "/trade-api/v2/markets"
	portfolioPath = "/trade-api/v2/portfolio"
	exchangePath  = "/trade-api/v2/exchange"
	wsPath        = "/trade-api/ws/v2"
)

// MarketFilter narrows a market listing. Zero-valued fields are omitted
// from the query entirely rather than sent as empty parameters.
type MarketFilter struct {
	EventTicker  string
	SeriesTicker string
	Status       string
	Tickers      string
	Cursor       string
	Limit        int
	MinCloseTS   int64
	MaxCloseTS   int64
}

func (f *MarketFilter) query() string {
	v := url.Values{}
	if f.EventTicker != "" {
		v.Set("event_ticker", f.EventTicker)
	}
	if f.SeriesTicker != "" {
		v.Set("series_ticker", f.SeriesTicker)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Tickers != "" {
		v.Set("tickers", f.Tickers)
	}
	if f.Cursor != "" {
		v.Set("cursor", f.Cursor)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.MinCloseTS > 0 {
		v.Set("min_close_ts", strconv.FormatInt(f.MinCloseTS, 10))
	}
	if f.MaxCloseTS > 0 {
		v.Set("max_close_ts", strconv.FormatInt(f.MaxCloseTS, 10))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// GetMarket fetches a single market quote by ticker.
func (c *Client) GetMarket(ctx context.Context, ticker string) (*types.MarketQuote, error) {
	var resp struct {
		Market types.MarketQuote `json:"market"`
	}
	err := c.get(ctx, marketsPath+"/"+url.PathEscape(ticker), &resp)
	if err != nil {
		return nil, fmt.Errorf("get market %s: %w", ticker, err)
	}
	return &resp.Market, nil
}

// ListMarkets fetches a page of markets matching the filter.
func (c *Client) ListMarkets(ctx context.Context, filter *MarketFilter) (*types.MarketList, error) {
	path := marketsPath
	if filter != nil {
		path += filter.query()
	}

	var resp types.MarketList
	err := c.get(ctx, path, &resp)
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	return &resp, nil
}

// GetOrderBook fetches price levels for both sides of a market. The wire
// format is positional [price, count] pairs per level. A depth of 0
// leaves the level count to the exchange.
func (c *Client) GetOrderBook(ctx context.Context, ticker string, depth int) (*types.OrderBook, error) {
	path := marketsPath + "/" + url.PathEscape(ticker) + "/orderbook"
	if depth > 0 {
		path += "?depth=" + strconv.Itoa(depth)
	}

	var resp struct {
		Orderbook struct {
			Yes [][]int `json:"yes"`
			No  [][]int `json:"no"`
		} `json:"orderbook"`
	}
	err := c.get(ctx, path, &resp)
	if err != nil {
		return nil, fmt.Errorf("get orderbook %s: %w", ticker, err)
	}

	book := &types.OrderBook{Ticker: ticker}
	for _, lvl := range resp.Orderbook.Yes {
		if len(lvl) >= 2 {
			book.Yes = append(book.Yes, types.PriceLevel{Price: lvl[0], Count: lvl[1]})
		}
	}
	for _, lvl := range resp.Orderbook.No {
		if len(lvl) >= 2 {
			book.No = append(book.No, types.PriceLevel{Price: lvl[0], Count: lvl[1]})
		}
	}
	return book, nil
}

// GetBalance fetches available and pending balance in cents.
func (c *Client) GetBalance(ctx context.Context) (*types.Balance, error) {
	var resp types.Balance
	err := c.get(ctx, portfolioPath+"/balance", &resp)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &resp, nil
}

// GetExchangeStatus fetches the trading/exchange availability flags.
func (c *Client) GetExchangeStatus(ctx context.Context) (*types.ExchangeStatus, error) {
	var resp types.ExchangeStatus
	err := c.get(ctx, exchangePath+"/status", &resp)
	if err != nil {
		return nil, fmt.Errorf("get exchange status: %w", err)
	}
	return &resp, nil
}

// GetTrades fetches recent public trades for a market.
func (c *Client) GetTrades(ctx context.Context, ticker string, limit int) ([]types.Trade, error) {
	v := url.Values{}
	v.Set("ticker", ticker)
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Trades []types.Trade `json:"trades"`
	}
	err := c.get(ctx, marketsPath+"/trades?"+v.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("get trades %s: %w", ticker, err)
	}
	return resp.Trades, nil
}

// CancelOrder cancels a resting order by its exchange order id.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	err := c.delete(ctx, portfolioPath+"/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return nil
}

// Post issues a signed POST against an arbitrary API path and returns the
// raw response body. Order submission probes candidate endpoints, so the
// path is caller-supplied rather than fixed here.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.post(ctx, path, body, nil)
}
