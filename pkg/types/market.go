package types

import "fmt"

// MarketQuote is an immutable snapshot of a single Kalshi market.
// Price fields are pointers because the exchange omits sides with no
// liquidity; 0 is a real price and must stay distinguishable from "not
// available". Refresh by re-fetching, never by mutating in place.
type MarketQuote struct {
	Ticker       string `json:"ticker"`
	EventTicker  string `json:"event_ticker"`
	Title        string `json:"title"`
	YesBid       *int   `json:"yes_bid"`
	YesAsk       *int   `json:"yes_ask"`
	NoBid        *int   `json:"no_bid"`
	NoAsk        *int   `json:"no_ask"`
	LastPrice    *int   `json:"last_price"`
	Status       string `json:"status"`
	Volume       int64  `json:"volume"`
	OpenInterest int64  `json:"open_interest"`
}

// ValidPrice reports whether a price field carries a tradeable value.
// Prices of 0 or >= 100 cents are degenerate (division-by-zero and
// certain-odds guard) and exclude that side from consideration.
func ValidPrice(p *int) (int, bool) {
	if p == nil || *p <= 0 || *p >= 100 {
		return 0, false
	}
	return *p, true
}

// FormatCents renders a cent amount as dollars for operator display.
func FormatCents(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// MarketList is a page of markets returned by the exchange.
type MarketList struct {
	Markets []MarketQuote `json:"markets"`
	Cursor  string        `json:"cursor"`
}

// PriceLevel is a single order book level: price in cents and resting
// contract count.
type PriceLevel struct {
	Price int
	Count int
}

// OrderBook holds both sides of a market's book.
type OrderBook struct {
	Ticker string
	Yes    []PriceLevel
	No     []PriceLevel
}

// Balance is the account balance in cents.
type Balance struct {
	Balance        int64 `json:"balance"`
	PendingBalance int64 `json:"pending_balance"`
}

// ExchangeStatus reports whether the exchange currently accepts trading.
type ExchangeStatus struct {
	ExchangeActive bool `json:"exchange_active"`
	TradingActive  bool `json:"trading_active"`
}

// Trade is a single executed trade on a market.
type Trade struct {
	TradeID string `json:"trade_id"`
	Ticker  string `json:"ticker"`
	Price   int    `json:"yes_price"`
	Count   int    `json:"count"`
	Taker   string `json:"taker_side"`
	Created string `json:"created_time"`
}
