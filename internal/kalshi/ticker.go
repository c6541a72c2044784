package kalshi

import (
	"strings"
	"unicode"
)

// ExtractTicker pulls a market ticker out of a Kalshi URL. Plain tickers
// pass through unchanged. Recognized path shapes:
//
//	.../trade/TICKER
//	.../markets/ticker-slug  (last segment, uppercased)
//	.../event/EVENT-TICKER
//
// Anything else falls back to the last path segment.
func ExtractTicker(input string) string {
	s := strings.TrimSpace(input)
	lower := strings.ToLower(s)
	if !strings.Contains(lower, "kalshi.co") &&
		!strings.HasPrefix(lower, "http") &&
		!strings.HasPrefix(lower, "www.") {
		return s
	}

	// Strip query and fragment before segmenting.
	s, _, _ = strings.Cut(s, "?")
	s, _, _ = strings.Cut(s, "#")
	s = strings.TrimRight(s, "/")

	segments := strings.Split(s, "/")
	if len(segments) == 0 {
		return s
	}
	last := segments[len(segments)-1]

	for i, seg := range segments {
		if i+1 >= len(segments) {
			break
		}
		switch strings.ToLower(seg) {
		case "trade", "event":
			return strings.ToUpper(segments[i+1])
		case "markets":
			return strings.ToUpper(segments[len(segments)-1])
		}
	}

	return strings.ToUpper(last)
}

// DetectEnvironment infers the deployment from a market URL. Unknown
// hosts default to demo so a bad guess can never reach real money.
func DetectEnvironment(input string) Environment {
	lower := strings.ToLower(input)
	if strings.Contains(lower, "demo.kalshi.co") || strings.Contains(lower, "demo-api.kalshi.co") {
		return EnvDemo
	}
	if strings.Contains(lower, "kalshi.com") {
		return EnvProd
	}
	return EnvDemo
}

// EventTickerOf derives the event ticker from a market ticker. Market
// tickers carry a numeric suffix after a hyphen; event tickers do not.
func EventTickerOf(ticker string) string {
	if !strings.Contains(ticker, "-") {
		return ticker
	}
	hasDigit := false
	for _, r := range ticker {
		if unicode.IsDigit(r) {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return ticker
	}
	base, _, _ := strings.Cut(ticker, "-")
	return base
}
