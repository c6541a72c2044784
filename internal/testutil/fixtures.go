package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentibet/sentibet/pkg/types"
)

// IntPtr returns a pointer to v, for optional price fields.
func IntPtr(v int) *int {
	return &v
}

// NewMarket builds an open market quote with both asks populated. The
// event ticker is derived from the segment before the first hyphen.
func NewMarket(ticker string, yesAsk, noAsk int) *types.MarketQuote {
	event := ticker
	if i := strings.Index(ticker, "-"); i > 0 {
		event = ticker[:i]
	}
	return &types.MarketQuote{
		Ticker:      ticker,
		EventTicker: event,
		Title:       "Will " + ticker + " resolve yes?",
		YesAsk:      IntPtr(yesAsk),
		NoAsk:       IntPtr(noAsk),
		Status:      "active",
	}
}

// RSAKey generates a throwaway signing key.
func RSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}
