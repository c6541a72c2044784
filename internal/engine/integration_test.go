package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentibet/sentibet/internal/engine"
	"github.com/sentibet/sentibet/internal/kalshi"
	"github.com/sentibet/sentibet/internal/testutil"
	"github.com/sentibet/sentibet/pkg/types"
)

type fixedTexts struct{}

func (fixedTexts) Lookup(ticker string) []string {
	return []string{"big launch announced", "network activity doubled"}
}

type fixedProvider struct {
	signal types.SentimentSignal
}

func (p *fixedProvider) Analyze(ctx context.Context, texts []string, marketTitle string) (*types.SentimentSignal, error) {
	signal := p.signal
	signal.SourceTextCount = len(texts)
	return &signal, nil
}

// Runs the full analysis pipeline against the mock exchange through a
// real signed client, end to end.
func TestAnalyzeAgainstMockExchange(t *testing.T) {
	exchange := testutil.NewExchange()
	defer exchange.Close()

	exchange.AddMarket(testutil.NewMarket("KXTRON-50", 40, 65))
	exchange.AddMarket(testutil.NewMarket("KXSOL-55", 72, 32))

	client, err := kalshi.NewClient(&kalshi.Config{
		Environment:        kalshi.EnvDemo,
		KeyID:              "integration-key",
		PrivateKey:         testutil.RSAKey(t),
		MinRequestInterval: time.Millisecond,
		BaseURL:            exchange.URL,
	})
	require.NoError(t, err)

	builder := engine.NewBuilder(&engine.Config{
		Markets:  client,
		Corpus:   fixedTexts{},
		Provider: &fixedProvider{signal: types.SentimentSignal{
			PositivePct:  0.80,
			OverallLabel: types.SentimentPositive,
			Confidence:   0.80,
		}},
	})

	outcomes := builder.Analyze(context.Background(), []string{"KXTRON-50", "KXSOL-55", "KXGONE-50"})
	require.Len(t, outcomes, 3)

	rec := outcomes[0].Recommendation
	require.NotNil(t, rec, "detail: %s", outcomes[0].Detail)
	assert.Equal(t, types.SideYes, rec.Side)
	assert.Equal(t, 40, rec.CurrentPrice)
	assert.InDelta(t, 0.40, rec.ExpectedValue, 1e-9)
	assert.Equal(t, 6, rec.RecommendedSize)

	// Fairly priced against the adjusted probability: negative EV on
	// both sides.
	assert.Equal(t, types.SkipNoEdge, outcomes[1].SkipReason)

	// Unknown market surfaces as a fetch failure, not a batch abort.
	assert.Equal(t, types.SkipFetchFailed, outcomes[2].SkipReason)
}
