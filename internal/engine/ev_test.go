package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpectedValue(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		ask  int
		want float64
	}{
		{name: "strong-edge", p: 0.80, ask: 40, want: 0.40},
		{name: "fair-price", p: 0.50, ask: 50, want: 0.0},
		{name: "negative-edge", p: 0.30, ask: 50, want: -0.20},
		{name: "zero-ask-guard", p: 0.80, ask: 0, want: 0.0},
		{name: "negative-ask-guard", p: 0.80, ask: -5, want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ExpectedValue(tt.p, tt.ask), 1e-9)
		})
	}
}

func TestExpectedValueMonotonicInProbability(t *testing.T) {
	prev := ExpectedValue(0.05, 40)
	for p := 0.10; p <= 0.95; p += 0.05 {
		ev := ExpectedValue(p, 40)
		assert.Greater(t, ev, prev)
		prev = ev
	}
}

func TestSizeBet(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		ev         float64
		price      int
		want       int
	}{
		{name: "quarter-kelly-mid-range", confidence: 0.80, ev: 0.40, price: 40, want: 6},
		{name: "non-positive-ev-means-no-bet", confidence: 0.90, ev: 0.0, price: 40, want: 0},
		{name: "negative-ev-means-no-bet", confidence: 0.90, ev: -0.1, price: 40, want: 0},
		{name: "degenerate-zero-price", confidence: 0.80, ev: 0.40, price: 0, want: 1},
		{name: "degenerate-hundred-price", confidence: 0.80, ev: 0.40, price: 100, want: 1},
		{name: "weak-edge-floors-at-one", confidence: 0.55, ev: 0.01, price: 50, want: 1},
		{name: "near-certain-edge", confidence: 0.99, ev: 0.90, price: 5, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SizeBet(tt.confidence, tt.ev, tt.price, 0.25, 10)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeBetRespectsConfiguredCap(t *testing.T) {
	// Half-Kelly pushes the raw share count past the cap.
	got := SizeBet(0.99, 0.90, 5, 0.5, 10)
	assert.Equal(t, 10, got)

	got = SizeBet(0.99, 0.90, 5, 0.5, 3)
	assert.Equal(t, 3, got)
}
