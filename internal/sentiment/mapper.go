package sentiment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sentibet/sentibet/pkg/types"
)

const (
	baselineThreshold  = 50
	thresholdAdjustPer = 0.02

	arbitrageDeviation = 0.05
	sentimentGap       = 0.15
	trueNeutralLow     = 0.48
	trueNeutralHigh    = 0.52
	undervaluedBelow   = 0.45
)

// Signal is the mapper's verdict for one market: which side looks
// mispriced and how likely a yes resolution is before threshold
// adjustment.
type Signal struct {
	Side       string
	ProbYes    float64
	Confidence float64
	Reasoning  string
	Sentiment  types.SentimentSignal
}

// Evaluate maps a sentiment read plus current pricing to a directional
// signal. Directional sentiment passes through as-is. Neutral sentiment
// falls back to hunting for market mispricing:
//
//  1. combined ask deviating >5% from 1.0 (arbitrage-style inefficiency)
//  2. sentiment diverging >15 points from the implied yes probability
//  3. true-neutral sentiment with one side implied below 45%
//
// When none of those fire the market is fairly priced and the result is
// ErrNoEdge.
func Evaluate(signal *types.SentimentSignal, quote *types.MarketQuote) (*Signal, error) {
	confidence := signal.Confidence
	if confidence <= 0 {
		confidence = 0.5
	}

	switch signal.OverallLabel {
	case types.SentimentPositive:
		mapperOutcomes.WithLabelValues("directional").Inc()
		return &Signal{
			Side:       types.SideYes,
			ProbYes:    clampProb(signal.PositivePct),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("positive sentiment (%.0f%% of %d texts)", signal.PositivePct*100, signal.SourceTextCount),
			Sentiment:  *signal,
		}, nil
	case types.SentimentNegative:
		mapperOutcomes.WithLabelValues("directional").Inc()
		return &Signal{
			Side:       types.SideNo,
			ProbYes:    clampProb(signal.PositivePct),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("negative sentiment (%.0f%% positive of %d texts)", signal.PositivePct*100, signal.SourceTextCount),
			Sentiment:  *signal,
		}, nil
	}

	yesAsk, okYes := types.ValidPrice(quote.YesAsk)
	noAsk, okNo := types.ValidPrice(quote.NoAsk)
	if !okYes || !okNo {
		mapperOutcomes.WithLabelValues("no_edge").Inc()
		return nil, types.ErrNoEdge
	}

	pYes := float64(yesAsk) / 100
	pNo := float64(noAsk) / 100
	sum := pYes + pNo

	if sum > 1+arbitrageDeviation {
		mapperOutcomes.WithLabelValues("arbitrage").Inc()
		return &Signal{
			Side:       types.SideNo,
			ProbYes:    clampProb(pYes - (sum - 1)),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("neutral sentiment, combined ask %.2f overpriced", sum),
			Sentiment:  *signal,
		}, nil
	}
	if sum < 1-arbitrageDeviation {
		mapperOutcomes.WithLabelValues("arbitrage").Inc()
		return &Signal{
			Side:       types.SideYes,
			ProbYes:    clampProb(pYes + (1 - sum)),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("neutral sentiment, combined ask %.2f underpriced", sum),
			Sentiment:  *signal,
		}, nil
	}

	if math.Abs(signal.PositivePct-pYes) > sentimentGap {
		side := types.SideYes
		if signal.PositivePct < pYes {
			side = types.SideNo
		}
		mapperOutcomes.WithLabelValues("sentiment_gap").Inc()
		return &Signal{
			Side:       side,
			ProbYes:    clampProb(signal.PositivePct),
			Confidence: confidence,
			Reasoning:  fmt.Sprintf("sentiment %.0f%% diverges from implied %.0f%%", signal.PositivePct*100, pYes*100),
			Sentiment:  *signal,
		}, nil
	}

	if signal.PositivePct >= trueNeutralLow && signal.PositivePct <= trueNeutralHigh {
		if pYes < undervaluedBelow || pNo < undervaluedBelow {
			side := types.SideYes
			if pNo < undervaluedBelow {
				side = types.SideNo
			}
			mapperOutcomes.WithLabelValues("undervalued").Inc()
			return &Signal{
				Side:       side,
				ProbYes:    0.5,
				Confidence: confidence,
				Reasoning:  fmt.Sprintf("true-neutral sentiment with %s side implied below %.0f%%", side, undervaluedBelow*100),
				Sentiment:  *signal,
			}, nil
		}
	}

	mapperOutcomes.WithLabelValues("no_edge").Inc()
	return nil, types.ErrNoEdge
}

// Threshold extracts the payout boundary from a ticker's numeric suffix,
// the digits after the last hyphen. Tickers without one have no
// threshold, which is a valid terminal state for the analysis.
func Threshold(ticker string) (int, error) {
	idx := strings.LastIndex(ticker, "-")
	if idx < 0 || idx == len(ticker)-1 {
		return 0, types.ErrNoThreshold
	}

	threshold, err := strconv.Atoi(ticker[idx+1:])
	if err != nil {
		return 0, types.ErrNoThreshold
	}
	return threshold, nil
}

// AdjustForThreshold shifts a probability for how far the market's bar
// sits from the 50 baseline: 2 points of probability per threshold
// point, downward for higher bars, upward for lower ones. The result is
// clamped so it never reaches certainty.
func AdjustForThreshold(p float64, threshold int) float64 {
	return clampProb(p - thresholdAdjustPer*float64(threshold-baselineThreshold))
}

func clampProb(p float64) float64 {
	if p < 0.01 {
		return 0.01
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}
