package engine

import (
	"sort"

	"github.com/sentibet/sentibet/pkg/types"
)

// Portfolio aggregates a ranked recommendation list for reporting.
type Portfolio struct {
	TotalEV float64 `json:"total_ev"`
	AvgEV   float64 `json:"avg_ev"`
	Count   int     `json:"count"`
}

// Rank sorts recommendations descending by expected value, in place, and
// returns the slice. The sort is stable so equal-EV markets keep their
// analysis order.
func Rank(recs []*types.BetRecommendation) []*types.BetRecommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ExpectedValue > recs[j].ExpectedValue
	})
	return recs
}

// Summarize computes portfolio-level aggregates. Total EV weights each
// recommendation by its share count; average EV is per bet, unweighted.
func Summarize(recs []*types.BetRecommendation) Portfolio {
	p := Portfolio{Count: len(recs)}
	if len(recs) == 0 {
		return p
	}

	sum := 0.0
	for _, rec := range recs {
		p.TotalEV += rec.ExpectedValue * float64(rec.RecommendedSize)
		sum += rec.ExpectedValue
	}
	p.AvgEV = sum / float64(len(recs))
	return p
}
