package engine

import (
	"sync"
	"time"

	"github.com/sentibet/sentibet/pkg/types"
)

// BatchReport is a snapshot of the most recent analysis run, served
// read-only over HTTP.
type BatchReport struct {
	Recommendations []*types.BetRecommendation `json:"recommendations"`
	Portfolio       Portfolio                  `json:"portfolio"`
	Skips           map[string]int             `json:"skips"`
	GeneratedAt     time.Time                  `json:"generated_at"`
}

// BatchRecorder retains the latest batch result. Writers replace the
// whole snapshot; readers never see a partial batch.
type BatchRecorder struct {
	mu     sync.RWMutex
	latest BatchReport
}

// NewBatchRecorder creates an empty recorder.
func NewBatchRecorder() *BatchRecorder {
	return &BatchRecorder{latest: BatchReport{Skips: map[string]int{}}}
}

// Record replaces the retained snapshot with this batch's results.
func (r *BatchRecorder) Record(outcomes []types.AnalysisOutcome, recs []*types.BetRecommendation, portfolio Portfolio) {
	skips := map[string]int{}
	for i := range outcomes {
		if outcomes[i].Skipped() {
			skips[outcomes[i].SkipReason]++
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = BatchReport{
		Recommendations: recs,
		Portfolio:       portfolio,
		Skips:           skips,
		GeneratedAt:     time.Now(),
	}
}

// Latest returns the retained snapshot.
func (r *BatchRecorder) Latest() BatchReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}
