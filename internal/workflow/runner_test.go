package workflow

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentibet/sentibet/pkg/types"
)

type recordingStore struct {
	recs    []*types.BetRecommendation
	results []*types.OrderResult
	err     error
}

func (s *recordingStore) StoreRecommendation(ctx context.Context, rec *types.BetRecommendation) error {
	s.recs = append(s.recs, rec)
	return s.err
}

func (s *recordingStore) StoreOrderResult(ctx context.Context, result *types.OrderResult) error {
	s.results = append(s.results, result)
	return s.err
}

type stubBreaker struct {
	allowErr error
	recorded []int64
}

func (b *stubBreaker) Allow(ctx context.Context) error { return b.allowErr }
func (b *stubBreaker) RecordOrder(cost int64)          { b.recorded = append(b.recorded, cost) }

func testRunner(t *testing.T, answers AnswerSource, transport Transport, breaker Breaker, store Store) *Runner {
	t.Helper()
	submitter := testSubmitter(t, transport, []string{"/orders"})
	return NewRunner(&RunnerConfig{
		Confirmer: NewConfirmer(&ConfirmerConfig{Answers: answers, Out: &bytes.Buffer{}, Amount: 1}),
		Submitter: submitter,
		Breaker:   breaker,
		Store:     store,
	})
}

func batchRecs() []*types.BetRecommendation {
	return []*types.BetRecommendation{
		{Ticker: "A-50", Side: types.SideYes, CurrentPrice: 40, ExpectedValue: 0.4, RecommendedSize: 5},
		{Ticker: "B-50", Side: types.SideNo, CurrentPrice: 30, ExpectedValue: 0.2, RecommendedSize: 2},
	}
}

func TestRunAllConfirmedAndSubmitted(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"ex-1"}`)},
	}}
	store := &recordingStore{}
	breaker := &stubBreaker{}
	runner := testRunner(t, &AutoAnswerSource{Answer: true}, transport, breaker, store)

	summary, err := runner.Run(context.Background(), batchRecs())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRecommendations)
	assert.Equal(t, 2, summary.Confirmed)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	assert.Len(t, store.recs, 2)
	assert.Len(t, store.results, 2)
	// Submission preserves confirmation order.
	assert.Equal(t, "A-50", store.results[0].Ticker)
	assert.Equal(t, "B-50", store.results[1].Ticker)
	// One share at the quoted price per order.
	assert.Equal(t, []int64{40, 30}, breaker.recorded)
}

func TestRunCancellationSkipsWithoutAborting(t *testing.T) {
	// Decline both stages of the first recommendation, accept the second.
	answers := &scriptedAnswers{answers: []bool{false, true, true}}
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"ex-1"}`)},
	}}
	runner := testRunner(t, answers, transport, nil, nil)

	summary, err := runner.Run(context.Background(), batchRecs())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Confirmed)
	assert.Equal(t, 1, summary.Succeeded)
}

func TestRunFailureDoesNotAbortBatch(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{err: &types.HTTPError{Status: 400, Body: "insufficient balance"}},
		{body: []byte(`{"order_id":"ex-2"}`)},
	}}
	store := &recordingStore{}
	runner := testRunner(t, &AutoAnswerSource{Answer: true}, transport, nil, store)

	summary, err := runner.Run(context.Background(), batchRecs())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Confirmed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, store.results, 2)
	assert.False(t, store.results[0].Success)
	assert.True(t, store.results[1].Success)
}

func TestRunBreakerOpenBlocksSubmission(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"never"}`)},
	}}
	store := &recordingStore{}
	breaker := &stubBreaker{allowErr: errors.New("balance floor reached")}
	runner := testRunner(t, &AutoAnswerSource{Answer: true}, transport, breaker, store)

	summary, err := runner.Run(context.Background(), batchRecs())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Confirmed)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.Empty(t, transport.calls)
	require.Len(t, store.results, 2)
	assert.Contains(t, store.results[0].FailureReason, "circuit breaker open")
}

func TestRunStorageFailureIsNonFatal(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"ex-1"}`)},
	}}
	store := &recordingStore{err: errors.New("db down")}
	runner := testRunner(t, &AutoAnswerSource{Answer: true}, transport, nil, store)

	summary, err := runner.Run(context.Background(), batchRecs())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Succeeded)
}
