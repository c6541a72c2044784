package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentibet/sentibet/pkg/types"
)

type transportCall struct {
	endpoint string
	payload  any
}

type scriptedTransport struct {
	// responses are consumed per call; when exhausted the last entry
	// repeats.
	responses []transportResponse
	calls     []transportCall
}

type transportResponse struct {
	body []byte
	err  error
}

func (s *scriptedTransport) Post(ctx context.Context, path string, body any) ([]byte, error) {
	s.calls = append(s.calls, transportCall{endpoint: path, payload: body})

	idx := len(s.calls) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	resp := s.responses[idx]
	return resp.body, resp.err
}

func testOrder() *types.BetOrder {
	return &types.BetOrder{
		Ticker:        "KXTRON-50",
		Side:          types.SideYes,
		Amount:        1,
		Price:         40,
		ClientOrderID: "client-id-1",
		MarketTitle:   "TRON above 50?",
	}
}

func testSubmitter(t *testing.T, transport Transport, endpoints []string) *Submitter {
	t.Helper()
	submitter, err := NewSubmitter(&SubmitterConfig{Transport: transport, Endpoints: endpoints})
	require.NoError(t, err)
	return submitter
}

func TestSubmitFirstEndpointSucceeds(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order":{"order_id":"ex-1"}}`)},
	}}
	submitter := testSubmitter(t, transport, []string{"/a", "/b"})

	result := submitter.Submit(context.Background(), testOrder())

	assert.True(t, result.Success)
	assert.Equal(t, "/a", result.Endpoint)
	assert.Equal(t, "ex-1", result.ExchangeOrderID)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "client-id-1", result.ClientOrderID)
}

func TestSubmitFallbackAdvancesOnTransientFailures(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{err: &types.TransportError{Op: "POST /a", Err: context.DeadlineExceeded}},
		{err: &types.HTTPError{Status: 404, Body: "not found"}},
		{err: &types.HTTPError{Status: 502, Body: "bad gateway"}},
		{body: []byte(`{"order_id":"ex-2"}`)},
	}}
	submitter := testSubmitter(t, transport, []string{"/a", "/b", "/c", "/d"})

	result := submitter.Submit(context.Background(), testOrder())

	require.True(t, result.Success)
	assert.Equal(t, "/d", result.Endpoint)
	assert.Equal(t, "ex-2", result.ExchangeOrderID)
	assert.Equal(t, 4, result.Attempts)
}

func TestSubmitEmptyResponseAdvances(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte("  \n")},
		{body: []byte(`{"order_id":"ex-3"}`)},
	}}
	submitter := testSubmitter(t, transport, []string{"/a", "/b"})

	result := submitter.Submit(context.Background(), testOrder())

	require.True(t, result.Success)
	assert.Equal(t, "/b", result.Endpoint)
}

func TestSubmitDefinitiveRejectionStopsChain(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{err: &types.HTTPError{Status: 400, Body: "insufficient balance"}},
	}}
	submitter := testSubmitter(t, transport, []string{"/a", "/b", "/c"})

	result := submitter.Submit(context.Background(), testOrder())

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
	assert.Contains(t, result.FailureReason, "insufficient balance")
	assert.Len(t, transport.calls, 1)
}

func TestSubmitAllEndpointsFailRetriesAlternateEncodingOnce(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{err: &types.HTTPError{Status: 404, Body: ""}},
	}}
	endpoints := []string{"/a", "/b", "/c"}
	submitter := testSubmitter(t, transport, endpoints)

	result := submitter.Submit(context.Background(), testOrder())

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.FailureReason)
	// One full pass per encoding, no third round.
	assert.Equal(t, 2*len(endpoints), result.Attempts)
	require.Len(t, transport.calls, 2*len(endpoints))

	// First round uses the typed per-side payload, second the flat one.
	first, ok := transport.calls[0].payload.(*types.OrderPayload)
	require.True(t, ok)
	require.NotNil(t, first.YesPrice)
	assert.Equal(t, 41, *first.YesPrice)
	assert.Nil(t, first.NoPrice)

	alt, ok := transport.calls[len(endpoints)].payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 41, alt["price"])

	// The client id never changes across attempts or encodings.
	assert.Equal(t, "client-id-1", first.ClientOrderID)
	assert.Equal(t, "client-id-1", alt["client_order_id"])
}

func TestSubmitNoSidePriceForNoOrders(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"ex-4"}`)},
	}}
	submitter := testSubmitter(t, transport, []string{"/a"})

	order := testOrder()
	order.Side = types.SideNo
	order.Price = 65

	result := submitter.Submit(context.Background(), order)
	require.True(t, result.Success)

	payload := transport.calls[0].payload.(*types.OrderPayload)
	require.NotNil(t, payload.NoPrice)
	assert.Equal(t, 66, *payload.NoPrice)
	assert.Nil(t, payload.YesPrice)
}

func TestSubmitLimitPriceCappedAt99(t *testing.T) {
	transport := &scriptedTransport{responses: []transportResponse{
		{body: []byte(`{"order_id":"ex-5"}`)},
	}}
	submitter := testSubmitter(t, transport, []string{"/a"})

	order := testOrder()
	order.Price = 99

	submitter.Submit(context.Background(), order)

	payload := transport.calls[0].payload.(*types.OrderPayload)
	assert.Equal(t, 99, *payload.YesPrice)
}

func TestNewSubmitterRequiresEndpoints(t *testing.T) {
	_, err := NewSubmitter(&SubmitterConfig{Transport: &scriptedTransport{}})
	assert.Error(t, err)
}
