package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, handler http.HandlerFunc, path string) (*http.Response, ProbeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler(w, req)

	resp := w.Result()
	t.Cleanup(func() { resp.Body.Close() })

	var body ProbeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHealthAlwaysOK(t *testing.T) {
	hc := New()

	resp, body := probe(t, hc.Health(), "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body.Status)
	assert.NotEmpty(t, body.Uptime)
}

func TestReadyTransitions(t *testing.T) {
	hc := New()

	resp, body := probe(t, hc.Ready(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "not_ready", body.Status)

	hc.SetReady(true)
	resp, body = probe(t, hc.Ready(), "/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body.Status)

	hc.SetReady(false)
	resp, _ = probe(t, hc.Ready(), "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
