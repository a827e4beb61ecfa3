package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(requests.WithLabelValues("track-order", "404"))
	ObserveRequest("track-order", http.StatusNotFound, 12*time.Millisecond)
	after := testutil.ToFloat64(requests.WithLabelValues("track-order", "404"))

	assert.Equal(t, before+1, after)
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest("claude", http.StatusOK, time.Millisecond)
	ObserveUpstream("anthropic", 0, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "relay_http_requests_total")
	assert.Contains(t, body, `relay_upstream_request_duration_ms_count{provider="anthropic",status="error"}`)
}
