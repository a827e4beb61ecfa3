package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonghaoch/storefront-relay-go/internal/anthropic"
	"github.com/tonghaoch/storefront-relay-go/internal/handler"
	"github.com/tonghaoch/storefront-relay-go/internal/origin"
	"github.com/tonghaoch/storefront-relay-go/internal/shopify"
	"github.com/tonghaoch/storefront-relay-go/internal/stats"
)

func newTestRouter(t *testing.T) (http.Handler, *stats.Recorder) {
	t.Helper()
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/orders.json") {
			w.Write([]byte(`{"orders":[]}`))
			return
		}
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	t.Cleanup(upstream.Close)

	rec := stats.NewRecorder()
	chat := handler.NewChat(origin.NewAllowList("https://chat.example"), anthropic.NewClient(upstream.URL, "sk-test", ""))
	orders := handler.NewTrackOrder(origin.NewAllowList("https://shop.example"), shopify.NewClient("shop.example", "shpat", "", upstream.URL))

	return NewRouter(Options{Chat: chat, TrackOrder: orders, Stats: rec}), rec
}

func serve(h http.Handler, method, path, o, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if o != "" {
		req.Header.Set("Origin", o)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		origin string
		body   string
		want   int
	}{
		{"health", http.MethodGet, "/", "", "", http.StatusOK},
		{"chat post", http.MethodPost, "/api/claude", "https://chat.example", `{"messages":[{"role":"user","content":"hi"}]}`, http.StatusOK},
		{"chat preflight", http.MethodOptions, "/api/claude", "https://chat.example", "", http.StatusOK},
		{"chat get", http.MethodGet, "/api/claude", "https://chat.example", "", http.StatusMethodNotAllowed},
		{"chat wrong origin", http.MethodPost, "/api/claude", "https://shop.example", `{}`, http.StatusForbidden},
		{"orders preflight", http.MethodOptions, "/api/track-order", "https://shop.example", "", http.StatusNoContent},
		{"orders not found", http.MethodPost, "/api/track-order", "https://shop.example", `{"orderNumber":"1","email":"a@b.c"}`, http.StatusNotFound},
		{"orders delete", http.MethodDelete, "/api/track-order", "https://shop.example", "", http.StatusMethodNotAllowed},
		{"unknown", http.MethodGet, "/api/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.method, tt.path, tt.origin, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRelayRoutesKeepExactCORS(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodOptions, "/api/claude", "https://elsewhere.example", "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, http.MethodGet, "/", "https://elsewhere.example", "")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatsEndpoint(t *testing.T) {
	h, rec := newTestRouter(t)

	serve(h, http.MethodPost, "/api/claude", "https://evil.example", `{}`)
	serve(h, http.MethodPost, "/api/track-order", "https://shop.example", `{"orderNumber":"1","email":"a@b.c"}`)
	serve(h, http.MethodGet, "/", "", "")

	snap := rec.Snapshot()
	require.Len(t, snap.Recent, 2)
	assert.Equal(t, "track-order", snap.Recent[0].Handler)
	assert.Equal(t, http.StatusNotFound, snap.Recent[0].Status)
	assert.NotEmpty(t, snap.Recent[0].RequestID)

	w := serve(h, http.MethodGet, "/api/stats", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		TotalRequests  int64 `json:"total_requests"`
		RejectedOrigin int64 `json:"rejected_origin"`
		Config         struct {
			ChatOrigins []string `json:"chat_origins"`
			ChatReady   bool     `json:"chat_ready"`
			OrdersReady bool     `json:"orders_ready"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(2), body.TotalRequests)
	assert.Equal(t, int64(1), body.RejectedOrigin)
	assert.Equal(t, []string{"https://chat.example"}, body.Config.ChatOrigins)
	assert.True(t, body.Config.ChatReady)
	assert.True(t, body.Config.OrdersReady)
	assert.NotContains(t, w.Body.String(), "sk-test")
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestRouter(t)
	serve(h, http.MethodOptions, "/api/track-order", "https://shop.example", "")

	rec := serve(h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `relay_http_requests_total{handler="track-order",status="204"}`)
}
