package handler

import (
	"net/http"
	"time"

	"github.com/tonghaoch/storefront-relay-go/internal/api"
	"github.com/tonghaoch/storefront-relay-go/internal/stats"
)

// statsResponse is the JSON response for GET /api/stats.
type statsResponse struct {
	UptimeSeconds  int64                 `json:"uptime_seconds"`
	TotalRequests  int64                 `json:"total_requests"`
	HandlerCounts  map[string]int64      `json:"handler_counts"`
	StatusCounts   map[int]int64         `json:"status_counts"`
	RejectedOrigin int64                 `json:"rejected_origin"`
	Recent         []stats.RequestRecord `json:"recent"`
	Config         statsConfig           `json:"config"`
}

type statsConfig struct {
	ChatOrigins  []string `json:"chat_origins"`
	OrderOrigins []string `json:"order_origins"`
	ChatReady    bool     `json:"chat_ready"`
	OrdersReady  bool     `json:"orders_ready"`
}

// Stats serves GET /api/stats from the recorder. It reports whether each
// relay has its credentials, never the credentials themselves.
func Stats(rec *stats.Recorder, chat *Chat, orders *TrackOrder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := rec.Snapshot()

		// Limit recent to last 50 for the API response
		recent := snap.Recent
		if len(recent) > 50 {
			recent = recent[:50]
		}

		api.WriteJSON(w, http.StatusOK, statsResponse{
			UptimeSeconds:  int64(time.Since(snap.Aggregates.StartTime).Seconds()),
			TotalRequests:  snap.Aggregates.TotalRequests,
			HandlerCounts:  snap.Aggregates.HandlerCounts,
			StatusCounts:   snap.Aggregates.StatusCounts,
			RejectedOrigin: snap.Aggregates.RejectedOrigin,
			Recent:         recent,
			Config: statsConfig{
				ChatOrigins:  chat.origins.Origins(),
				OrderOrigins: orders.origins.Origins(),
				ChatReady:    chat.client.Configured(),
				OrdersReady:  orders.store.Configured(),
			},
		})
	}
}
