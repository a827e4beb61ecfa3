package handler

import "net/http"

// TrackOrder is the entrypoint for /api/track-order.
func TrackOrder(w http.ResponseWriter, r *http.Request) {
	loadRelay().TrackOrder.ServeHTTP(w, r)
}
