// Package handler holds the Vercel serverless entrypoints. Each exported
// function is deployed as its own route under /api.
package handler

import (
	"net/http"
	"sync"

	"github.com/tonghaoch/storefront-relay-go/internal/app"
	"github.com/tonghaoch/storefront-relay-go/internal/config"
)

var (
	relay     *app.App
	relayOnce sync.Once
)

// loadRelay builds the handlers once per cold start. Configuration comes from
// the platform's environment variables.
func loadRelay() *app.App {
	relayOnce.Do(func() {
		relay = app.New(config.FromEnv())
	})
	return relay
}

// Claude is the entrypoint for /api/claude.
func Claude(w http.ResponseWriter, r *http.Request) {
	loadRelay().Chat.ServeHTTP(w, r)
}
