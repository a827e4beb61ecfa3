package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tonghaoch/storefront-relay-go/internal/handler"
	"github.com/tonghaoch/storefront-relay-go/internal/logger"
	"github.com/tonghaoch/storefront-relay-go/internal/metrics"
	"github.com/tonghaoch/storefront-relay-go/internal/origin"
	"github.com/tonghaoch/storefront-relay-go/internal/stats"
)

// Options configures the local server.
type Options struct {
	Port       int
	Chat       *handler.Chat
	TrackOrder *handler.TrackOrder
	Stats      *stats.Recorder
}

// New creates a new HTTP server with all routes and middleware configured.
func New(opts Options) *http.Server {
	addr := fmt.Sprintf(":%d", opts.Port)
	slog.Info("server starting", "address", addr)

	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(opts),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}

// NewRouter mounts the relay handlers under /api and the operational routes.
// The relay routes answer every method themselves so their own CORS and 405
// handling applies.
func NewRouter(opts Options) http.Handler {
	if opts.Stats == nil {
		opts.Stats = stats.NewRecorder()
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Handle("/api/claude", instrument("claude", opts.Stats, opts.Chat))
	r.Handle("/api/track-order", instrument("track-order", opts.Stats, opts.TrackOrder))

	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET"},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}))
		r.Get("/", handler.Health)
		r.Get("/api/stats", handler.Stats(opts.Stats, opts.Chat, opts.TrackOrder))
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	})

	return r
}

// requestLogger is a simple request logging middleware.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}

// instrument records a relay request in the stats ring, the Prometheus
// collectors and the handler's file log.
func instrument(name string, rec *stats.Recorder, next http.Handler) http.Handler {
	fileLog := logger.For(name)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		o := origin.FromRequest(r)
		reqID := middleware.GetReqID(r.Context())

		metrics.ObserveRequest(name, status, elapsed)
		rec.Record(stats.RequestRecord{
			Timestamp: start,
			Handler:   name,
			Method:    r.Method,
			Origin:    o,
			RequestID: reqID,
			Status:    status,
			LatencyMs: elapsed.Milliseconds(),
		})
		fileLog.Log("%s %s origin=%q status=%d duration=%s id=%s", r.Method, r.URL.Path, o, status, elapsed, reqID)
	})
}
