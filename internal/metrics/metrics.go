package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the relay's collectors. It is separate from the default
// registry so tests can build several servers in one process.
var Registry = prometheus.NewRegistry()

var (
	requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "relay",
		Name:      "http_requests_total",
		Help:      "Total number of inbound HTTP requests.",
	}, []string{"handler", "status"})

	latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "relay",
		Name:      "http_request_duration_ms",
		Help:      "Inbound request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"handler"})

	upstream = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "relay",
		Name:      "upstream_request_duration_ms",
		Help:      "Outbound upstream call latency in milliseconds.",
		Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
	}, []string{"provider", "status"})
)

func init() {
	Registry.MustRegister(requests, latency, upstream)
}

// ObserveRequest records one inbound request.
func ObserveRequest(handler string, status int, d time.Duration) {
	requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	latency.WithLabelValues(handler).Observe(float64(d.Milliseconds()))
}

// ObserveUpstream records one outbound call. A status of 0 means the call failed
// before a response arrived.
func ObserveUpstream(provider string, status int, d time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstream.WithLabelValues(provider, label).Observe(float64(d.Milliseconds()))
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
