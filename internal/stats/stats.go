package stats

import (
	"sync"
	"time"
)

// RequestRecord holds per-request data for the stats endpoint.
type RequestRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Handler   string    `json:"handler"` // claude, track-order
	Method    string    `json:"method"`
	Origin    string    `json:"origin"`
	RequestID string    `json:"request_id,omitempty"`
	Status    int       `json:"status"`
	LatencyMs int64     `json:"latency_ms"`
}

// Aggregates holds incrementally maintained statistics.
type Aggregates struct {
	TotalRequests  int64            `json:"total_requests"`
	HandlerCounts  map[string]int64 `json:"handler_counts"`
	StatusCounts   map[int]int64    `json:"status_counts"`
	RejectedOrigin int64            `json:"rejected_origin"`
	StartTime      time.Time        `json:"start_time"`
}

// Snapshot is the read-consistent copy returned by Recorder.Snapshot.
type Snapshot struct {
	Aggregates Aggregates      `json:"aggregates"`
	Recent     []RequestRecord `json:"recent"`
}

const ringBufferSize = 200

// Recorder is an in-memory ring buffer of recent requests.
type Recorder struct {
	mu        sync.RWMutex
	agg       Aggregates
	ring      []RequestRecord
	ringPos   int
	ringCount int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		agg: Aggregates{
			HandlerCounts: make(map[string]int64),
			StatusCounts:  make(map[int]int64),
			StartTime:     time.Now(),
		},
		ring: make([]RequestRecord, ringBufferSize),
	}
}

// Record appends a record to the ring buffer and updates aggregates.
func (r *Recorder) Record(rec RequestRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.ringPos] = rec
	r.ringPos = (r.ringPos + 1) % ringBufferSize
	if r.ringCount < ringBufferSize {
		r.ringCount++
	}

	r.agg.TotalRequests++
	if rec.Handler != "" {
		r.agg.HandlerCounts[rec.Handler]++
	}
	r.agg.StatusCounts[rec.Status]++
	if rec.Status == 403 {
		r.agg.RejectedOrigin++
	}
}

// Snapshot returns a read-consistent copy, newest records first.
func (r *Recorder) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg := r.agg
	agg.HandlerCounts = make(map[string]int64, len(r.agg.HandlerCounts))
	for k, v := range r.agg.HandlerCounts {
		agg.HandlerCounts[k] = v
	}
	agg.StatusCounts = make(map[int]int64, len(r.agg.StatusCounts))
	for k, v := range r.agg.StatusCounts {
		agg.StatusCounts[k] = v
	}

	recent := make([]RequestRecord, 0, r.ringCount)
	for i := 0; i < r.ringCount; i++ {
		idx := (r.ringPos - 1 - i + ringBufferSize) % ringBufferSize
		recent = append(recent, r.ring[idx])
	}

	return Snapshot{Aggregates: agg, Recent: recent}
}
