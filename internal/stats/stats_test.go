package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderOrdersNewestFirst(t *testing.T) {
	r := NewRecorder()
	r.Record(RequestRecord{Handler: "claude", Status: 200})
	r.Record(RequestRecord{Handler: "track-order", Status: 404})
	r.Record(RequestRecord{Handler: "track-order", Status: 403})

	snap := r.Snapshot()
	require.Len(t, snap.Recent, 3)
	assert.Equal(t, 403, snap.Recent[0].Status)
	assert.Equal(t, 200, snap.Recent[2].Status)

	assert.Equal(t, int64(3), snap.Aggregates.TotalRequests)
	assert.Equal(t, int64(2), snap.Aggregates.HandlerCounts["track-order"])
	assert.Equal(t, int64(1), snap.Aggregates.RejectedOrigin)
}

func TestRecorderWrapsRing(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < ringBufferSize+10; i++ {
		r.Record(RequestRecord{Handler: "claude", Status: 200, LatencyMs: int64(i)})
	}

	snap := r.Snapshot()
	require.Len(t, snap.Recent, ringBufferSize)
	assert.Equal(t, int64(ringBufferSize+9), snap.Recent[0].LatencyMs)
	assert.Equal(t, int64(10), snap.Recent[ringBufferSize-1].LatencyMs)
	assert.Equal(t, int64(ringBufferSize+10), snap.Aggregates.TotalRequests)
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.Record(RequestRecord{Handler: "claude", Status: 200})

	snap := r.Snapshot()
	snap.Aggregates.HandlerCounts["claude"] = 99

	assert.Equal(t, int64(1), r.Snapshot().Aggregates.HandlerCounts["claude"])
}
