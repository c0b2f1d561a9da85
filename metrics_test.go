package ioring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsStartsClock(t *testing.T) {
	m := NewMetrics()
	assert.NotZero(t, m.StartTime.Load())
}

func TestObserveIncrementsPerOpcodeCounter(t *testing.T) {
	m := NewMetrics()
	m.ObserveOpen(1_000, true)
	m.ObserveOpen(2_000, true)
	m.ObserveRead(500, false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.OpenOps)
	assert.Equal(t, uint64(1), snap.ReadOps)
	assert.Equal(t, uint64(0), snap.WriteOps)
	assert.Equal(t, uint64(3), snap.TotalOps)
}

func TestObserveFailureIncrementsCompletionErrors(t *testing.T) {
	m := NewMetrics()
	m.ObserveRead(100, true)
	m.ObserveRead(100, false)
	m.ObserveWrite(100, false)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.CompletionErrors)
	assert.InDelta(t, 66.67, snap.ErrorRate, 0.1)
}

func TestObserveQueueDepthTracksMax(t *testing.T) {
	m := NewMetrics()
	m.ObserveQueueDepth(3)
	m.ObserveQueueDepth(9)
	m.ObserveQueueDepth(5)

	snap := m.Snapshot()
	assert.Equal(t, uint32(9), snap.MaxQueueDepth)
	assert.InDelta(t, float64(17)/3.0, snap.AvgQueueDepth, 0.001)
}

func TestSnapshotAvgLatency(t *testing.T) {
	m := NewMetrics()
	m.ObserveNoop(1_000, true)
	m.ObserveNoop(3_000, true)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2_000), snap.AvgLatencyNs)
}

func TestSnapshotLatencyHistogramBucketsCumulative(t *testing.T) {
	m := NewMetrics()
	m.ObserveNoop(500, true)     // falls in every bucket >= 1us
	m.ObserveNoop(50_000, true)  // falls in buckets >= 100us

	snap := m.Snapshot()
	require.Len(t, snap.LatencyHistogram, 8)
	assert.Equal(t, uint64(1), snap.LatencyHistogram[0])
	assert.Equal(t, uint64(2), snap.LatencyHistogram[2])
}

func TestResetZeroesCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveOpen(100, true)
	m.ObserveQueueDepth(4)
	m.Reset()

	snap := m.Snapshot()
	assert.Zero(t, snap.OpenOps)
	assert.Zero(t, snap.MaxQueueDepth)
	assert.Zero(t, snap.TotalOps)
}

func TestStopFixesUptime(t *testing.T) {
	m := NewMetrics()
	m.Stop()
	snap1 := m.Snapshot()
	snap2 := m.Snapshot()
	assert.Equal(t, snap1.UptimeNs, snap2.UptimeNs)
}

func TestMetricsObserverDelegatesToMetrics(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)
	obs.ObserveAccept(10, true)
	obs.ObserveQueueDepth(2)

	snap := m.Snapshot()
	assert.Equal(t, uint64(1), snap.AcceptOps)
	assert.Equal(t, uint32(2), snap.MaxQueueDepth)
}

func TestNoOpObserverDoesNothing(t *testing.T) {
	var obs Observer = NoOpObserver{}
	obs.ObserveCancel(100, false)
	obs.ObserveQueueDepth(99)
}
