package ioring

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the latency histogram buckets in nanoseconds.
// Buckets cover from 1us to 10s with logarithmic spacing.
var LatencyBuckets = []uint64{
	1_000,          // 1us
	10_000,         // 10us
	100_000,        // 100us
	1_000_000,      // 1ms
	10_000_000,     // 10ms
	100_000_000,    // 100ms
	1_000_000_000,  // 1s
	10_000_000_000, // 10s
}

const numLatencyBuckets = 8

// Metrics tracks per-opcode completion counts and completion latency for a
// Coordinator.
type Metrics struct {
	NoopOps    atomic.Uint64
	OpenOps    atomic.Uint64
	CloseOps   atomic.Uint64
	ReadOps    atomic.Uint64
	WriteOps   atomic.Uint64
	ReadvOps   atomic.Uint64
	WritevOps  atomic.Uint64
	PollOps    atomic.Uint64
	SpliceOps  atomic.Uint64
	ConnectOps atomic.Uint64
	AcceptOps  atomic.Uint64
	CancelOps  atomic.Uint64

	// Completions with a negative result, summed across all opcodes.
	CompletionErrors atomic.Uint64

	// Queue statistics.
	QueueDepthTotal atomic.Uint64
	QueueDepthCount atomic.Uint64
	MaxQueueDepth   atomic.Uint32

	// Completion latency: time from submission to reap.
	TotalLatencyNs atomic.Uint64
	OpCount        atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// recordOp bumps the counter for opcode and records completion latency.
func (m *Metrics) recordOp(counter *atomic.Uint64, latencyNs uint64, success bool) {
	counter.Add(1)
	if !success {
		m.CompletionErrors.Add(1)
	}
	m.recordLatency(latencyNs)
}

func (m *Metrics) ObserveNoop(latencyNs uint64, success bool)    { m.recordOp(&m.NoopOps, latencyNs, success) }
func (m *Metrics) ObserveOpen(latencyNs uint64, success bool)    { m.recordOp(&m.OpenOps, latencyNs, success) }
func (m *Metrics) ObserveClose(latencyNs uint64, success bool)   { m.recordOp(&m.CloseOps, latencyNs, success) }
func (m *Metrics) ObserveRead(latencyNs uint64, success bool)    { m.recordOp(&m.ReadOps, latencyNs, success) }
func (m *Metrics) ObserveWrite(latencyNs uint64, success bool)   { m.recordOp(&m.WriteOps, latencyNs, success) }
func (m *Metrics) ObserveReadv(latencyNs uint64, success bool)   { m.recordOp(&m.ReadvOps, latencyNs, success) }
func (m *Metrics) ObserveWritev(latencyNs uint64, success bool)  { m.recordOp(&m.WritevOps, latencyNs, success) }
func (m *Metrics) ObservePoll(latencyNs uint64, success bool)    { m.recordOp(&m.PollOps, latencyNs, success) }
func (m *Metrics) ObserveSplice(latencyNs uint64, success bool)  { m.recordOp(&m.SpliceOps, latencyNs, success) }
func (m *Metrics) ObserveConnect(latencyNs uint64, success bool) { m.recordOp(&m.ConnectOps, latencyNs, success) }
func (m *Metrics) ObserveAccept(latencyNs uint64, success bool)  { m.recordOp(&m.AcceptOps, latencyNs, success) }
func (m *Metrics) ObserveCancel(latencyNs uint64, success bool)  { m.recordOp(&m.CancelOps, latencyNs, success) }

// ObserveQueueDepth records the number of in-flight operations (live slots)
// at submission time.
func (m *Metrics) ObserveQueueDepth(depth uint32) {
	m.QueueDepthTotal.Add(uint64(depth))
	m.QueueDepthCount.Add(1)

	for {
		current := m.MaxQueueDepth.Load()
		if depth <= current {
			break
		}
		if m.MaxQueueDepth.CompareAndSwap(current, depth) {
			break
		}
	}
}

func (m *Metrics) recordLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.OpCount.Add(1)

	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// Stop marks the coordinator as torn down, fixing the uptime window used by
// rate calculations in Snapshot.
func (m *Metrics) Stop() {
	m.StopTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time, race-free copy of Metrics.
type MetricsSnapshot struct {
	NoopOps    uint64
	OpenOps    uint64
	CloseOps   uint64
	ReadOps    uint64
	WriteOps   uint64
	ReadvOps   uint64
	WritevOps  uint64
	PollOps    uint64
	SpliceOps  uint64
	ConnectOps uint64
	AcceptOps  uint64
	CancelOps  uint64

	CompletionErrors uint64

	AvgQueueDepth float64
	MaxQueueDepth uint32

	AvgLatencyNs uint64
	UptimeNs     uint64

	LatencyP50Ns  uint64
	LatencyP99Ns  uint64
	LatencyP999Ns uint64

	LatencyHistogram [numLatencyBuckets]uint64

	TotalOps  uint64
	ErrorRate float64
}

// Snapshot creates a point-in-time snapshot of metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		NoopOps:          m.NoopOps.Load(),
		OpenOps:          m.OpenOps.Load(),
		CloseOps:         m.CloseOps.Load(),
		ReadOps:          m.ReadOps.Load(),
		WriteOps:         m.WriteOps.Load(),
		ReadvOps:         m.ReadvOps.Load(),
		WritevOps:        m.WritevOps.Load(),
		PollOps:          m.PollOps.Load(),
		SpliceOps:        m.SpliceOps.Load(),
		ConnectOps:       m.ConnectOps.Load(),
		AcceptOps:        m.AcceptOps.Load(),
		CancelOps:        m.CancelOps.Load(),
		CompletionErrors: m.CompletionErrors.Load(),
		MaxQueueDepth:    m.MaxQueueDepth.Load(),
	}

	snap.TotalOps = snap.NoopOps + snap.OpenOps + snap.CloseOps + snap.ReadOps +
		snap.WriteOps + snap.ReadvOps + snap.WritevOps + snap.PollOps +
		snap.SpliceOps + snap.ConnectOps + snap.AcceptOps + snap.CancelOps

	queueDepthTotal := m.QueueDepthTotal.Load()
	queueDepthCount := m.QueueDepthCount.Load()
	if queueDepthCount > 0 {
		snap.AvgQueueDepth = float64(queueDepthTotal) / float64(queueDepthCount)
	}

	totalLatencyNs := m.TotalLatencyNs.Load()
	opCount := m.OpCount.Load()
	if opCount > 0 {
		snap.AvgLatencyNs = totalLatencyNs / opCount
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}

	if snap.TotalOps > 0 {
		snap.ErrorRate = float64(snap.CompletionErrors) / float64(snap.TotalOps) * 100.0
	}

	for i := 0; i < numLatencyBuckets; i++ {
		snap.LatencyHistogram[i] = m.LatencyBuckets[i].Load()
	}

	if opCount > 0 {
		snap.LatencyP50Ns = m.calculatePercentile(0.50)
		snap.LatencyP99Ns = m.calculatePercentile(0.99)
		snap.LatencyP999Ns = m.calculatePercentile(0.999)
	}

	return snap
}

// calculatePercentile estimates the latency at the given percentile (0.0-1.0)
// using linear interpolation between histogram buckets.
func (m *Metrics) calculatePercentile(percentile float64) uint64 {
	totalOps := m.OpCount.Load()
	if totalOps == 0 {
		return 0
	}

	targetCount := uint64(float64(totalOps) * percentile)

	prevBucket := uint64(0)
	for i, bucket := range LatencyBuckets {
		bucketCount := m.LatencyBuckets[i].Load()
		if bucketCount >= targetCount {
			prevCount := uint64(0)
			if i > 0 {
				prevCount = m.LatencyBuckets[i-1].Load()
			}
			if bucketCount == prevCount {
				return bucket
			}
			fraction := float64(targetCount-prevCount) / float64(bucketCount-prevCount)
			return prevBucket + uint64(fraction*float64(bucket-prevBucket))
		}
		prevBucket = bucket
	}

	return LatencyBuckets[numLatencyBuckets-1]
}

// Reset resets all metrics counters. Useful for testing.
func (m *Metrics) Reset() {
	m.NoopOps.Store(0)
	m.OpenOps.Store(0)
	m.CloseOps.Store(0)
	m.ReadOps.Store(0)
	m.WriteOps.Store(0)
	m.ReadvOps.Store(0)
	m.WritevOps.Store(0)
	m.PollOps.Store(0)
	m.SpliceOps.Store(0)
	m.ConnectOps.Store(0)
	m.AcceptOps.Store(0)
	m.CancelOps.Store(0)
	m.CompletionErrors.Store(0)
	m.QueueDepthTotal.Store(0)
	m.QueueDepthCount.Store(0)
	m.MaxQueueDepth.Store(0)
	m.TotalLatencyNs.Store(0)
	m.OpCount.Store(0)
	for i := 0; i < numLatencyBuckets; i++ {
		m.LatencyBuckets[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// Observer allows pluggable instrumentation of coordinator activity. Each
// per-opcode Observe method is called once per completion, after the slot
// backing it has been freed; ObserveQueueDepth is called once per accepted
// submission.
type Observer interface {
	ObserveNoop(latencyNs uint64, success bool)
	ObserveOpen(latencyNs uint64, success bool)
	ObserveClose(latencyNs uint64, success bool)
	ObserveRead(latencyNs uint64, success bool)
	ObserveWrite(latencyNs uint64, success bool)
	ObserveReadv(latencyNs uint64, success bool)
	ObserveWritev(latencyNs uint64, success bool)
	ObservePoll(latencyNs uint64, success bool)
	ObserveSplice(latencyNs uint64, success bool)
	ObserveConnect(latencyNs uint64, success bool)
	ObserveAccept(latencyNs uint64, success bool)
	ObserveCancel(latencyNs uint64, success bool)
	ObserveQueueDepth(depth uint32)
}

// NoOpObserver is a no-op implementation of Observer, the default when
// Params.Observer is nil.
type NoOpObserver struct{}

func (NoOpObserver) ObserveNoop(uint64, bool)    {}
func (NoOpObserver) ObserveOpen(uint64, bool)    {}
func (NoOpObserver) ObserveClose(uint64, bool)   {}
func (NoOpObserver) ObserveRead(uint64, bool)    {}
func (NoOpObserver) ObserveWrite(uint64, bool)   {}
func (NoOpObserver) ObserveReadv(uint64, bool)   {}
func (NoOpObserver) ObserveWritev(uint64, bool)  {}
func (NoOpObserver) ObservePoll(uint64, bool)    {}
func (NoOpObserver) ObserveSplice(uint64, bool)  {}
func (NoOpObserver) ObserveConnect(uint64, bool) {}
func (NoOpObserver) ObserveAccept(uint64, bool)  {}
func (NoOpObserver) ObserveCancel(uint64, bool)  {}
func (NoOpObserver) ObserveQueueDepth(uint32)    {}

// MetricsObserver implements Observer by recording into a *Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver creates an observer that records to the given metrics.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveNoop(latencyNs uint64, success bool) {
	o.metrics.ObserveNoop(latencyNs, success)
}
func (o *MetricsObserver) ObserveOpen(latencyNs uint64, success bool) {
	o.metrics.ObserveOpen(latencyNs, success)
}
func (o *MetricsObserver) ObserveClose(latencyNs uint64, success bool) {
	o.metrics.ObserveClose(latencyNs, success)
}
func (o *MetricsObserver) ObserveRead(latencyNs uint64, success bool) {
	o.metrics.ObserveRead(latencyNs, success)
}
func (o *MetricsObserver) ObserveWrite(latencyNs uint64, success bool) {
	o.metrics.ObserveWrite(latencyNs, success)
}
func (o *MetricsObserver) ObserveReadv(latencyNs uint64, success bool) {
	o.metrics.ObserveReadv(latencyNs, success)
}
func (o *MetricsObserver) ObserveWritev(latencyNs uint64, success bool) {
	o.metrics.ObserveWritev(latencyNs, success)
}
func (o *MetricsObserver) ObservePoll(latencyNs uint64, success bool) {
	o.metrics.ObservePoll(latencyNs, success)
}
func (o *MetricsObserver) ObserveSplice(latencyNs uint64, success bool) {
	o.metrics.ObserveSplice(latencyNs, success)
}
func (o *MetricsObserver) ObserveConnect(latencyNs uint64, success bool) {
	o.metrics.ObserveConnect(latencyNs, success)
}
func (o *MetricsObserver) ObserveAccept(latencyNs uint64, success bool) {
	o.metrics.ObserveAccept(latencyNs, success)
}
func (o *MetricsObserver) ObserveCancel(latencyNs uint64, success bool) {
	o.metrics.ObserveCancel(latencyNs, success)
}
func (o *MetricsObserver) ObserveQueueDepth(depth uint32) {
	o.metrics.ObserveQueueDepth(depth)
}

var _ Observer = (*MetricsObserver)(nil)
var _ Observer = (*NoOpObserver)(nil)
