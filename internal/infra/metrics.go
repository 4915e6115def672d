package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	tradesProcessed   atomic.Uint64
	quotesIssued      atomic.Uint64
	regimeTransitions atomic.Uint64
	feeClamps         atomic.Uint64
	feedDrops         atomic.Uint64
	feedReconnects    atomic.Uint64

	// Latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	activeConnections atomic.Int32
	trackedPools      atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTrade records one processed trade with its processing latency.
func (m *Metrics) RecordTrade(latencyNs int64) {
	m.tradesProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordQuote records one issued fee quote.
func (m *Metrics) RecordQuote() {
	m.quotesIssued.Add(1)
}

// RecordRegimeTransition records a regime change on some pool.
func (m *Metrics) RecordRegimeTransition() {
	m.regimeTransitions.Add(1)
}

// RecordFeeClamp records a quote side that hit the global fee bounds.
func (m *Metrics) RecordFeeClamp() {
	m.feeClamps.Add(1)
}

// RecordFeedDrop records an event dropped because the inbox was full.
func (m *Metrics) RecordFeedDrop() {
	m.feedDrops.Add(1)
}

// RecordFeedReconnect records a feed reconnection attempt.
func (m *Metrics) RecordFeedReconnect() {
	m.feedReconnects.Add(1)
}

// SetActiveConnections sets the current active connection count.
func (m *Metrics) SetActiveConnections(count int32) {
	m.activeConnections.Store(count)
}

// SetTrackedPools sets the number of pools the sequencer currently tracks.
func (m *Metrics) SetTrackedPools(count int32) {
	m.trackedPools.Store(count)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TradesProcessed   uint64
	QuotesIssued      uint64
	RegimeTransitions uint64
	FeeClamps         uint64
	FeedDrops         uint64
	FeedReconnects    uint64
	AvgLatencyNs      int64
	ActiveConnections int32
	TrackedPools      int32
	Timestamp         time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TradesProcessed:   m.tradesProcessed.Load(),
		QuotesIssued:      m.quotesIssued.Load(),
		RegimeTransitions: m.regimeTransitions.Load(),
		FeeClamps:         m.feeClamps.Load(),
		FeedDrops:         m.feedDrops.Load(),
		FeedReconnects:    m.feedReconnects.Load(),
		AvgLatencyNs:      avgLatency,
		ActiveConnections: m.activeConnections.Load(),
		TrackedPools:      m.trackedPools.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.tradesProcessed.Store(0)
	m.quotesIssued.Store(0)
	m.regimeTransitions.Store(0)
	m.feeClamps.Store(0)
	m.feedDrops.Store(0)
	m.feedReconnects.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.activeConnections.Store(0)
	m.trackedPools.Store(0)
}
