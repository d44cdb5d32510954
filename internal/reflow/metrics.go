package reflow

import (
	"sync/atomic"
	"time"
)

// Metrics tracks formatting activity across passes. All counters are
// atomic; Snapshot gives a consistent-enough view for logging and the
// shutdown summary.
type Metrics struct {
	passCount   atomic.Uint64
	passTotalNs atomic.Int64
	passMaxNs   atomic.Int64
	lastPassNs  atomic.Int64

	blocksFormatted atomic.Uint64
	blocksSkipped   atomic.Uint64
	linesBroken     atomic.Uint64
	panics          atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordPass records one completed pass.
func (m *Metrics) RecordPass(d time.Duration, formatted, skipped int) {
	ns := d.Nanoseconds()

	m.passCount.Add(1)
	m.passTotalNs.Add(ns)
	m.lastPassNs.Store(ns)
	m.blocksFormatted.Add(uint64(formatted))
	m.blocksSkipped.Add(uint64(skipped))

	for {
		old := m.passMaxNs.Load()
		if ns <= old {
			break
		}
		if m.passMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordBreaks records line breaks inserted while formatting one block.
func (m *Metrics) RecordBreaks(n int) {
	if n > 0 {
		m.linesBroken.Add(uint64(n))
	}
}

// RecordPanic records a recovered per-block formatting panic.
func (m *Metrics) RecordPanic() {
	m.panics.Add(1)
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	passCount := m.passCount.Load()

	var avgPassNs int64
	if passCount > 0 {
		avgPassNs = m.passTotalNs.Load() / int64(passCount)
	}

	return MetricsSnapshot{
		Uptime:          time.Since(m.startTime),
		PassCount:       passCount,
		AvgPassNs:       avgPassNs,
		MaxPassNs:       m.passMaxNs.Load(),
		LastPassNs:      m.lastPassNs.Load(),
		BlocksFormatted: m.blocksFormatted.Load(),
		BlocksSkipped:   m.blocksSkipped.Load(),
		LinesBroken:     m.linesBroken.Load(),
		Panics:          m.panics.Load(),
	}
}

// MetricsSnapshot is a point-in-time view of pass metrics.
type MetricsSnapshot struct {
	Uptime          time.Duration
	PassCount       uint64
	AvgPassNs       int64
	MaxPassNs       int64
	LastPassNs      int64
	BlocksFormatted uint64
	BlocksSkipped   uint64
	LinesBroken     uint64
	Panics          uint64
}

// AvgPassMs returns the average pass duration in milliseconds.
func (s MetricsSnapshot) AvgPassMs() float64 {
	return float64(s.AvgPassNs) / 1e6
}
