package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks record processing counters. All methods are safe for
// concurrent use.
type Metrics struct {
	// Record timing
	recordCount   atomic.Uint64
	recordTotalNs atomic.Int64
	recordMinNs   atomic.Int64
	recordMaxNs   atomic.Int64
	lastRecordNs  atomic.Int64

	// Record content
	charCount atomic.Uint64
	byteCount atomic.Uint64

	// Outcomes
	skipped atomic.Uint64
	failed  atomic.Uint64

	// Script runs
	scriptRuns   atomic.Uint64
	scriptFailed atomic.Uint64

	startTime atomic.Int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.Reset()
	return m
}

// RecordProcessed records one record of chars characters and bytes
// encoded bytes that took duration to process.
func (m *Metrics) RecordProcessed(duration time.Duration, chars, bytes int) {
	ns := duration.Nanoseconds()

	m.recordCount.Add(1)
	m.recordTotalNs.Add(ns)
	m.lastRecordNs.Store(ns)
	m.charCount.Add(uint64(chars))
	m.byteCount.Add(uint64(bytes))

	// Update min (atomic compare-and-swap loop)
	for {
		old := m.recordMinNs.Load()
		if ns >= old {
			break
		}
		if m.recordMinNs.CompareAndSwap(old, ns) {
			break
		}
	}

	// Update max (atomic compare-and-swap loop)
	for {
		old := m.recordMaxNs.Load()
		if ns <= old {
			break
		}
		if m.recordMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// RecordSkipped records a record the operation chose not to emit.
func (m *Metrics) RecordSkipped() {
	m.skipped.Add(1)
}

// RecordFailed records a record whose operation returned an error.
func (m *Metrics) RecordFailed() {
	m.failed.Add(1)
}

// RecordScriptRun records one script execution and whether it failed.
func (m *Metrics) RecordScriptRun(err error) {
	m.scriptRuns.Add(1)
	if err != nil {
		m.scriptFailed.Add(1)
	}
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	count := m.recordCount.Load()

	var avgNs int64
	if count > 0 {
		avgNs = m.recordTotalNs.Load() / int64(count)
	}

	minNs := m.recordMinNs.Load()
	if minNs == 1<<63-1 {
		minNs = 0
	}

	return MetricsSnapshot{
		Uptime:          time.Since(time.Unix(0, m.startTime.Load())),
		RecordCount:     count,
		AvgRecordTimeNs: avgNs,
		MinRecordTimeNs: minNs,
		MaxRecordTimeNs: m.recordMaxNs.Load(),
		LastRecordNs:    m.lastRecordNs.Load(),
		Chars:           m.charCount.Load(),
		Bytes:           m.byteCount.Load(),
		Skipped:         m.skipped.Load(),
		Failed:          m.failed.Load(),
		ScriptRuns:      m.scriptRuns.Load(),
		ScriptFailed:    m.scriptFailed.Load(),
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.recordCount.Store(0)
	m.recordTotalNs.Store(0)
	m.recordMinNs.Store(1<<63 - 1)
	m.recordMaxNs.Store(0)
	m.lastRecordNs.Store(0)
	m.charCount.Store(0)
	m.byteCount.Store(0)
	m.skipped.Store(0)
	m.failed.Store(0)
	m.scriptRuns.Store(0)
	m.scriptFailed.Store(0)
	m.startTime.Store(time.Now().UnixNano())
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	Uptime          time.Duration
	RecordCount     uint64
	AvgRecordTimeNs int64
	MinRecordTimeNs int64
	MaxRecordTimeNs int64
	LastRecordNs    int64
	Chars           uint64
	Bytes           uint64
	Skipped         uint64
	Failed          uint64
	ScriptRuns      uint64
	ScriptFailed    uint64
}

// RecordsPerSecond returns the average processing rate.
func (s MetricsSnapshot) RecordsPerSecond() float64 {
	if s.AvgRecordTimeNs == 0 {
		return 0
	}
	return 1e9 / float64(s.AvgRecordTimeNs)
}

// FailureRate returns the percentage of records that failed.
func (s MetricsSnapshot) FailureRate() float64 {
	total := s.RecordCount + s.Failed
	if total == 0 {
		return 0
	}
	return float64(s.Failed) / float64(total) * 100
}

// BytesPerChar returns the mean encoded size of a character.
func (s MetricsSnapshot) BytesPerChar() float64 {
	if s.Chars == 0 {
		return 0
	}
	return float64(s.Bytes) / float64(s.Chars)
}

// Timer provides a simple way to measure elapsed time.
type Timer struct {
	start time.Time
}

// StartTimer creates a new timer.
func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the elapsed time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ElapsedMs returns the elapsed time in milliseconds.
func (t *Timer) ElapsedMs() float64 {
	return float64(t.Elapsed().Nanoseconds()) / 1e6
}

// Stop returns the elapsed time and resets the timer.
func (t *Timer) Stop() time.Duration {
	elapsed := t.Elapsed()
	t.start = time.Now()
	return elapsed
}
