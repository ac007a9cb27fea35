package qsimgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordGate is called after each gate application.
	// duration is the time taken, err is nil if successful.
	RecordGate(duration time.Duration, err error)

	// RecordMeasure is called after each projective measurement.
	RecordMeasure(duration time.Duration, err error)

	// RecordExpectation is called after each expectation value evaluation.
	RecordExpectation(duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot save or load.
	// bytes is the encoded snapshot size.
	RecordSnapshot(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGate(time.Duration, error)          {}
func (NoopMetricsCollector) RecordMeasure(time.Duration, error)       {}
func (NoopMetricsCollector) RecordExpectation(time.Duration, error)   {}
func (NoopMetricsCollector) RecordSnapshot(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GateCount             atomic.Int64
	GateErrors            atomic.Int64
	GateTotalNanos        atomic.Int64
	MeasureCount          atomic.Int64
	MeasureErrors         atomic.Int64
	ExpectationCount      atomic.Int64
	ExpectationErrors     atomic.Int64
	ExpectationTotalNanos atomic.Int64
	SnapshotCount         atomic.Int64
	SnapshotErrors        atomic.Int64
	SnapshotBytes         atomic.Int64
}

// RecordGate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGate(duration time.Duration, err error) {
	b.GateCount.Add(1)
	b.GateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GateErrors.Add(1)
	}
}

// RecordMeasure implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMeasure(duration time.Duration, err error) {
	b.MeasureCount.Add(1)
	if err != nil {
		b.MeasureErrors.Add(1)
	}
}

// RecordExpectation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpectation(duration time.Duration, err error) {
	b.ExpectationCount.Add(1)
	b.ExpectationTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExpectationErrors.Add(1)
	}
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(bytes int, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotBytes.Add(int64(bytes))
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GateCount:         b.GateCount.Load(),
		GateErrors:        b.GateErrors.Load(),
		GateAvgNanos:      b.getAvgGateNanos(),
		MeasureCount:      b.MeasureCount.Load(),
		MeasureErrors:     b.MeasureErrors.Load(),
		ExpectationCount:  b.ExpectationCount.Load(),
		ExpectationErrors: b.ExpectationErrors.Load(),
		SnapshotCount:     b.SnapshotCount.Load(),
		SnapshotErrors:    b.SnapshotErrors.Load(),
		SnapshotBytes:     b.SnapshotBytes.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgGateNanos() int64 {
	count := b.GateCount.Load()
	if count == 0 {
		return 0
	}
	return b.GateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GateCount         int64
	GateErrors        int64
	GateAvgNanos      int64
	MeasureCount      int64
	MeasureErrors     int64
	ExpectationCount  int64
	ExpectationErrors int64
	SnapshotCount     int64
	SnapshotErrors    int64
	SnapshotBytes     int64
}
