package solvmatch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Implementations must be safe for concurrent use: RecordCompoundSearch is
// called from every search worker.
type MetricsCollector interface {
	// RecordCompoundSearch is called after each compound has been searched.
	// pairs is the number of solvent pairs scored, compactions the number of
	// times the candidate buffer was truncated.
	RecordCompoundSearch(pairs, compactions int, duration time.Duration, err error)

	// RecordRatioResolution is called once per resolved (or failed) result row.
	RecordRatioResolution(err error)

	// RecordRun is called after each Match call.
	RecordRun(compounds, rows int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCompoundSearch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRatioResolution(error)                         {}
func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CompoundCount      atomic.Int64
	CompoundErrors     atomic.Int64
	CompoundTotalNanos atomic.Int64
	PairsScored        atomic.Int64
	Compactions        atomic.Int64
	RatioResolved      atomic.Int64
	RatioFailed        atomic.Int64
	RunCount           atomic.Int64
	RunErrors          atomic.Int64
	RowsEmitted        atomic.Int64
}

// RecordCompoundSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompoundSearch(pairs, compactions int, duration time.Duration, err error) {
	b.CompoundCount.Add(1)
	b.CompoundTotalNanos.Add(duration.Nanoseconds())
	b.PairsScored.Add(int64(pairs))
	b.Compactions.Add(int64(compactions))
	if err != nil {
		b.CompoundErrors.Add(1)
	}
}

// RecordRatioResolution implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRatioResolution(err error) {
	if err != nil {
		b.RatioFailed.Add(1)
		return
	}
	b.RatioResolved.Add(1)
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(compounds, rows int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RowsEmitted.Add(int64(rows))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CompoundCount:    b.CompoundCount.Load(),
		CompoundErrors:   b.CompoundErrors.Load(),
		CompoundAvgNanos: b.getAvgCompoundNanos(),
		PairsScored:      b.PairsScored.Load(),
		Compactions:      b.Compactions.Load(),
		RatioResolved:    b.RatioResolved.Load(),
		RatioFailed:      b.RatioFailed.Load(),
		RunCount:         b.RunCount.Load(),
		RunErrors:        b.RunErrors.Load(),
		RowsEmitted:      b.RowsEmitted.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgCompoundNanos() int64 {
	count := b.CompoundCount.Load()
	if count == 0 {
		return 0
	}
	return b.CompoundTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CompoundCount    int64
	CompoundErrors   int64
	CompoundAvgNanos int64
	PairsScored      int64
	Compactions      int64
	RatioResolved    int64
	RatioFailed      int64
	RunCount         int64
	RunErrors        int64
	RowsEmitted      int64
}
