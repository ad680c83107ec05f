package primeshield

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordBatch is called for each ordered prime batch released by the
	// sieve. count is the number of primes in the batch.
	RecordBatch(count int, duration time.Duration)

	// RecordEvaluation is called after an evaluator finishes a batch of
	// consecutive pairs. pairs is the number evaluated, successes how
	// many had a prime reduced sum.
	RecordEvaluation(pairs, successes int)

	// RecordRun is called once at the end of a run.
	// err is nil if the run completed.
	RecordRun(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBatch(int, time.Duration) {}
func (NoopMetricsCollector) RecordEvaluation(int, int)      {}
func (NoopMetricsCollector) RecordRun(time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BatchCount      atomic.Int64
	BatchPrimes     atomic.Int64
	BatchTotalNanos atomic.Int64
	PairCount       atomic.Int64
	SuccessCount    atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count int, duration time.Duration) {
	b.BatchCount.Add(1)
	b.BatchPrimes.Add(int64(count))
	b.BatchTotalNanos.Add(duration.Nanoseconds())
}

// RecordEvaluation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluation(pairs, successes int) {
	b.PairCount.Add(int64(pairs))
	b.SuccessCount.Add(int64(successes))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BatchCount:    b.BatchCount.Load(),
		BatchPrimes:   b.BatchPrimes.Load(),
		BatchAvgNanos: b.getAvgBatchNanos(),
		PairCount:     b.PairCount.Load(),
		SuccessCount:  b.SuccessCount.Load(),
		RunCount:      b.RunCount.Load(),
		RunErrors:     b.RunErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgBatchNanos() int64 {
	count := b.BatchCount.Load()
	if count == 0 {
		return 0
	}
	return b.BatchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BatchCount    int64
	BatchPrimes   int64
	BatchAvgNanos int64
	PairCount     int64
	SuccessCount  int64
	RunCount      int64
	RunErrors     int64
}
