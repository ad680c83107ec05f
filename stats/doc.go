// Package stats accumulates per-gap occurrence and success counts for
// consecutive prime pairs, plus binned time-series counters over the
// analysis range.
//
// The hot path writes only to worker-local tables; locals are merged by
// key-wise summation once all workers finish. Counts are therefore exact
// and the final table is identical for identical configuration regardless
// of worker count or scheduling.
package stats
