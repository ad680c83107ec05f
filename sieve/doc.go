// Package sieve generates consecutive primes up to a configurable bound
// with a memory-bounded, parallel segmented sieve.
//
// The range [2, N] is tiled into fixed-size segments of odd candidates.
// A fixed pool of workers claims segment indexes from a shared cursor,
// sieves each segment against the precomputed base primes, and hands the
// surviving primes to a reorder buffer that releases batches strictly in
// segment order. Downstream consumers therefore observe one globally
// increasing prime stream regardless of the parallelism degree.
//
// The package also provides a deterministic primality test exact for all
// 64-bit inputs below 3.3e24, used to classify prime-pair sums in the hot
// loop without touching sieve state.
package sieve
