// Package bitset provides a dense, fixed-size bitset used as the
// composite-marking surface of one sieve segment.
//
// Unlike a general-purpose concurrent bitset, this one is deliberately
// unsynchronized: a segment is owned by exactly one worker for its entire
// lifetime, so every operation is a plain load or store.
package bitset
