package sieve

import "github.com/primeshield/primeshield/internal/bitset"

// segment is one half-open sub-range [lo, hi) of the sieve domain, with a
// bitset over its odd candidates. A set bit marks a composite. The segment
// is exclusively owned by the worker sieving it and discarded as soon as
// its primes are extracted.
type segment struct {
	index int
	lo    uint64 // odd, >= 5
	hi    uint64
	bits  *bitset.BitSet
}

func newSegment(index int, lo, hi uint64) *segment {
	return &segment{
		index: index,
		lo:    lo,
		hi:    hi,
		bits:  bitset.New((hi - lo + 1) / 2),
	}
}

// sieve marks every multiple of the base primes within the segment.
// For each odd prime q, marking starts at max(q^2, first odd multiple of
// q >= lo) and advances by 2q, staying on odd candidates throughout.
func (s *segment) sieve(basePrimes []uint64) {
	for _, q := range basePrimes {
		if q == 2 {
			continue // even numbers are not represented
		}
		if q*q >= s.hi {
			break
		}

		start := q * q
		if start < s.lo {
			start = (s.lo + q - 1) / q * q
			if start%2 == 0 {
				start += q
			}
		}

		for v := start; v < s.hi; v += 2 * q {
			s.bits.Set((v - s.lo) / 2)
		}
	}
}

// extract appends the surviving primes to dst in ascending order.
func (s *segment) extract(dst []uint64) []uint64 {
	s.bits.ForEachClear(func(i uint64) bool {
		dst = append(dst, s.lo+2*i)
		return true
	})
	return dst
}
