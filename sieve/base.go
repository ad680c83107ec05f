package sieve

import "math"

// minShieldPrime is the smallest prime the shield list must always reach.
const minShieldPrime = 13

// BasePrimes returns all primes <= limit in ascending order, computed with
// a classic single-threaded sieve. For segmented sieving the caller passes
// limit = floor(sqrt(N)), which stays around 1e5 even for N = 1e10.
func BasePrimes(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}

	composite := make([]bool, limit+1)
	var primes []uint64

	for i := uint64(2); i <= limit; i++ {
		if composite[i] {
			continue
		}
		primes = append(primes, i)
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}

	return primes
}

// ShieldPrimes returns the odd primes used for shield classification,
// covering at least every prime through 13 and extending through the
// requested maximum.
func ShieldPrimes(through uint64) []uint64 {
	if through < minShieldPrime {
		through = minShieldPrime
	}

	all := BasePrimes(through)
	if len(all) > 0 && all[0] == 2 {
		all = all[1:]
	}
	return all
}

// SqrtFloor returns floor(sqrt(n)) exactly.
func SqrtFloor(n uint64) uint64 {
	if n == 0 {
		return 0
	}

	r := uint64(math.Sqrt(float64(n)))
	// float64 rounding can land one off in either direction near
	// perfect squares; correct with integer comparisons.
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
