package shield

import (
	"math/big"
	"sync"
)

// Profile is the shielding classification of one gap value. It is a pure
// function of the gap and the classifier's small-prime list: identical
// across runs and configurations.
type Profile struct {
	// Gap is the classified gap value.
	Gap uint64

	// Primes are the small primes the gap is shielded from, ascending.
	Primes []uint64

	// Boost is the theoretical success-rate multiplier, the product of
	// q/(q-1) over Primes, as a float for reporting.
	Boost float64

	// BoostRat is the same product as an exact rational.
	BoostRat *big.Rat
}

// Score returns the number of shielded primes.
func (p Profile) Score() int { return len(p.Primes) }

// Classifier memoizes gap classifications against a fixed small-prime
// list. Safe for concurrent use; the same gap recurs for every occurrence
// in the spectrum, so lookups dominate.
type Classifier struct {
	primes []uint64

	mu    sync.RWMutex
	cache map[uint64]Profile
}

// NewClassifier creates a Classifier over the given ascending odd
// small-prime list (see sieve.ShieldPrimes).
func NewClassifier(smallPrimes []uint64) *Classifier {
	return &Classifier{
		primes: smallPrimes,
		cache:  make(map[uint64]Profile),
	}
}

// Classify returns the shield profile of gap g:
//
//   - g is shielded from 3 iff g mod 3 == 1;
//   - g is shielded from q >= 5 iff g mod q == q-1.
func (c *Classifier) Classify(g uint64) Profile {
	c.mu.RLock()
	p, ok := c.cache[g]
	c.mu.RUnlock()
	if ok {
		return p
	}

	p = classify(g, c.primes)

	c.mu.Lock()
	c.cache[g] = p
	c.mu.Unlock()
	return p
}

func classify(g uint64, smallPrimes []uint64) Profile {
	p := Profile{
		Gap:      g,
		BoostRat: big.NewRat(1, 1),
	}

	for _, q := range smallPrimes {
		var shielded bool
		switch {
		case q < 3:
			continue
		case q == 3:
			shielded = g%3 == 1
		default:
			shielded = g%q == q-1
		}
		if !shielded {
			continue
		}

		p.Primes = append(p.Primes, q)
		p.BoostRat.Mul(p.BoostRat, new(big.Rat).SetFrac64(int64(q), int64(q-1)))
	}

	p.Boost, _ = p.BoostRat.Float64()
	return p
}
