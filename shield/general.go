package shield

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrGeneralOverflow is returned when the requested term count pushes the
// ratchet past the uint64 range.
var ErrGeneralOverflow = errors.New("shield general sequence exceeds uint64 range")

// Generals returns the first n terms of the Shield General sequence: for
// each k, the smallest even G with G == 1 (mod 3) and G == q-1 (mod q)
// for every prime q from 5 through the k-th shielded prime, i.e. the
// smallest gap shielded from every one of those primes. The sequence
// begins 4, 4, 34, 1924, 25024, 85084.
//
// The search ratchets: candidates for term k+1 step by the product of the
// primes shielded so far, which preserves every earlier congruence, so
// each term is found in at most 2p steps instead of a fresh scan.
func Generals(n int) ([]uint64, error) {
	if n < 1 {
		return nil, nil
	}

	const first = 4 // even, 4 mod 3 == 1

	var (
		general  = uint64(first)
		cycle    = uint64(3)
		shielded = []uint64{3}
		results  = []uint64{first}
		p        = uint64(3)
	)

	if err := validateGeneral(general, shielded); err != nil {
		return nil, err
	}

	for len(results) < n {
		p = nextPrime(p)

		for k := uint64(0); ; k++ {
			hi, step := bits.Mul64(k, cycle)
			if hi != 0 {
				return nil, ErrGeneralOverflow
			}
			candidate, carry := bits.Add64(general, step, 0)
			if carry != 0 {
				return nil, ErrGeneralOverflow
			}

			if candidate%p == p-1 && candidate%2 == 0 {
				general = candidate
				break
			}
		}

		shielded = append(shielded, p)
		if err := validateGeneral(general, shielded); err != nil {
			return nil, err
		}
		results = append(results, general)

		hi, next := bits.Mul64(cycle, p)
		if hi != 0 && len(results) < n {
			return nil, ErrGeneralOverflow
		}
		cycle = next
	}

	return results, nil
}

// validateGeneral forward-checks a term against every shielded prime.
// A failure here is an internal inconsistency, never user error.
func validateGeneral(g uint64, shielded []uint64) error {
	if g%2 != 0 {
		return fmt.Errorf("shield general %d is odd", g)
	}
	for _, p := range shielded {
		switch {
		case p == 3:
			if g%3 != 1 {
				return fmt.Errorf("shield general %d has residue %d mod 3", g, g%3)
			}
		case p >= 5:
			if rem := g % p; rem != p-1 {
				return fmt.Errorf("shield general %d has residue %d mod %d", g, rem, p)
			}
		}
	}
	return nil
}

// nextPrime returns the smallest prime greater than p. Trial division is
// plenty here: the ratchet overflows uint64 long before p reaches 60.
func nextPrime(p uint64) uint64 {
	for n := p + 1; ; n++ {
		if isSmallPrime(n) {
			return n
		}
	}
}

func isSmallPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}
