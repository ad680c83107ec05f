package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPrime_Small(t *testing.T) {
	reference := BasePrimes(10000)
	isPrime := make(map[uint64]bool, len(reference))
	for _, p := range reference {
		isPrime[p] = true
	}

	for n := uint64(0); n <= 10000; n++ {
		assert.Equal(t, isPrime[n], IsPrime(n), "n=%d", n)
	}
}

func TestIsPrime_LargePrimes(t *testing.T) {
	for _, n := range []uint64{
		1000003,
		2147483647, // 2^31 - 1
		4294967291, // largest prime below 2^32
	} {
		assert.True(t, IsPrime(n), "n=%d", n)
	}
}

func TestIsPrime_LargeComposites(t *testing.T) {
	for _, n := range []uint64{
		3215031751,  // smallest strong pseudoprime to bases 2,3,5,7
		25326001,    // strong pseudoprime to bases 2,3,5
		9998200081,  // 99991^2
		10002200057, // 100003 * 100019, both factors above the trial set
		10000000000, // 10^10
	} {
		assert.False(t, IsPrime(n), "n=%d", n)
	}
}

// The witness loop must agree with trial division across a window of
// values in the range where pair sums actually land.
func TestIsPrime_CrossCheckWindow(t *testing.T) {
	trialDivide := func(n uint64) bool {
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

	const start = uint64(19999900000)
	for n := start; n < start+2000; n++ {
		assert.Equal(t, trialDivide(n), IsPrime(n), "n=%d", n)
	}
}
