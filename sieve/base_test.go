package sieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasePrimes(t *testing.T) {
	assert.Nil(t, BasePrimes(0))
	assert.Nil(t, BasePrimes(1))
	assert.Equal(t, []uint64{2}, BasePrimes(2))
	assert.Equal(t, []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}, BasePrimes(30))

	primes := BasePrimes(100000)
	require.NotEmpty(t, primes)
	assert.Len(t, primes, 9592) // pi(1e5)
	assert.Equal(t, uint64(99991), primes[len(primes)-1])
}

func TestShieldPrimes(t *testing.T) {
	// Always at least through 13, and never includes 2.
	assert.Equal(t, []uint64{3, 5, 7, 11, 13}, ShieldPrimes(0))
	assert.Equal(t, []uint64{3, 5, 7, 11, 13}, ShieldPrimes(13))
	assert.Equal(t, []uint64{3, 5, 7, 11, 13, 17, 19}, ShieldPrimes(20))
}

func TestSqrtFloor(t *testing.T) {
	cases := map[uint64]uint64{
		0:             0,
		1:             1,
		3:             1,
		4:             2,
		99:            9,
		100:           10,
		101:           10,
		1e10:          100000,
		1e10 - 1:      99999,
		99999 * 99999: 99999,
		20000000000:   141421,
	}
	for n, want := range cases {
		assert.Equal(t, want, SqrtFloor(n), "n=%d", n)
	}
}
