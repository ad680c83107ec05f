package shield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerals_KnownSequence(t *testing.T) {
	got, err := Generals(6)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 4, 34, 1924, 25024, 85084}, got)
}

func TestGenerals_EveryTermIsShielded(t *testing.T) {
	got, err := Generals(8)
	require.NoError(t, err)
	require.Len(t, got, 8)

	// Term k must be shielded (by the classifier's rule) from the first
	// k shielded primes 3, 5, 7, ...
	shieldedPrimes := []uint64{3, 5, 7, 11, 13, 17, 19, 23}
	c := NewClassifier(shieldedPrimes)

	for k, g := range got {
		p := c.Classify(g)
		assert.GreaterOrEqual(t, p.Score(), k+1, "term %d (%d): shields %v", k+1, g, p.Primes)
		for i := 0; i <= k; i++ {
			assert.Contains(t, p.Primes, shieldedPrimes[i], "term %d (%d)", k+1, g)
		}
	}
}

func TestGenerals_Monotone(t *testing.T) {
	got, err := Generals(10)
	require.NoError(t, err)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
}

func TestGenerals_Empty(t *testing.T) {
	got, err := Generals(0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNextPrime(t *testing.T) {
	assert.Equal(t, uint64(5), nextPrime(3))
	assert.Equal(t, uint64(7), nextPrime(5))
	assert.Equal(t, uint64(11), nextPrime(7))
	assert.Equal(t, uint64(29), nextPrime(23))
}
