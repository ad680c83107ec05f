package shield

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrimes = []uint64{3, 5, 7, 11, 13}

func TestClassify_Vectors(t *testing.T) {
	c := NewClassifier(testPrimes)

	// Gap 2: 2 mod 3 == 2, no shields at all.
	p := c.Classify(2)
	assert.Empty(t, p.Primes)
	assert.Equal(t, 1.0, p.Boost)
	assert.Zero(t, p.Score())

	// Gap 4: shielded from 3 (4 mod 3 == 1) and 5 (4 mod 5 == 4),
	// but not 7 (4 mod 7 == 4 != 6). Boost (3/2)(5/4) = 1.875.
	p = c.Classify(4)
	assert.Equal(t, []uint64{3, 5}, p.Primes)
	assert.InDelta(t, 1.875, p.Boost, 1e-12)
	assert.Equal(t, 0, p.BoostRat.Cmp(big.NewRat(15, 8)))

	// Gap 34: triple shield from 3, 5 and 7. Boost (3/2)(5/4)(7/6).
	p = c.Classify(34)
	assert.Equal(t, []uint64{3, 5, 7}, p.Primes)
	assert.InDelta(t, 2.1875, p.Boost, 1e-12)
	assert.Equal(t, 0, p.BoostRat.Cmp(big.NewRat(35, 16)))
	assert.Equal(t, 3, p.Score())

	// Gap 6: 6 mod 3 == 0, 6 mod 5 == 1, 6 mod 7 == 6 -> only 7.
	p = c.Classify(6)
	assert.Equal(t, []uint64{7}, p.Primes)
	assert.InDelta(t, 7.0/6.0, p.Boost, 1e-12)
}

func TestClassify_Deterministic(t *testing.T) {
	a := NewClassifier(testPrimes)
	b := NewClassifier(testPrimes)

	for g := uint64(0); g < 500; g += 2 {
		pa := a.Classify(g)
		pb := b.Classify(g)
		require.Equal(t, pa.Primes, pb.Primes, "g=%d", g)
		require.Equal(t, pa.Boost, pb.Boost, "g=%d", g)
	}
}

func TestClassify_MemoizedConcurrently(t *testing.T) {
	c := NewClassifier(testPrimes)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := uint64(2); g < 200; g += 2 {
				p := c.Classify(g)
				if p.Gap != g {
					t.Errorf("gap mismatch: got %d want %d", p.Gap, g)
					return
				}
			}
		}()
	}
	wg.Wait()

	// Cached result is the same object data on re-query.
	first := c.Classify(34)
	second := c.Classify(34)
	assert.Equal(t, first, second)
}
