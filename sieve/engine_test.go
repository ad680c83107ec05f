package sieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/primeshield/primeshield/internal/resource"
)

func collect(t *testing.T, e *Engine) []uint64 {
	t.Helper()
	var primes []uint64
	err := e.Run(context.Background(), func(batch []uint64) error {
		primes = append(primes, batch...)
		return nil
	})
	require.NoError(t, err)
	return primes
}

func TestEngine_MatchesReferenceSieve(t *testing.T) {
	const limit = 1000000

	want := BasePrimes(limit)

	e, err := NewEngine(Config{Limit: limit, SegmentBytes: 4096, Workers: 4})
	require.NoError(t, err)

	got := collect(t, e)
	assert.Equal(t, want, got)
}

func TestEngine_StrictlyIncreasingAcrossConfigs(t *testing.T) {
	const limit = 200000
	want := BasePrimes(limit)

	for _, workers := range []int{1, 2, 7} {
		for _, segBytes := range []int{64, 1024, 1 << 20} {
			e, err := NewEngine(Config{Limit: limit, SegmentBytes: segBytes, Workers: workers})
			require.NoError(t, err)

			got := collect(t, e)
			require.Equal(t, want, got, "workers=%d segBytes=%d", workers, segBytes)

			for i := 1; i < len(got); i++ {
				require.Greater(t, got[i], got[i-1])
			}
		}
	}
}

func TestEngine_TinyLimits(t *testing.T) {
	cases := map[uint64][]uint64{
		1:  nil,
		2:  {2},
		3:  {2, 3},
		4:  {2, 3},
		5:  {2, 3, 5},
		10: {2, 3, 5, 7},
		30: {2, 3, 5, 7, 11, 13, 17, 19, 23, 29},
	}

	for limit, want := range cases {
		e, err := NewEngine(Config{Limit: limit, SegmentBytes: 64})
		require.NoError(t, err)
		got := collect(t, e)
		assert.Equal(t, want, got, "limit=%d", limit)
	}
}

func TestEngine_SegmentTiling(t *testing.T) {
	// Segment boundaries must neither drop nor duplicate primes around
	// the segment span. Use a span small enough that many boundaries
	// fall inside the range.
	e, err := NewEngine(Config{Limit: 10000, SegmentBytes: 8, Workers: 3})
	require.NoError(t, err)

	got := collect(t, e)
	assert.Equal(t, BasePrimes(10000), got)
}

func TestEngine_MemoryBudget(t *testing.T) {
	// Budget admits workers + reorder window segments; the run must
	// still complete.
	res := resource.NewController(resource.Config{MemoryLimitBytes: 6 * 1024})
	e, err := NewEngine(Config{
		Limit:         500000,
		SegmentBytes:  1024,
		Workers:       2,
		ReorderWindow: 2,
		Resource:      res,
	})
	require.NoError(t, err)

	got := collect(t, e)
	assert.Equal(t, BasePrimes(500000), got)
	assert.Zero(t, res.MemoryUsage())
}

func TestEngine_EmitErrorAborts(t *testing.T) {
	defer goleak.VerifyNone(t)

	e, err := NewEngine(Config{Limit: 1000000, SegmentBytes: 256, Workers: 4})
	require.NoError(t, err)

	boom := errors.New("downstream failure")
	calls := 0
	err = e.Run(context.Background(), func(batch []uint64) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestEngine_Cancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())

	e, err := NewEngine(Config{Limit: 10000000, SegmentBytes: 256, Workers: 4})
	require.NoError(t, err)

	err = e.Run(ctx, func(batch []uint64) error {
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_InvalidSegmentBytes(t *testing.T) {
	_, err := NewEngine(Config{Limit: 100, SegmentBytes: -1})
	assert.ErrorIs(t, err, ErrInvalidSegmentBytes)
}
