package primeshield

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExponent is returned when the requested exponent is
	// outside [1, MaxExponent].
	ErrInvalidExponent = errors.New("exponent out of range")

	// ErrInvalidGap is returned when a tracked gap is zero or odd.
	// Gap 1 is the sole odd exception, for the pair (2, 3).
	ErrInvalidGap = errors.New("invalid tracked gap")

	// ErrInvalidWorkers is returned when the worker count is negative.
	ErrInvalidWorkers = errors.New("worker count must not be negative")

	// ErrMemoryBudgetTooSmall is returned when a configured memory limit
	// cannot hold one segment per worker plus the reorder window. Such a
	// budget would deadlock the sieve instead of throttling it.
	ErrMemoryBudgetTooSmall = errors.New("memory limit below minimum for worker and window configuration")
)

// ErrOrderViolation indicates that the sieve released primes out of
// strictly increasing order. It can only arise from a programming
// error, so a run treats it as fatal.
type ErrOrderViolation struct {
	Prev uint64
	Cur  uint64
}

func (e *ErrOrderViolation) Error() string {
	return fmt.Sprintf("prime stream order violation: %d released after %d", e.Cur, e.Prev)
}
