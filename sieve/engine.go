package sieve

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/primeshield/primeshield/internal/resource"
)

// ErrInvalidSegmentBytes is returned when the configured segment size is
// not positive.
var ErrInvalidSegmentBytes = errors.New("segment size must be positive")

// firstOddCandidate is the first value covered by the generic odd-only
// segments; 2 and 3 are emitted by direct enumeration ahead of them.
const firstOddCandidate = 5

// oddsPerByte is how many integers one bitset byte spans: 8 bits, each
// representing one odd number, cover a range of 16 consecutive integers.
const oddsPerByte = 16

// Config configures an Engine.
type Config struct {
	// Limit is the inclusive upper bound N of the prime stream.
	Limit uint64

	// SegmentBytes is the bitset size of one segment. Each byte covers 16
	// integers, so the default 128 KiB spans about 2.1e6 numbers.
	SegmentBytes int

	// Workers is the sieving parallelism. Defaults to GOMAXPROCS.
	Workers int

	// ReorderWindow bounds how many segments may be complete but not yet
	// released. Defaults to 2x Workers.
	ReorderWindow int

	// Resource, when set, gates segment bitset allocation against a
	// memory budget. The budget must admit at least Workers+ReorderWindow
	// segments or the run can stall.
	Resource *resource.Controller
}

// DefaultSegmentBytes is the segment bitset size used when none is
// configured, chosen to keep a segment within L2 cache.
const DefaultSegmentBytes = 128 * 1024

// Engine is a parallel segmented sieve over [2, Limit].
type Engine struct {
	limit       uint64
	segmentSpan uint64
	workers     int
	window      int
	basePrimes  []uint64
	res         *resource.Controller
}

// NewEngine builds the Small-Prime Base for the configured limit and
// returns an engine ready to run.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.SegmentBytes == 0 {
		cfg.SegmentBytes = DefaultSegmentBytes
	}
	if cfg.SegmentBytes < 0 {
		return nil, ErrInvalidSegmentBytes
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	window := cfg.ReorderWindow
	if window <= 0 {
		window = 2 * workers
	}

	return &Engine{
		limit:       cfg.Limit,
		segmentSpan: uint64(cfg.SegmentBytes) * oddsPerByte,
		workers:     workers,
		window:      window,
		basePrimes:  BasePrimes(SqrtFloor(cfg.Limit)),
		res:         cfg.Resource,
	}, nil
}

// BasePrimes returns the immutable Small-Prime Base (primes <= sqrt(Limit)).
// Shared read-only by all workers; callers must not mutate it.
func (e *Engine) BasePrimes() []uint64 { return e.basePrimes }

// SegmentCount returns the number of segments tiling (4, Limit].
func (e *Engine) SegmentCount() int {
	if e.limit < firstOddCandidate {
		return 0
	}
	span := e.segmentSpan
	return int((e.limit + 1 - firstOddCandidate + span - 1) / span)
}

// Run sieves all segments and calls emit with batches of consecutive
// primes in strictly increasing global order. emit runs on a single
// goroutine; returning an error from it aborts the run. On any failure
// the run cancels cooperatively and no further batches are emitted.
func (e *Engine) Run(ctx context.Context, emit func(primes []uint64) error) error {
	// 2 and 3 precede the odd-only segments.
	var head []uint64
	for _, p := range []uint64{2, 3} {
		if p <= e.limit {
			head = append(head, p)
		}
	}
	if len(head) > 0 {
		if err := emit(head); err != nil {
			return err
		}
	}

	count := e.SegmentCount()
	if count == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	buf := newReorderBuffer(e.window)

	// Wake anything blocked on the buffer once the run is cancelled.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			buf.abort(context.Cause(ctx))
		case <-watchDone:
		}
	}()
	defer close(watchDone)

	var (
		cursor   atomic.Int64
		workerWG sync.WaitGroup
	)

	workerWG.Add(e.workers)
	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			defer workerWG.Done()
			return e.sieveWorker(ctx, &cursor, count, buf)
		})
	}

	// Close the buffer once every segment has been put, so the emitter
	// drains and terminates.
	go func() {
		workerWG.Wait()
		buf.close()
	}()

	g.Go(func() error {
		for {
			batch, ok, err := buf.take()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := emit(batch); err != nil {
				return err
			}
		}
	})

	return g.Wait()
}

func (e *Engine) sieveWorker(ctx context.Context, cursor *atomic.Int64, count int, buf *reorderBuffer) error {
	for {
		idx := int(cursor.Add(1) - 1)
		if idx >= count {
			return nil
		}

		// Cooperative cancellation between segments.
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		default:
		}

		lo := firstOddCandidate + uint64(idx)*e.segmentSpan
		hi := lo + e.segmentSpan
		if hi > e.limit+1 {
			hi = e.limit + 1
		}

		// Reserve the bitset's footprint before allocating it.
		bits := (hi - lo + 1) / 2
		segBytes := int64((bits + 63) / 64 * 8)
		if err := e.res.AcquireMemory(ctx, segBytes); err != nil {
			return err
		}

		seg := newSegment(idx, lo, hi)
		seg.sieve(e.basePrimes)
		primes := seg.extract(make([]uint64, 0, seg.bits.CountClear()))

		// The bitset is dead from here on; return its budget before
		// potentially blocking on the reorder window.
		e.res.ReleaseMemory(segBytes)
		seg.bits = nil

		if err := buf.put(idx, primes); err != nil {
			return err
		}
	}
}
