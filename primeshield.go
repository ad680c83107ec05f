package primeshield

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/primeshield/primeshield/shield"
	"github.com/primeshield/primeshield/sieve"
	"github.com/primeshield/primeshield/stats"
)

// MaxExponent is the largest supported exponent. The deterministic
// primality check is exact far beyond 2*10^MaxExponent; the cap exists
// because larger runs stop being practical on a single host.
const MaxExponent = 12

// progressInterval throttles the periodic progress log line.
const progressInterval = 5 * time.Second

// Analyzer runs the full pipeline for one bound N = 10^exponent:
// sieve, pair evaluation, and statistics assembly.
type Analyzer struct {
	limit      uint64
	exponent   int
	workers    int
	opts       options
	engine     *sieve.Engine
	classifier *shield.Classifier
	progress   *rate.Limiter
}

// New validates the configuration and builds an Analyzer for
// N = 10^exponent.
func New(exponent int, optFns ...Option) (*Analyzer, error) {
	if exponent < 1 || exponent > MaxExponent {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidExponent, exponent, MaxExponent)
	}
	o := applyOptions(optFns)

	if o.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, o.workers)
	}
	for _, g := range o.trackedGaps {
		if g == 0 || (g%2 == 1 && g != 1) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidGap, g)
		}
	}

	limit := uint64(1)
	for i := 0; i < exponent; i++ {
		limit *= 10
	}

	workers := o.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	window := o.reorderWindow
	if window <= 0 {
		window = 2 * workers
	}
	segBytes := o.segmentBytes
	if segBytes == 0 {
		segBytes = sieve.DefaultSegmentBytes
	}
	if o.memoryLimit > 0 {
		// Worst-case live footprint: one bitset per worker plus a full
		// reorder window, each rounded up to whole words.
		perSegment := int64((segBytes + 7) / 8 * 8)
		if floor := int64(workers+window) * perSegment; o.memoryLimit < floor {
			return nil, fmt.Errorf("%w: %d < %d", ErrMemoryBudgetTooSmall, o.memoryLimit, floor)
		}
	}

	engine, err := sieve.NewEngine(sieve.Config{
		Limit:         limit,
		SegmentBytes:  o.segmentBytes,
		Workers:       workers,
		ReorderWindow: window,
		Resource:      o.resourceController(),
	})
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		limit:      limit,
		exponent:   exponent,
		workers:    workers,
		opts:       o,
		engine:     engine,
		classifier: shield.NewClassifier(sieve.ShieldPrimes(o.shieldThrough)),
		progress:   rate.NewLimiter(rate.Every(progressInterval), 1),
	}, nil
}

// Limit returns the inclusive sieve bound N.
func (a *Analyzer) Limit() uint64 { return a.limit }

// Exponent returns the configured exponent.
func (a *Analyzer) Exponent() int { return a.exponent }

// Workers returns the effective worker count after defaulting.
func (a *Analyzer) Workers() int { return a.workers }

// SegmentCount returns the number of sieve segments the run will process.
func (a *Analyzer) SegmentCount() int { return a.engine.SegmentCount() }

// evalJob is one ordered prime batch handed to an evaluator, together
// with the prime preceding the batch so the boundary pair is not lost.
type evalJob struct {
	prev    uint64
	hasPrev bool
	primes  []uint64
}

// Run executes the analysis and returns the merged gap table. The
// result is independent of worker count and segment size; cancellation
// of ctx aborts the run.
func (a *Analyzer) Run(ctx context.Context) (*stats.Table, error) {
	start := time.Now()
	cfg := stats.Config{
		Limit:       a.limit,
		Bins:        a.opts.bins,
		TrackedGaps: a.opts.trackedGaps,
	}

	a.opts.logger.LogRunStart(ctx, a.limit, a.workers, a.engine.SegmentCount())

	locals := make([]*stats.Local, a.workers)
	for i := range locals {
		locals[i] = stats.NewLocal(cfg)
	}

	jobs := make(chan evalJob, 2*a.workers)
	g, gctx := errgroup.WithContext(ctx)

	for _, l := range locals {
		l := l
		g.Go(func() error {
			return a.evaluate(gctx, jobs, l)
		})
	}

	g.Go(func() error {
		defer close(jobs)
		return a.produce(gctx, jobs)
	})

	err := g.Wait()
	elapsed := time.Since(start)
	if err != nil {
		a.opts.metricsCollector.RecordRun(elapsed, err)
		a.opts.logger.LogRunComplete(ctx, 0, 0, elapsed, err)
		return nil, err
	}

	table, err := stats.Build(cfg, locals, a.classifier)
	a.opts.metricsCollector.RecordRun(elapsed, err)
	if err != nil {
		a.opts.logger.LogRunComplete(ctx, 0, 0, elapsed, err)
		return nil, err
	}

	a.opts.logger.LogRunComplete(ctx, table.TotalPrimes, table.TotalSuccesses, elapsed, nil)
	return table, nil
}

// produce drives the sieve and forwards each ordered batch, chained to
// its predecessor prime, to the evaluators.
func (a *Analyzer) produce(ctx context.Context, jobs chan<- evalJob) error {
	var (
		prev        uint64
		hasPrev     bool
		totalPrimes uint64
	)

	return a.engine.Run(ctx, func(batch []uint64) error {
		dispatch := time.Now()
		if len(batch) == 0 {
			return nil
		}
		if hasPrev && batch[0] <= prev {
			return &ErrOrderViolation{Prev: prev, Cur: batch[0]}
		}

		job := evalJob{prev: prev, hasPrev: hasPrev, primes: batch}
		select {
		case jobs <- job:
		case <-ctx.Done():
			return context.Cause(ctx)
		}

		prev = batch[len(batch)-1]
		hasPrev = true
		totalPrimes += uint64(len(batch))

		a.opts.metricsCollector.RecordBatch(len(batch), time.Since(dispatch))
		if a.progress.Allow() {
			a.opts.logger.LogProgress(ctx, prev, totalPrimes)
		}
		return nil
	})
}

// evaluate consumes batches, testing p+q-1 for every consecutive pair
// and accumulating into the worker-local table.
func (a *Analyzer) evaluate(ctx context.Context, jobs <-chan evalJob, l *stats.Local) error {
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case job, ok := <-jobs:
			if !ok {
				return nil
			}

			var pairs, successes int
			prev, has := job.prev, job.hasPrev
			for _, p := range job.primes {
				if has {
					success := sieve.IsPrime(prev + p - 1)
					l.ObservePair(prev, p, success)
					pairs++
					if success {
						successes++
					}
				}
				l.ObservePrime(p)
				prev, has = p, true
			}
			a.opts.metricsCollector.RecordEvaluation(pairs, successes)
		}
	}
}
