package primeshield

import (
	"log/slog"

	"github.com/primeshield/primeshield/internal/resource"
)

// DefaultTrackedGaps are the gaps reported even when never observed.
// 2 and 4 are fully shielded small gaps, 6, 12 and 30 are the
// highly-composite gaps the boost model favors.
var DefaultTrackedGaps = []uint64{2, 4, 6, 12, 30}

// DefaultBins is the default resolution of the oscillation time series.
const DefaultBins = 1000

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	segmentBytes     int
	workers          int
	reorderWindow    int
	bins             int
	trackedGaps      []uint64
	shieldThrough    uint64
	memoryLimit      int64
}

// Option configures Analyzer constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for the run.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// the run. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithSegmentBytes configures the sieve segment bitset size. Each byte
// covers 16 integers. Smaller segments lower peak memory, larger ones
// amortize marking overhead.
func WithSegmentBytes(n int) Option {
	return func(o *options) {
		o.segmentBytes = n
	}
}

// WithWorkers configures the parallelism of both the sieve and the pair
// evaluators. Zero selects GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithReorderWindow bounds how many sieved segments may wait for their
// turn in the ordered stream. Zero selects 2x the worker count.
func WithReorderWindow(n int) Option {
	return func(o *options) {
		o.reorderWindow = n
	}
}

// WithBins configures the resolution of the oscillation time series.
// Zero disables binning.
func WithBins(n int) Option {
	return func(o *options) {
		o.bins = n
	}
}

// WithTrackedGaps configures the gaps that always appear in the final
// table and are counted per bin. Gaps must be even; gap 1 is permitted
// for the pair (2, 3).
func WithTrackedGaps(gaps []uint64) Option {
	return func(o *options) {
		o.trackedGaps = gaps
	}
}

// WithShieldPrimesThrough extends the shield classifier's prime set
// through the given value. The minimum set covers primes through 13.
func WithShieldPrimesThrough(p uint64) Option {
	return func(o *options) {
		o.shieldThrough = p
	}
}

// WithMemoryLimit caps the total bytes of simultaneously live segment
// bitsets. The budget must admit workers+window segments or the run can
// stall; New rejects budgets below that floor. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		bins:             DefaultBins,
		trackedGaps:      DefaultTrackedGaps,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}

func (o options) resourceController() *resource.Controller {
	if o.memoryLimit <= 0 {
		return nil
	}
	return resource.NewController(resource.Config{MemoryLimitBytes: o.memoryLimit})
}
