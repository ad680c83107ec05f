package stats

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// trackedLookupLimit bounds the dense lookup table for tracked gaps;
// larger requested gaps fall back to a map.
const trackedLookupLimit = 1024

// Config configures a statistics run.
type Config struct {
	// Limit is the sieve bound N. Bins cover the pair-sum range [0, 2N].
	Limit uint64

	// Bins is the number of resolution bins for the time series.
	// Zero disables binning.
	Bins int

	// TrackedGaps always appear in the final table, even with zero
	// occurrences, and are counted per bin.
	TrackedGaps []uint64
}

// GapCounts holds the two counters kept per distinct gap value.
type GapCounts struct {
	Occurrences uint64
	Successes   uint64
}

// Bin is one resolution bin of the oscillation time series, keyed by the
// position of the larger pair member.
type Bin struct {
	Start uint64
	End   uint64

	// PrimeCount is the number of primes in the bin.
	PrimeCount uint64

	// SuccessCount is the number of pairs in the bin whose sum-minus-one
	// is itself prime.
	SuccessCount uint64

	// GapOccurrences and GapSuccesses count tracked gaps only.
	GapOccurrences map[uint64]uint64
	GapSuccesses   map[uint64]uint64
}

// Local is a single-worker statistics accumulator. It is not safe for
// concurrent use: each evaluator worker owns one and the owners' tables
// are merged after the stream is exhausted.
type Local struct {
	TotalPrimes    uint64
	TotalSuccesses uint64

	gaps map[uint64]GapCounts
	seen *roaring.Bitmap

	// wide holds observed gap values past the 32-bit bitmap range.
	// Consecutive-prime gaps never get that large, but the emission
	// path must stay total for any uint64 gap.
	wide map[uint64]struct{}

	bins    []Bin
	binSize uint64

	trackedLookup []bool
	trackedSet    map[uint64]struct{}
}

// NewLocal creates an empty accumulator for the given configuration.
func NewLocal(cfg Config) *Local {
	l := &Local{
		gaps: make(map[uint64]GapCounts),
		seen: roaring.New(),
		wide: make(map[uint64]struct{}),
	}

	l.initTracked(cfg.TrackedGaps)

	if cfg.Bins > 0 && cfg.Limit > 0 {
		analysisRange := cfg.Limit * 2
		l.binSize = uint64(math.Ceil(float64(analysisRange) / float64(cfg.Bins)))
		if l.binSize == 0 {
			l.binSize = 1
		}
		l.bins = make([]Bin, cfg.Bins)
		for i := range l.bins {
			start := uint64(i) * l.binSize
			end := start + l.binSize - 1
			if end > analysisRange {
				end = analysisRange
			}
			l.bins[i] = Bin{
				Start:          start,
				End:            end,
				GapOccurrences: make(map[uint64]uint64),
				GapSuccesses:   make(map[uint64]uint64),
			}
		}
	}

	return l
}

func (l *Local) initTracked(gaps []uint64) {
	var maxGap uint64
	for _, g := range gaps {
		if g > maxGap {
			maxGap = g
		}
	}

	if maxGap < trackedLookupLimit {
		l.trackedLookup = make([]bool, maxGap+1)
		for _, g := range gaps {
			l.trackedLookup[g] = true
		}
		return
	}

	l.trackedSet = make(map[uint64]struct{}, len(gaps))
	for _, g := range gaps {
		l.trackedSet[g] = struct{}{}
	}
}

func (l *Local) tracked(g uint64) bool {
	if l.trackedLookup != nil {
		return g < uint64(len(l.trackedLookup)) && l.trackedLookup[g]
	}
	_, ok := l.trackedSet[g]
	return ok
}

func (l *Local) binIndex(n uint64) int {
	if l.binSize == 0 {
		return -1
	}
	idx := int(n / l.binSize)
	if idx >= len(l.bins) {
		idx = len(l.bins) - 1
	}
	return idx
}

// ObservePrime records one prime of the stream.
func (l *Local) ObservePrime(p uint64) {
	l.TotalPrimes++
	if idx := l.binIndex(p); idx >= 0 {
		l.bins[idx].PrimeCount++
	}
}

// ObservePair records one consecutive pair (pPrev, pCur) and whether its
// sum-minus-one was prime.
func (l *Local) ObservePair(pPrev, pCur uint64, success bool) {
	g := pCur - pPrev

	c := l.gaps[g]
	c.Occurrences++
	if success {
		c.Successes++
		l.TotalSuccesses++
	}
	l.gaps[g] = c

	if g <= math.MaxUint32 {
		l.seen.Add(uint32(g))
	} else {
		l.wide[g] = struct{}{}
	}

	idx := l.binIndex(pCur)
	if idx < 0 {
		return
	}
	bin := &l.bins[idx]
	if success {
		bin.SuccessCount++
	}
	if l.tracked(g) {
		bin.GapOccurrences[g]++
		if success {
			bin.GapSuccesses[g]++
		}
	}
}

// Merge adds other's counts into l. Both must come from the same Config.
func (l *Local) Merge(other *Local) {
	l.TotalPrimes += other.TotalPrimes
	l.TotalSuccesses += other.TotalSuccesses

	for g, c := range other.gaps {
		acc := l.gaps[g]
		acc.Occurrences += c.Occurrences
		acc.Successes += c.Successes
		l.gaps[g] = acc
	}
	l.seen.Or(other.seen)
	for g := range other.wide {
		l.wide[g] = struct{}{}
	}

	for i := range other.bins {
		dst := &l.bins[i]
		src := &other.bins[i]
		dst.PrimeCount += src.PrimeCount
		dst.SuccessCount += src.SuccessCount
		for g, n := range src.GapOccurrences {
			dst.GapOccurrences[g] += n
		}
		for g, n := range src.GapSuccesses {
			dst.GapSuccesses[g] += n
		}
	}
}
