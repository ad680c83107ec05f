package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/primeshield/primeshield/shield"
)

// ErrCountInvariant reports a success count exceeding its occurrence
// count. It can only arise from a programming error, never from input,
// so a run must treat it as fatal.
var ErrCountInvariant = errors.New("success count exceeds occurrence count")

// Record is one row of the final gap table.
type Record struct {
	Gap              uint64
	Occurrences      uint64
	Successes        uint64
	ObservedRate     float64
	ShieldScore      int
	ShieldedPrimes   []uint64
	TheoreticalBoost float64
}

// Table is the final, merged result of a run.
type Table struct {
	// Limit is the sieve bound N the table was computed for.
	Limit uint64

	TotalPrimes    uint64
	TotalSuccesses uint64

	// ExpectedRate is the naive density baseline 1/ln(N).
	ExpectedRate float64

	// Records is ordered by ascending gap and contains every observed
	// gap plus every tracked gap.
	Records []Record

	// Bins is the oscillation time series (empty when binning disabled).
	Bins []Bin

	// TrackedGaps is the sorted tracked-gap list, for emitters.
	TrackedGaps []uint64
}

// Build merges the worker-local accumulators and assembles the final
// table, classifying every emitted gap.
func Build(cfg Config, locals []*Local, classifier *shield.Classifier) (*Table, error) {
	merged := NewLocal(cfg)
	for _, l := range locals {
		merged.Merge(l)
	}

	tracked := append([]uint64(nil), cfg.TrackedGaps...)
	sort.Slice(tracked, func(i, j int) bool { return tracked[i] < tracked[j] })

	// Emit the union of observed and tracked gaps in ascending order.
	// Gaps past the 32-bit bitmap range go through a side-set; they sort
	// after every bitmap entry by construction.
	emit := merged.seen.Clone()
	wideSet := make(map[uint64]struct{}, len(merged.wide))
	for g := range merged.wide {
		wideSet[g] = struct{}{}
	}
	for _, g := range tracked {
		if g <= math.MaxUint32 {
			emit.Add(uint32(g))
		} else {
			wideSet[g] = struct{}{}
		}
	}
	wide := make([]uint64, 0, len(wideSet))
	for g := range wideSet {
		wide = append(wide, g)
	}
	sort.Slice(wide, func(i, j int) bool { return wide[i] < wide[j] })

	t := &Table{
		Limit:          cfg.Limit,
		TotalPrimes:    merged.TotalPrimes,
		TotalSuccesses: merged.TotalSuccesses,
		Bins:           merged.bins,
		TrackedGaps:    tracked,
	}
	if cfg.Limit > 1 {
		t.ExpectedRate = 1.0 / math.Log(float64(cfg.Limit))
	}

	var buildErr error
	appendRecord := func(g uint64) bool {
		c := merged.gaps[g]
		if c.Successes > c.Occurrences {
			buildErr = fmt.Errorf("%w: gap %d has %d successes over %d occurrences",
				ErrCountInvariant, g, c.Successes, c.Occurrences)
			return false
		}

		rec := Record{
			Gap:         g,
			Occurrences: c.Occurrences,
			Successes:   c.Successes,
		}
		if c.Occurrences > 0 {
			rec.ObservedRate = float64(c.Successes) / float64(c.Occurrences)
		}
		if classifier != nil {
			profile := classifier.Classify(g)
			rec.ShieldScore = profile.Score()
			rec.ShieldedPrimes = profile.Primes
			rec.TheoreticalBoost = profile.Boost
		}

		t.Records = append(t.Records, rec)
		return true
	}

	emit.Iterate(func(g32 uint32) bool {
		return appendRecord(uint64(g32))
	})
	for _, g := range wide {
		if buildErr != nil {
			break
		}
		appendRecord(g)
	}
	if buildErr != nil {
		return nil, buildErr
	}

	return t, nil
}

// Record returns the record for gap g, if present.
func (t *Table) Record(g uint64) (Record, bool) {
	i := sort.Search(len(t.Records), func(i int) bool { return t.Records[i].Gap >= g })
	if i < len(t.Records) && t.Records[i].Gap == g {
		return t.Records[i], true
	}
	return Record{}, false
}
