package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/primeshield/primeshield/archive"
	"github.com/primeshield/primeshield/stats"
)

// Artifact names before any compression suffix.
const (
	GlobalStatsName       = "global_stats.csv"
	GapSpectrumName       = "gap_spectrum.csv"
	OscillationSeriesName = "oscillation_series.csv"
	ReportName            = "index.html"
)

// Emitter serializes a finished table into the configured store.
type Emitter struct {
	store archive.Store
	comp  Compression
}

// NewEmitter creates an Emitter. comp may be nil for uncompressed output.
func NewEmitter(store archive.Store, comp Compression) *Emitter {
	if comp == nil {
		comp = None{}
	}
	return &Emitter{store: store, comp: comp}
}

// Emit writes the three CSV artifacts. Nothing is written if building any
// artifact fails, so a failed run leaves no partial results behind.
func (e *Emitter) Emit(ctx context.Context, t *stats.Table) error {
	artifacts := []struct {
		name  string
		build func(*stats.Table) ([]byte, error)
	}{
		{GlobalStatsName, buildGlobalStats},
		{GapSpectrumName, buildGapSpectrum},
		{OscillationSeriesName, buildOscillationSeries},
	}

	type ready struct {
		name string
		data []byte
	}
	var out []ready

	for _, a := range artifacts {
		raw, err := a.build(t)
		if err != nil {
			return fmt.Errorf("building %s: %w", a.name, err)
		}
		data, err := e.compress(raw)
		if err != nil {
			return fmt.Errorf("compressing %s: %w", a.name, err)
		}
		out = append(out, ready{a.name + e.comp.Ext(), data})
	}

	for _, a := range out {
		if err := e.store.Put(ctx, a.name, a.data); err != nil {
			return fmt.Errorf("storing %s: %w", a.name, err)
		}
	}
	return nil
}

func (e *Emitter) compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := e.comp.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildGlobalStats(t *stats.Table) ([]byte, error) {
	var ratio float64
	if t.TotalPrimes > 0 {
		ratio = float64(t.TotalSuccesses) / float64(t.TotalPrimes)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{
		{"total_primes_p", "total_primes_s", "global_ratio_s_p"},
		{
			strconv.FormatUint(t.TotalPrimes, 10),
			strconv.FormatUint(t.TotalSuccesses, 10),
			formatFloat(ratio),
		},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildGapSpectrum(t *stats.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"gap_size", "count", "successes", "success_rate",
		"expected_rate_heuristic", "shield_score", "shield_primes", "theoretical_boost",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, rec := range t.Records {
		row := []string{
			strconv.FormatUint(rec.Gap, 10),
			strconv.FormatUint(rec.Occurrences, 10),
			strconv.FormatUint(rec.Successes, 10),
			formatFloat(rec.ObservedRate),
			formatFloat(t.ExpectedRate),
			strconv.Itoa(rec.ShieldScore),
			joinPrimes(rec.ShieldedPrimes),
			formatFloat(rec.TheoreticalBoost),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildOscillationSeries(t *stats.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"bin_start", "bin_end", "prime_count_p", "prime_count_s", "ratio_s_p"}
	for _, g := range t.TrackedGaps {
		header = append(header, fmt.Sprintf("gap_%d_rate", g))
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, bin := range t.Bins {
		// Trailing empty bins would flatline the charts; skip them.
		if bin.PrimeCount == 0 {
			continue
		}

		row := []string{
			strconv.FormatUint(bin.Start, 10),
			strconv.FormatUint(bin.End, 10),
			strconv.FormatUint(bin.PrimeCount, 10),
			strconv.FormatUint(bin.SuccessCount, 10),
			formatFloat(float64(bin.SuccessCount) / float64(bin.PrimeCount)),
		}
		for _, g := range t.TrackedGaps {
			var rate float64
			if occ := bin.GapOccurrences[g]; occ > 0 {
				rate = float64(bin.GapSuccesses[g]) / float64(occ)
			}
			row = append(row, formatFloat(rate))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func joinPrimes(primes []uint64) string {
	parts := make([]string, len(primes))
	for i, p := range primes {
		parts[i] = strconv.FormatUint(p, 10)
	}
	return strings.Join(parts, ",")
}
