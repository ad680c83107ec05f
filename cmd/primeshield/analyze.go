package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/primeshield/primeshield"
	"github.com/primeshield/primeshield/archive"
	"github.com/primeshield/primeshield/internal/resource"
	"github.com/primeshield/primeshield/report"
	"github.com/primeshield/primeshield/stats"
)

type analyzeOptions struct {
	exponent      int
	bins          int
	segmentKB     int
	gaps          string
	workers       int
	memoryLimitMB int64
	ioLimitMB     int64
	outputDir     string
	webReport     bool
	compress      string
	s3URI         string
	dynamoTable   string
	runID         string
	jsonLogs      bool
	verbose       bool
}

func newAnalyzeCmd() *cobra.Command {
	var o analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full pair-sum analysis up to 10^exponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, &o)
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.exponent, "max-exponent", 8, "analyze primes up to 10^exponent")
	f.IntVar(&o.bins, "bins", primeshield.DefaultBins, "resolution bins for the oscillation series (0 disables)")
	f.IntVar(&o.segmentKB, "segment-size-kb", 128, "sieve segment bitset size in KiB")
	f.StringVar(&o.gaps, "gaps", "2,4,6,12,30", "comma-separated gaps to track")
	f.IntVar(&o.workers, "workers", 0, "worker count (0 = all CPUs)")
	f.Int64Var(&o.memoryLimitMB, "memory-limit-mb", 0, "cap on live segment memory in MiB (0 = unlimited)")
	f.Int64Var(&o.ioLimitMB, "io-limit-mb", 0, "artifact write throughput cap in MiB/s (0 = unlimited)")
	f.StringVar(&o.outputDir, "output-dir", "results", "directory for CSV artifacts")
	f.BoolVar(&o.webReport, "web-report", false, "also emit a self-contained HTML report")
	f.StringVar(&o.compress, "compress", "none", "artifact compression: none, gzip, zstd or lz4")
	f.StringVar(&o.s3URI, "s3", "", "also upload artifacts to s3://bucket/prefix")
	f.StringVar(&o.dynamoTable, "dynamo-table", "", "DynamoDB table for the run registry")
	f.StringVar(&o.runID, "run-id", "", "registry run ID (default derived from exponent and time)")
	f.BoolVar(&o.jsonLogs, "json-logs", false, "log in JSON instead of text")
	f.BoolVar(&o.verbose, "verbose", false, "debug-level logging")

	return cmd
}

func runAnalyze(cmd *cobra.Command, o *analyzeOptions) error {
	gaps, err := parseGaps(o.gaps)
	if err != nil {
		return err
	}
	comp, ok := report.CompressionByName(o.compress)
	if !ok {
		return fmt.Errorf("unknown compression %q", o.compress)
	}

	// Resolve every sink before the run so a bad flag cannot waste one.
	var s3Bucket, s3Prefix string
	if o.s3URI != "" {
		if s3Bucket, s3Prefix, err = parseS3URI(o.s3URI); err != nil {
			return err
		}
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := primeshield.NewTextLogger(level)
	if o.jsonLogs {
		logger = primeshield.NewJSONLogger(level)
	}
	logger = logger.WithExponent(o.exponent)

	a, err := primeshield.New(o.exponent,
		primeshield.WithLogger(logger),
		primeshield.WithSegmentBytes(o.segmentKB*1024),
		primeshield.WithWorkers(o.workers),
		primeshield.WithBins(o.bins),
		primeshield.WithTrackedGaps(gaps),
		primeshield.WithMemoryLimit(o.memoryLimitMB<<20),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := a.Run(ctx)
	if err != nil {
		return err
	}

	var rc *resource.Controller
	if o.ioLimitMB > 0 {
		rc = resource.NewController(resource.Config{IOLimitBytesPerSec: o.ioLimitMB << 20})
	}

	local, err := archive.NewLocal(o.outputDir, rc)
	if err != nil {
		return err
	}
	if err := emitAll(ctx, local, comp, table, o.webReport); err != nil {
		return err
	}
	logger.LogArtifact(ctx, o.outputDir, nil)

	if o.s3URI != "" {
		s3store, err := archive.NewS3StoreFromEnv(ctx, s3Bucket, s3Prefix, rc)
		if err != nil {
			return err
		}
		if err := emitAll(ctx, s3store, comp, table, o.webReport); err != nil {
			return err
		}
		logger.LogArtifact(ctx, o.s3URI, nil)
	}

	if o.dynamoTable != "" {
		if err := registerRun(ctx, o, a, table); err != nil {
			return err
		}
	}

	printSummary(cmd, table)
	return nil
}

func emitAll(ctx context.Context, store archive.Store, comp report.Compression, table *stats.Table, webReport bool) error {
	e := report.NewEmitter(store, comp)
	if err := e.Emit(ctx, table); err != nil {
		return err
	}
	if webReport {
		return e.EmitReport(ctx, table)
	}
	return nil
}

func registerRun(ctx context.Context, o *analyzeOptions, a *primeshield.Analyzer, table *stats.Table) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	runID := o.runID
	if runID == "" {
		runID = fmt.Sprintf("e%d-%d", o.exponent, time.Now().Unix())
	}

	reg := archive.NewRunRegistry(dynamodb.NewFromConfig(cfg), o.dynamoTable)
	return reg.Register(ctx, archive.RunRecord{
		RunID:          runID,
		Exponent:       uint32(o.exponent),
		Workers:        a.Workers(),
		SegmentBytes:   o.segmentKB * 1024,
		TotalPrimes:    table.TotalPrimes,
		TotalSuccesses: table.TotalSuccesses,
		CompletedAt:    time.Now().UTC(),
	})
}

func printSummary(cmd *cobra.Command, t *stats.Table) {
	var ratio float64
	if t.TotalPrimes > 0 {
		ratio = float64(t.TotalSuccesses) / float64(t.TotalPrimes)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "N = %d: %d primes, %d successes (ratio %.4f, baseline %.4f)\n\n",
		t.Limit, t.TotalPrimes, t.TotalSuccesses, ratio, t.ExpectedRate)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "gap\tcount\trate\tboost\tshields")
	for _, g := range t.TrackedGaps {
		rec, ok := t.Record(g)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\t%s\n",
			rec.Gap, rec.Occurrences, rec.ObservedRate, rec.TheoreticalBoost, formatPrimes(rec.ShieldedPrimes))
	}
	w.Flush()
}

func formatPrimes(primes []uint64) string {
	if len(primes) == 0 {
		return "-"
	}
	parts := make([]string, len(primes))
	for i, p := range primes {
		parts[i] = strconv.FormatUint(p, 10)
	}
	return strings.Join(parts, ",")
}

func parseGaps(s string) ([]uint64, error) {
	var gaps []uint64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		g, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid gap %q: %w", part, err)
		}
		gaps = append(gaps, g)
	}
	if len(gaps) == 0 {
		return nil, fmt.Errorf("no gaps given")
	}
	return gaps, nil
}

func parseS3URI(uri string) (bucket, prefix string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok || rest == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q (want s3://bucket/prefix)", uri)
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 URI %q (want s3://bucket/prefix)", uri)
	}
	return bucket, prefix, nil
}
