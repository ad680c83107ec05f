package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGaps(t *testing.T) {
	gaps, err := parseGaps("2,4, 30")
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 4, 30}, gaps)

	_, err = parseGaps("2,x")
	assert.Error(t, err)

	_, err = parseGaps("")
	assert.Error(t, err)
}

func TestParseS3URI(t *testing.T) {
	bucket, prefix, err := parseS3URI("s3://my-bucket/runs/2026")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "runs/2026", prefix)

	bucket, prefix, err = parseS3URI("s3://my-bucket")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Empty(t, prefix)

	_, _, err = parseS3URI("my-bucket/runs")
	assert.Error(t, err)
}

func TestAnalyzeCommand_WritesArtifacts(t *testing.T) {
	dir := t.TempDir()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{
		"analyze",
		"--max-exponent", "3",
		"--gaps", "2,4",
		"--bins", "10",
		"--output-dir", dir,
		"--web-report",
	})

	require.NoError(t, cmd.Execute())

	for _, name := range []string{"global_stats.csv", "gap_spectrum.csv", "oscillation_series.csv", "index.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// pi(1000) = 168.
	assert.Contains(t, out.String(), "N = 1000: 168 primes")
	assert.Contains(t, out.String(), "gap")
}

func TestAnalyzeCommand_RejectsBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"analyze", "--max-exponent", "0"},
		{"analyze", "--gaps", "3"},
		{"analyze", "--compress", "brotli"},
		{"analyze", "--s3", "not-a-uri"},
	} {
		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(args)
		assert.Error(t, cmd.Execute(), "%v", args)
	}
}
