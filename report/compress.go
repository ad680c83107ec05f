package report

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression wraps artifact writers with a compression codec.
// Implementations must be safe for concurrent use.
type Compression interface {
	// Name is the stable codec name used for selection.
	Name() string
	// Ext is the filename suffix appended to compressed artifacts.
	Ext() string
	// NewWriter wraps w; the caller must Close the result to flush.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// CompressionByName returns a built-in codec by its stable name.
func CompressionByName(name string) (Compression, bool) {
	switch name {
	case "", "none":
		return None{}, true
	case "gzip":
		return Gzip{}, true
	case "zstd":
		return Zstd{}, true
	case "lz4":
		return LZ4{}, true
	default:
		return nil, false
	}
}

// None passes bytes through unchanged.
type None struct{}

func (None) Name() string { return "none" }
func (None) Ext() string  { return "" }

func (None) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Gzip compresses with gzip at the default level.
type Gzip struct{}

func (Gzip) Name() string { return "gzip" }
func (Gzip) Ext() string  { return ".gz" }

func (Gzip) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

// Zstd compresses with zstd at the default level.
type Zstd struct{}

func (Zstd) Name() string { return "zstd" }
func (Zstd) Ext() string  { return ".zst" }

func (Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

// LZ4 compresses with the lz4 frame format.
type LZ4 struct{}

func (LZ4) Name() string { return "lz4" }
func (LZ4) Ext() string  { return ".lz4" }

func (LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
