package primeshield

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with primeshield-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithExponent adds the run's exponent field to the logger.
func (l *Logger) WithExponent(exponent int) *Logger {
	return &Logger{
		Logger: l.Logger.With("exponent", exponent),
	}
}

// LogRunStart logs the start of an analysis run.
func (l *Logger) LogRunStart(ctx context.Context, limit uint64, workers, segments int) {
	l.InfoContext(ctx, "analysis started",
		"limit", limit,
		"workers", workers,
		"segments", segments,
	)
}

// LogProgress logs a periodic progress snapshot of the prime stream.
func (l *Logger) LogProgress(ctx context.Context, lastPrime, primes uint64) {
	l.InfoContext(ctx, "sieve progress",
		"last_prime", lastPrime,
		"primes", primes,
	)
}

// LogRunComplete logs the end of an analysis run.
func (l *Logger) LogRunComplete(ctx context.Context, primes, successes uint64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "analysis failed",
			"primes", primes,
			"elapsed", elapsed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "analysis completed",
			"primes", primes,
			"successes", successes,
			"elapsed", elapsed,
		)
	}
}

// LogArtifact logs the emission of one output artifact.
func (l *Logger) LogArtifact(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "artifact write failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifact written",
			"name", name,
		)
	}
}
