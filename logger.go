package solvmatch

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/solvmatch/core"
)

// Logger wraps slog.Logger with solvmatch-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithCompound adds a compound id field to the logger.
func (l *Logger) WithCompound(id core.ID) *Logger {
	return &Logger{
		Logger: l.Logger.With("compound", id),
	}
}

// WithPair adds a pair id field to the logger.
func (l *Logger) WithPair(pair core.PairID) *Logger {
	return &Logger{
		Logger: l.Logger.With("pair_id", uint64(pair)),
	}
}

// LogCompoundSearch logs the search of a single compound.
func (l *Logger) LogCompoundSearch(ctx context.Context, compound core.ID, pairs, kept int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "compound search failed",
			"compound", compound,
			"pairs", pairs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "compound search completed",
			"compound", compound,
			"pairs", pairs,
			"kept", kept,
		)
	}
}

// LogProgress logs how many compounds have been searched.
func (l *Logger) LogProgress(ctx context.Context, done, total int) {
	l.InfoContext(ctx, "search progress",
		"done", done,
		"total", total,
	)
}

// LogAggregate logs the cross-compound ranking.
func (l *Logger) LogAggregate(ctx context.Context, distinct, selected int) {
	l.InfoContext(ctx, "pairs ranked",
		"distinct", distinct,
		"selected", selected,
	)
}

// LogRatioFailure logs a pair whose ratio could not be resolved.
func (l *Logger) LogRatioFailure(ctx context.Context, pair core.PairID, err error) {
	l.WarnContext(ctx, "ratio resolution failed, row dropped",
		"pair_id", uint64(pair),
		"error", err,
	)
}

// LogRun logs a complete batch.
func (l *Logger) LogRun(ctx context.Context, compounds, solvents, rows int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "match failed",
			"compounds", compounds,
			"solvents", solvents,
			"duration", duration,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "match completed",
			"compounds", compounds,
			"solvents", solvents,
			"rows", rows,
			"duration", duration,
		)
	}
}
