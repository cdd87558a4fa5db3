package solvmatch

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hupe1980/solvmatch/blend"
	"github.com/hupe1980/solvmatch/internal/topk"
)

const (
	// DefaultNearest is the default number of pairs kept per compound.
	DefaultNearest = 10
	// DefaultMaxResults is the default number of pairs kept globally.
	DefaultMaxResults = 10
	// DefaultProgressInterval is the minimum gap between progress log lines.
	DefaultProgressInterval = 2 * time.Second
)

// RatioFailurePolicy decides what a ratio resolution failure does to the batch.
type RatioFailurePolicy int

const (
	// RatioSkipRow drops the affected row and records the failure in the Report.
	RatioSkipRow RatioFailurePolicy = iota
	// RatioAbort fails the whole batch.
	RatioAbort
)

// ParseRatioFailurePolicy parses the names returned by String.
func ParseRatioFailurePolicy(s string) (RatioFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip", "":
		return RatioSkipRow, nil
	case "abort":
		return RatioAbort, nil
	default:
		return 0, fmt.Errorf("unknown ratio failure policy %q (want skip or abort)", s)
	}
}

func (p RatioFailurePolicy) String() string {
	switch p {
	case RatioSkipRow:
		return "skip"
	case RatioAbort:
		return "abort"
	default:
		return "unknown"
	}
}

type options struct {
	nearest          int
	maxResults       int
	workers          int
	capacity         int
	dispersionWeight float64
	memoryLimit      int64
	ratioPolicy      RatioFailurePolicy
	perCompoundRows  bool
	solverOptFns     []func(*blend.Options)
	metricsCollector MetricsCollector
	logger           *Logger
	progressInterval time.Duration
}

// Option configures a Matcher.
type Option func(*options)

// WithNearest sets how many nearest pairs each compound keeps (n).
func WithNearest(n int) Option {
	return func(o *options) {
		o.nearest = n
	}
}

// WithMaxResults sets how many pairs survive the cross-compound ranking (m).
func WithMaxResults(m int) Option {
	return func(o *options) {
		o.maxResults = m
	}
}

// WithWorkers bounds the number of compounds searched in parallel.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithInitialCapacity sets the retention window of each compound's candidate
// buffer. The buffer holds at most twice this many candidates, so it also
// bounds per-worker memory:
//
//	bytes per worker <= 2 * capacity * 24
//
// Values below the nearest count are raised to it. Default: 100,000.
func WithInitialCapacity(capacity int) Option {
	return func(o *options) {
		o.capacity = capacity
	}
}

// WithDispersionWeight multiplies the squared dispersion difference in every
// distance. Use distance.HansenDispersionWeight (4) for the Hansen convention.
// Default: 1 (unweighted).
func WithDispersionWeight(weight float64) Option {
	return func(o *options) {
		o.dispersionWeight = weight
	}
}

// WithMemoryLimit caps the bytes held by candidate buffers across all workers.
// Exceeding it fails the batch with resource.ErrMemoryLimitExceeded.
// Zero disables the limit.
//
// Workers reserve memory as their buffers grow, without waiting for each
// other. With more than one worker, a limit between one buffer's peak and
// the sum of all concurrent peaks may or may not be hit depending on
// scheduling. Set it to at least workers times the largest buffer for a
// result that never depends on timing, or use WithWorkers(1).
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithRatioFailurePolicy configures how ratio resolution failures are handled.
// Default: RatioSkipRow.
func WithRatioFailurePolicy(p RatioFailurePolicy) Option {
	return func(o *options) {
		o.ratioPolicy = p
	}
}

// WithPerCompoundRows emits one result row per compound that selected a
// ranked pair instead of one row per pair.
func WithPerCompoundRows(enabled bool) Option {
	return func(o *options) {
		o.perCompoundRows = enabled
	}
}

// WithSolverOptions tunes the ratio solver grid.
//
// Example:
//
//	m, _ := solvmatch.New(solvmatch.WithSolverOptions(func(o *blend.Options) {
//	    o.Step = 0.005
//	    o.Tolerance = 0.05
//	}))
func WithSolverOptions(optFns ...func(*blend.Options)) Option {
	return func(o *options) {
		o.solverOptFns = append(o.solverOptFns, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := solvmatch.NewJSONLogger(slog.LevelInfo)
//	m, _ := solvmatch.New(solvmatch.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
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

// WithProgressInterval sets the minimum gap between progress log lines.
func WithProgressInterval(d time.Duration) Option {
	return func(o *options) {
		o.progressInterval = d
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		nearest:          DefaultNearest,
		maxResults:       DefaultMaxResults,
		capacity:         topk.DefaultCapacity,
		dispersionWeight: 1,
		ratioPolicy:      RatioSkipRow,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		progressInterval: DefaultProgressInterval,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
