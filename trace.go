package foldpipe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/lmittmann/tint"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/tracez"
)

// Span and tag keys for the Trace decorator.
const (
	TraceProcessSpan = tracez.Key("trace.process")

	TraceTagProcessorName = tracez.Tag("trace.processor_name")
	TraceTagSuccess       = tracez.Tag("trace.success")
)

// previewLimit caps the number of runes logged for stage inputs and outputs.
const previewLimit = 50

// LogConfig carries the instrumentation switch and the logger trace records
// are written to. It is an explicit value threaded through pipeline
// construction rather than package-level state, so independent pipelines
// (and test suites) do not interfere with each other.
//
// The switch defaults to disabled and is flipped only through SetEnabled.
type LogConfig struct {
	mu      sync.RWMutex
	enabled bool
	logger  *slog.Logger
	clock   clockz.Clock
}

// NewLogConfig returns a LogConfig writing human-readable records to w.
// Instrumentation starts disabled.
func NewLogConfig(w io.Writer) *LogConfig {
	return &LogConfig{
		logger: slog.New(tint.NewHandler(w, &tint.Options{Level: slog.LevelDebug})),
	}
}

// NewLogConfigWith returns a LogConfig using the supplied logger.
// Instrumentation starts disabled.
func NewLogConfigWith(logger *slog.Logger) *LogConfig {
	return &LogConfig{logger: logger}
}

// SetEnabled flips the instrumentation switch for every Trace decorator
// sharing this config.
func (lc *LogConfig) SetEnabled(enabled bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.enabled = enabled
}

// Enabled reports whether trace records are currently emitted.
func (lc *LogConfig) Enabled() bool {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return lc.enabled
}

// WithClock sets a custom clock for testing.
func (lc *LogConfig) WithClock(clock clockz.Clock) *LogConfig {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.clock = clock
	return lc
}

func (lc *LogConfig) getClock() clockz.Clock {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	if lc.clock == nil {
		return clockz.RealClock
	}
	return lc.clock
}

// Trace wraps a processor and logs a record before and after each Process
// call while its LogConfig is enabled: entry records carry the wrapped
// processor's name and a truncated preview of the input, exit records the
// corresponding output preview. While the config is disabled the wrapper is a
// pure pass-through with no observable difference from calling the processor
// directly.
//
// Errors from the wrapped processor propagate unmodified.
type Trace[T any] struct {
	wrapped Chainable[T]
	config  *LogConfig
	tracer  *tracez.Tracer
}

// NewTrace wraps processor with trace instrumentation gated by config.
// A nil config yields a permanently disabled wrapper.
func NewTrace[T any](processor Chainable[T], config *LogConfig) *Trace[T] {
	return &Trace[T]{
		wrapped: processor,
		config:  config,
		tracer:  tracez.New(),
	}
}

// Process implements the Chainable interface.
func (t *Trace[T]) Process(ctx context.Context, data T) (T, error) {
	if t.config == nil || !t.config.Enabled() {
		return t.wrapped.Process(ctx, data)
	}

	ctx, span := t.tracer.StartSpan(ctx, TraceProcessSpan)
	defer span.Finish()
	span.SetTag(TraceTagProcessorName, string(t.wrapped.Name()))

	logger := t.config.logger
	clock := t.config.getClock()

	logger.Debug("entering processor",
		slog.String("processor", string(t.wrapped.Name())),
		slog.String("input", preview(data)),
		slog.Time("at", clock.Now()),
	)

	result, err := t.wrapped.Process(ctx, data)
	if err != nil {
		span.SetTag(TraceTagSuccess, "false")
		logger.Debug("exiting processor",
			slog.String("processor", string(t.wrapped.Name())),
			slog.Any("error", err),
			slog.Time("at", clock.Now()),
		)
		return result, err
	}

	span.SetTag(TraceTagSuccess, "true")
	logger.Debug("exiting processor",
		slog.String("processor", string(t.wrapped.Name())),
		slog.String("output", preview(result)),
		slog.Time("at", clock.Now()),
	)
	return result, nil
}

// Name returns the wrapped processor's name so trace wrapping stays invisible
// to sequence modification methods and error paths.
func (t *Trace[T]) Name() Name {
	return t.wrapped.Name()
}

// Unwrap returns the wrapped processor.
func (t *Trace[T]) Unwrap() Chainable[T] {
	return t.wrapped
}

// Tracer returns the tracer for this decorator.
func (t *Trace[T]) Tracer() *tracez.Tracer {
	return t.tracer
}

// Close gracefully shuts down observability components.
func (t *Trace[T]) Close() error {
	if t.tracer != nil {
		t.tracer.Close()
	}
	return nil
}

// preview renders a value for trace records, truncated to previewLimit runes
// with a "..." marker when the rendering was cut.
func preview(v any) string {
	s := fmt.Sprint(v)
	if utf8.RuneCountInString(s) <= previewLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:previewLimit]) + "..."
}
