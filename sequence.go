package foldpipe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Sequence pipeline.
const (
	// Metrics.
	SequenceProcessedTotal  = metricz.Key("sequence.processed.total")
	SequenceSuccessesTotal  = metricz.Key("sequence.successes.total")
	SequenceFailuresTotal   = metricz.Key("sequence.failures.total")
	SequenceStagesCompleted = metricz.Key("sequence.stages.completed")
	SequenceStagesTotal     = metricz.Key("sequence.stages.total")
	SequenceDurationMs      = metricz.Key("sequence.duration.ms")

	// Spans.
	SequenceProcessSpan = tracez.Key("sequence.process")
	SequenceStageSpan   = tracez.Key("sequence.stage")

	// Tags.
	SequenceTagStageCount    = tracez.Tag("sequence.stage_count")
	SequenceTagStageNumber   = tracez.Tag("sequence.stage_number")
	SequenceTagProcessorName = tracez.Tag("sequence.processor_name")
	SequenceTagSuccess       = tracez.Tag("sequence.success")
	SequenceTagError         = tracez.Tag("sequence.error")

	// Hook event keys.
	SequenceEventStageComplete = hookz.Key("sequence.stage_complete")
	SequenceEventAllComplete   = hookz.Key("sequence.all_complete")
)

// Sequence modification errors.
var (
	ErrEmptySequence = errors.New("sequence is empty")
)

// SequenceEvent represents a sequence processing event.
// This is emitted via hookz when individual stages complete or when
// all stages have finished, providing visibility into pipeline progress.
type SequenceEvent struct {
	Name            Name          // Pipeline name
	StageName       Name          // Name of the stage processor
	StageNumber     int           // Current stage number (1-based)
	TotalStages     int           // Total number of stages
	Success         bool          // Whether the stage succeeded
	Error           error         // Error if stage failed
	Duration        time.Duration // How long this stage took
	CompletedStages int           // Number of stages completed (for all_complete)
	TotalDuration   time.Duration // Total time for all stages (for all_complete)
	Timestamp       time.Time     // When the event occurred
}

// Sequence provides a type-safe pipeline for processing values of type T.
// It maintains an ordered list of processors that are executed sequentially:
// each stage receives the output of the previous one, and the first failing
// stage aborts the whole call. An empty Sequence returns its input unchanged.
//
// Key features:
//   - Thread-safe for concurrent access
//   - Dynamic modification of the processor chain
//   - Named processors for debugging
//   - Fail-fast execution with detailed errors
//
// A Sequence carries no cross-invocation state: it can be built once and
// reused across many Process calls.
//
// # Observability
//
// Metrics:
//   - sequence.processed.total: Counter of sequence operations
//   - sequence.successes.total: Counter of successful completions
//   - sequence.failures.total: Counter of failed sequences
//   - sequence.stages.completed: Gauge of stages completed
//   - sequence.stages.total: Gauge of total stages
//   - sequence.duration.ms: Gauge of total sequence duration
//
// Traces:
//   - sequence.process: Parent span for the entire sequence
//   - sequence.stage: Child span for each individual stage
//
// Events (via hooks):
//   - sequence.stage_complete: Fired as each stage completes
//   - sequence.all_complete: Fired when all stages succeed
type Sequence[T any] struct {
	name       Name
	processors []Chainable[T]
	mu         sync.RWMutex
	metrics    *metricz.Registry
	tracer     *tracez.Tracer
	hooks      *hookz.Hooks[SequenceEvent]
}

// NewSequence creates a new Sequence with optional initial processors.
// The sequence is ready to use immediately and can be safely accessed
// concurrently. Additional processors can be added with Register or the
// modification methods.
//
// Example:
//
//	pipe := foldpipe.NewSequence("normalize",
//	    foldpipe.Transform("trim", trimFunc),
//	    foldpipe.Transform("lower", lowerFunc),
//	)
func NewSequence[T any](name Name, processors ...Chainable[T]) *Sequence[T] {
	metrics := metricz.New()
	metrics.Counter(SequenceProcessedTotal)
	metrics.Counter(SequenceSuccessesTotal)
	metrics.Counter(SequenceFailuresTotal)
	metrics.Gauge(SequenceStagesCompleted)
	metrics.Gauge(SequenceStagesTotal)
	metrics.Gauge(SequenceDurationMs)

	return &Sequence[T]{
		name:       name,
		processors: slices.Clone(processors),
		metrics:    metrics,
		tracer:     tracez.New(),
		hooks:      hookz.New[SequenceEvent](),
	}
}

// Register adds processors to this Sequence.
// Processors are executed in the order they are registered.
func (c *Sequence[T]) Register(processors ...Chainable[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, processors...)
}

// Process executes all registered processors on the input value.
// Each processor receives the output of the previous processor. The context
// is checked before each stage - if it is canceled or expired, processing
// stops immediately. If any processor returns an error, execution stops and
// an *Error[T] is returned with the accumulated path and timing.
//
// Process is thread-safe; the processor list is snapshotted so concurrent
// modification does not affect an in-flight call.
func (c *Sequence[T]) Process(ctx context.Context, value T) (result T, err error) {
	defer recoverFromPanic(&result, &err, c.name, value)

	c.mu.RLock()
	processors := make([]Chainable[T], len(c.processors))
	copy(processors, c.processors)
	c.mu.RUnlock()

	if ctx == nil {
		ctx = context.Background()
	}

	c.metrics.Counter(SequenceProcessedTotal).Inc()
	c.metrics.Gauge(SequenceStagesTotal).Set(float64(len(processors)))
	start := time.Now()

	ctx, span := c.tracer.StartSpan(ctx, SequenceProcessSpan)
	span.SetTag(SequenceTagStageCount, fmt.Sprintf("%d", len(processors)))
	defer func() {
		elapsed := time.Since(start)
		c.metrics.Gauge(SequenceDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(SequenceTagSuccess, "true")
			c.metrics.Counter(SequenceSuccessesTotal).Inc()
		} else {
			span.SetTag(SequenceTagSuccess, "false")
			span.SetTag(SequenceTagError, err.Error())
			c.metrics.Counter(SequenceFailuresTotal).Inc()
		}
		span.Finish()
	}()

	result = value
	stagesCompleted := 0

	for i, proc := range processors {
		select {
		case <-ctx.Done():
			return result, &Error[T]{
				Err:       ctx.Err(),
				InputData: value,
				Path:      []Name{c.name},
				Timeout:   errors.Is(ctx.Err(), context.DeadlineExceeded),
				Canceled:  errors.Is(ctx.Err(), context.Canceled),
				Timestamp: time.Now(),
			}
		default:
			stageCtx, stageSpan := c.tracer.StartSpan(ctx, SequenceStageSpan)
			stageSpan.SetTag(SequenceTagStageNumber, fmt.Sprintf("%d", i+1))
			stageSpan.SetTag(SequenceTagProcessorName, string(proc.Name()))

			stageStart := time.Now()
			result, err = proc.Process(stageCtx, result)
			stageDuration := time.Since(stageStart)
			stageSpan.Finish()

			if err == nil {
				stagesCompleted++
				c.metrics.Gauge(SequenceStagesCompleted).Set(float64(stagesCompleted))

				_ = c.hooks.Emit(ctx, SequenceEventStageComplete, SequenceEvent{ //nolint:errcheck
					Name:        c.name,
					StageName:   proc.Name(),
					StageNumber: i + 1,
					TotalStages: len(processors),
					Success:     true,
					Duration:    stageDuration,
					Timestamp:   time.Now(),
				})
				continue
			}

			_ = c.hooks.Emit(ctx, SequenceEventStageComplete, SequenceEvent{ //nolint:errcheck
				Name:        c.name,
				StageName:   proc.Name(),
				StageNumber: i + 1,
				TotalStages: len(processors),
				Success:     false,
				Error:       err,
				Duration:    stageDuration,
				Timestamp:   time.Now(),
			})

			var pipeErr *Error[T]
			if errors.As(err, &pipeErr) {
				// Prepend this sequence's name to the path.
				pipeErr.Path = append([]Name{c.name}, pipeErr.Path...)
				return result, pipeErr
			}
			// Wrap non-pipeline errors without altering the cause.
			return result, &Error[T]{
				Timestamp: time.Now(),
				InputData: value,
				Err:       err,
				Path:      []Name{c.name, proc.Name()},
			}
		}
	}

	totalDuration := time.Since(start)
	_ = c.hooks.Emit(ctx, SequenceEventAllComplete, SequenceEvent{ //nolint:errcheck
		Name:            c.name,
		TotalStages:     len(processors),
		CompletedStages: stagesCompleted,
		TotalDuration:   totalDuration,
		Success:         true,
		Timestamp:       time.Now(),
	})

	return result, nil
}

// Len returns the number of processors in the Sequence.
func (c *Sequence[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.processors)
}

// Clear removes all processors from the Sequence.
func (c *Sequence[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = c.processors[:0]
}

// Unshift adds processors to the front of the Sequence (runs first).
func (c *Sequence[T]) Unshift(processors ...Chainable[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = slices.Insert(c.processors, 0, processors...)
}

// Push adds processors to the back of the Sequence (runs last).
func (c *Sequence[T]) Push(processors ...Chainable[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processors = append(c.processors, processors...)
}

// Shift removes and returns the first processor.
func (c *Sequence[T]) Shift() (Chainable[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.processors) == 0 {
		var zero Chainable[T]
		return zero, ErrEmptySequence
	}

	processor := c.processors[0]
	c.processors = c.processors[1:]
	return processor, nil
}

// Pop removes and returns the last processor.
func (c *Sequence[T]) Pop() (Chainable[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.processors) == 0 {
		var zero Chainable[T]
		return zero, ErrEmptySequence
	}

	lastIndex := len(c.processors) - 1
	processor := c.processors[lastIndex]
	c.processors = c.processors[:lastIndex]
	return processor, nil
}

// Names returns the names of all processors in order.
func (c *Sequence[T]) Names() []Name {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]Name, len(c.processors))
	for i, proc := range c.processors {
		names[i] = proc.Name()
	}
	return names
}

// Remove removes the first processor with the specified name.
func (c *Sequence[T]) Remove(name Name) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, proc := range c.processors {
		if proc.Name() == name {
			c.processors = slices.Delete(c.processors, i, i+1)
			return nil
		}
	}

	return fmt.Errorf("processor %q not found", name)
}

// Replace replaces the first processor with the specified name.
func (c *Sequence[T]) Replace(name Name, processor Chainable[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, proc := range c.processors {
		if proc.Name() == name {
			c.processors[i] = processor
			return nil
		}
	}

	return fmt.Errorf("processor %q not found", name)
}

// After inserts processors after the first processor with the specified name.
func (c *Sequence[T]) After(afterName Name, processors ...Chainable[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, proc := range c.processors {
		if proc.Name() == afterName {
			c.processors = slices.Insert(c.processors, i+1, processors...)
			return nil
		}
	}

	return fmt.Errorf("processor %q not found", afterName)
}

// Before inserts processors before the first processor with the specified name.
func (c *Sequence[T]) Before(beforeName Name, processors ...Chainable[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, proc := range c.processors {
		if proc.Name() == beforeName {
			c.processors = slices.Insert(c.processors, i, processors...)
			return nil
		}
	}

	return fmt.Errorf("processor %q not found", beforeName)
}

// Name returns the name of this sequence.
func (c *Sequence[T]) Name() Name {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// Metrics returns the metrics registry for this pipeline.
func (c *Sequence[T]) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this pipeline.
func (c *Sequence[T]) Tracer() *tracez.Tracer {
	return c.tracer
}

// Close gracefully shuts down observability components.
func (c *Sequence[T]) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}

// OnStageComplete registers a handler for when an individual stage completes.
// The handler is called asynchronously each time a stage finishes, whether it
// succeeds or fails.
func (c *Sequence[T]) OnStageComplete(handler func(context.Context, SequenceEvent) error) error {
	_, err := c.hooks.Hook(SequenceEventStageComplete, handler)
	return err
}

// OnAllComplete registers a handler for when all stages have completed
// successfully. The event includes aggregate statistics about the run.
func (c *Sequence[T]) OnAllComplete(handler func(context.Context, SequenceEvent) error) error {
	_, err := c.hooks.Hook(SequenceEventAllComplete, handler)
	return err
}
