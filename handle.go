package foldpipe

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Handle decorator.
const (
	// Metrics.
	HandleProcessedTotal = metricz.Key("handle.processed.total")
	HandleErrorsTotal    = metricz.Key("handle.errors.total")
	HandleObserverErrors = metricz.Key("handle.observer.errors.total")

	// Spans.
	HandleProcessSpan = tracez.Key("handle.process")

	// Tags.
	HandleTagHasError = tracez.Tag("handle.has_error")

	// Hook event keys.
	HandleEventError    = hookz.Key("handle.error")
	HandleEventObserved = hookz.Key("handle.observed")
)

// HandleEvent is emitted when a wrapped processor fails and its error is
// routed to the observer.
type HandleEvent struct {
	Name          Name
	ProcessorName Name
	Error         error
	ObserverError error
	InputData     any
	Timestamp     time.Time
}

// Handle routes processor failures to an observer without altering the
// outcome: the wrapped processor's error always propagates to the caller.
// The observer receives the full *Error[T] (input data, path, timing) and
// is the place to log, collect, or compensate. An observer failure is
// counted but never replaces the original error.
type Handle[T any] struct {
	processor Chainable[T]
	observer  Chainable[*Error[T]]
	name      Name
	mu        sync.RWMutex
	metrics   *metricz.Registry
	tracer    *tracez.Tracer
	hooks     *hookz.Hooks[HandleEvent]
}

// NewHandle wraps processor so that failures are routed to observer before
// propagating.
func NewHandle[T any](name Name, processor Chainable[T], observer Chainable[*Error[T]]) *Handle[T] {
	metrics := metricz.New()
	metrics.Counter(HandleProcessedTotal)
	metrics.Counter(HandleErrorsTotal)
	metrics.Counter(HandleObserverErrors)

	return &Handle[T]{
		name:      name,
		processor: processor,
		observer:  observer,
		metrics:   metrics,
		tracer:    tracez.New(),
		hooks:     hookz.New[HandleEvent](),
	}
}

// Process implements Chainable. The wrapped processor runs first; on failure
// the error, normalized to *Error[T], is handed to the observer and then
// returned unchanged.
func (h *Handle[T]) Process(ctx context.Context, input T) (result T, err error) {
	defer recoverFromPanic(&result, &err, h.name, input)

	h.metrics.Counter(HandleProcessedTotal).Inc()
	ctx, span := h.tracer.StartSpan(ctx, HandleProcessSpan)
	defer func() {
		if err != nil {
			span.SetTag(HandleTagHasError, "true")
		} else {
			span.SetTag(HandleTagHasError, "false")
		}
		span.Finish()
	}()

	h.mu.RLock()
	processor := h.processor
	observer := h.observer
	h.mu.RUnlock()

	result, err = processor.Process(ctx, input)
	if err == nil {
		return result, nil
	}

	h.metrics.Counter(HandleErrorsTotal).Inc()
	_ = h.hooks.Emit(ctx, HandleEventError, HandleEvent{ //nolint:errcheck
		Name:          h.name,
		ProcessorName: processor.Name(),
		Error:         err,
		InputData:     input,
		Timestamp:     time.Now(),
	})

	var pipeErr *Error[T]
	if errors.As(err, &pipeErr) {
		pipeErr.Path = append([]Name{h.name}, pipeErr.Path...)
	} else {
		pipeErr = &Error[T]{
			Timestamp: time.Now(),
			InputData: input,
			Err:       err,
			Path:      []Name{h.name, processor.Name()},
		}
	}

	_, observerErr := observer.Process(ctx, pipeErr)
	if observerErr != nil {
		h.metrics.Counter(HandleObserverErrors).Inc()
	}
	_ = h.hooks.Emit(ctx, HandleEventObserved, HandleEvent{ //nolint:errcheck
		Name:          h.name,
		ProcessorName: processor.Name(),
		Error:         err,
		ObserverError: observerErr,
		InputData:     input,
		Timestamp:     time.Now(),
	})

	return result, err
}

// Name returns the name of this decorator.
func (h *Handle[T]) Name() Name {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.name
}

// SetObserver replaces the error observer.
func (h *Handle[T]) SetObserver(observer Chainable[*Error[T]]) *Handle[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observer = observer
	return h
}

// Metrics returns the metrics registry for this decorator.
func (h *Handle[T]) Metrics() *metricz.Registry {
	return h.metrics
}

// Tracer returns the tracer for this decorator.
func (h *Handle[T]) Tracer() *tracez.Tracer {
	return h.tracer
}

// Close shuts down observability components.
func (h *Handle[T]) Close() error {
	if h.tracer != nil {
		h.tracer.Close()
	}
	h.hooks.Close()
	return nil
}

// OnError registers a hook fired when the wrapped processor fails.
func (h *Handle[T]) OnError(handler func(context.Context, HandleEvent) error) error {
	_, err := h.hooks.Hook(HandleEventError, handler)
	return err
}

// OnObserved registers a hook fired after the observer has seen the error.
func (h *Handle[T]) OnObserved(handler func(context.Context, HandleEvent) error) error {
	_, err := h.hooks.Hook(HandleEventObserved, handler)
	return err
}
