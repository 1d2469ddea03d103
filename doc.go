// Package foldpipe provides a lightweight, type-safe library for composing named
// data processors into fail-fast pipelines, together with a copy-on-write matrix
// engine whose row, column, element, transpose, filter, sort and conversion
// operations are themselves processors.
//
// # Core Concepts
//
// The library is built around a single, uniform interface:
//
//	type Chainable[T any] interface {
//	    Process(context.Context, T) (T, error)
//	    Name() Name
//	}
//
// Key components:
//   - Processors: individual steps created with adapter functions (Transform, Apply, Effect)
//     or constructed from a parameter map through a Registry
//   - Sequence: ordered composition that folds processors left to right, stopping at
//     the first error
//   - Trace: a decorator that logs before/after records around any processor,
//     gated by an explicit LogConfig value
//   - Registry: a name → builder table with overwrite-friendly registration and
//     lazy entries promoted on first use
//
// Design philosophy:
//   - Processors are immutable values (simple functions wrapped with metadata)
//   - Pipelines are mutable pointers (configurable containers with state)
//   - Matrix operations never mutate their input; every mutating operation
//     returns a newly allocated Matrix
//
// Registry-built pipelines operate on Chainable[any]: a stage may turn a string
// into a token list, a token list into a frequency map, or a Matrix into a row.
// Statically typed pipelines can instantiate the framework at any concrete T.
//
// # Quick Start
//
//	reg := foldpipe.NewDefault()
//	pipe, err := reg.Pipeline("report", nil,
//	    foldpipe.Step{Name: "matrix_transpose"},
//	    foldpipe.Step{Name: "matrix_row", Params: foldpipe.Params{"operation": "get", "index": 1}},
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := pipe.Process(context.Background(), foldpipe.Matrix{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}})
//	// out: []any{2, 5, 8}
//
// # Error Handling
//
// Execution is fail-fast: the first failing stage aborts the pipeline call and
// the stage error propagates unmodified inside an *Error[T] that records the
// path, input data and timing. Domain failures carry sentinel kinds
// (ErrIndexOutOfBounds, ErrDimensionMismatch, ...) matchable with errors.Is and
// structured payloads reachable with errors.As.
package foldpipe
