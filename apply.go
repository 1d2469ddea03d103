package foldpipe

import (
	"context"
	"errors"
	"time"
)

// Apply creates a Processor from a function that transforms data and may return an error.
// Apply is the workhorse processor - use it when your transformation might fail due to
// validation, parsing, or business rule violations.
//
// The function receives a context for timeout/cancellation support. On error,
// the pipeline stops immediately and the error is returned wrapped with
// debugging context.
//
// Apply is ideal for:
//   - Data validation with transformation
//   - Parsing operations that might fail
//   - Lookups that enhance data
//
// For pure transformations that can't fail, use Transform for better performance.
//
// Example:
//
//	parse := foldpipe.Apply("parse_csv", func(_ context.Context, raw string) (Matrix, error) {
//	    return parseCSVContent(raw, ',', false, 0)
//	})
func Apply[T any](name Name, fn func(context.Context, T) (T, error)) Processor[T] {
	return Processor[T]{
		name: name,
		fn: func(ctx context.Context, value T) (result T, err error) {
			defer recoverFromPanic(&result, &err, name, value)

			start := time.Now()
			result, ferr := fn(ctx, value)
			if ferr != nil {
				var zero T
				return zero, &Error[T]{
					Path:      []Name{name},
					InputData: value,
					Err:       ferr,
					Timestamp: time.Now(),
					Duration:  time.Since(start),
					Timeout:   errors.Is(ferr, context.DeadlineExceeded),
					Canceled:  errors.Is(ferr, context.Canceled),
				}
			}
			return result, nil
		},
	}
}
