package foldpipe

import (
	"context"
	"errors"
	"time"
)

// Effect creates a Processor that performs a side effect without modifying the data.
// The function can inspect the value and return an error to halt the pipeline,
// but the data always passes through unchanged on success.
//
// Effect is ideal for:
//   - Validation that doesn't modify data
//   - Audit logging
//   - Emitting notifications
//
// Example:
//
//	nonEmpty := foldpipe.Effect("non_empty", func(_ context.Context, s string) error {
//	    if s == "" {
//	        return errors.New("empty input")
//	    }
//	    return nil
//	})
func Effect[T any](name Name, fn func(context.Context, T) error) Processor[T] {
	return Processor[T]{
		name: name,
		fn: func(ctx context.Context, value T) (result T, err error) {
			defer recoverFromPanic(&result, &err, name, value)

			start := time.Now()
			if ferr := fn(ctx, value); ferr != nil {
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
			return value, nil
		},
	}
}
