package foldpipe

import (
	"fmt"
	"time"
)

// recoverFromPanic converts a panic inside a processor into an *Error[T] so a
// misbehaving stage fails the pipeline call instead of crashing the process.
// Used as a deferred call; result and err point at the named return values of
// the enclosing Process method.
func recoverFromPanic[T any](result *T, err *error, name Name, input T) {
	if r := recover(); r != nil {
		var zero T
		*result = zero
		*err = &Error[T]{
			Path:      []Name{name},
			InputData: input,
			Err:       fmt.Errorf("panic in processor: %v", r),
			Timestamp: time.Now(),
		}
	}
}
