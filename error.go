package foldpipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel kinds for the error taxonomy. Structured error types below wrap
// exactly one of these, so callers can branch with errors.Is and reach the
// payload with errors.As.
var (
	// ErrProcessorNotFound indicates a requested name is absent from both the
	// active and pending registry maps.
	ErrProcessorNotFound = errors.New("processor not found")

	// ErrParameter indicates a processor parameter is missing, of the wrong
	// kind, or outside its declared set.
	ErrParameter = errors.New("invalid parameter")

	// ErrIndexOutOfBounds indicates a row or column index is negative or
	// beyond the relevant dimension.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrDimensionMismatch indicates a supplied row or column does not match
	// the matrix's opposite dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMatrixValidation indicates the matrix is not a well-formed
	// rectangular table.
	ErrMatrixValidation = errors.New("matrix validation failed")

	// ErrInvalidInput indicates a processor received a value of an
	// unsupported shape or type.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFileRead wraps any failure from the file layer.
	ErrFileRead = errors.New("file read failed")
)

// Dimension names the axis an index or length error refers to.
type Dimension string

// Axis values carried by IndexOutOfBoundsError and DimensionMismatchError.
const (
	DimRow    Dimension = "row"
	DimColumn Dimension = "column"
)

// Error provides rich context about pipeline execution failures.
// It wraps the underlying error with information about where and when
// the failure occurred, what data was being processed, and whether
// the failure was due to timeout or cancellation.
//
// Path accumulates outermost-first: a failure in processor "get" inside
// sequence "report" yields Path ["report", "get"].
type Error[T any] struct {
	InputData T
	Timestamp time.Time
	Err       error
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error[T]) Error() string {
	location := strings.Join(e.Path, " -> ")
	if location == "" {
		location = "pipeline"
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", location, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
// Domain sentinels remain matchable through the pipeline wrapper:
// errors.Is(err, ErrIndexOutOfBounds) works on the value Process returns.
func (e *Error[T]) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error[T]) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error[T]) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// ProcessorNotFoundError reports a registry miss, carrying the requested name
// and the names that were available at the time.
type ProcessorNotFoundError struct {
	Processor Name
	Available []string
}

func (e *ProcessorNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%v: %q", ErrProcessorNotFound, e.Processor)
	}
	return fmt.Sprintf("%v: %q (available: %s)", ErrProcessorNotFound, e.Processor, strings.Join(e.Available, ", "))
}

func (e *ProcessorNotFoundError) Unwrap() error { return ErrProcessorNotFound }

// ParameterError reports a missing, mistyped, or out-of-set processor
// parameter, detected either at construction or at process time.
type ParameterError struct {
	Processor Name
	Parameter string
	Value     any
	Expected  string
}

func (e *ParameterError) Error() string {
	msg := fmt.Sprintf("%v: processor %q parameter %q has value %v", ErrParameter, e.Processor, e.Parameter, e.Value)
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	return msg
}

func (e *ParameterError) Unwrap() error { return ErrParameter }

// IndexOutOfBoundsError reports a row or column index outside the valid
// range [0, Size).
type IndexOutOfBoundsError struct {
	Op        string
	Index     int
	Size      int
	Dimension Dimension
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("%v: %s index %d outside range [0, %d) in %s", ErrIndexOutOfBounds, e.Dimension, e.Index, e.Size, e.Op)
}

func (e *IndexOutOfBoundsError) Unwrap() error { return ErrIndexOutOfBounds }

// DimensionMismatchError reports a candidate row or column whose length does
// not match the matrix's opposite dimension.
type DimensionMismatchError struct {
	Op        string
	Expected  int
	Actual    int
	Dimension Dimension
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %s length %d, got %d in %s", ErrDimensionMismatch, e.Dimension, e.Expected, e.Actual, e.Op)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// MatrixValidationError reports a malformed or non-rectangular matrix.
// Row is the index of the first offending row, or -1 when the failure is
// not row-specific.
type MatrixValidationError struct {
	Op     string
	Reason string
	Row    int
}

func (e *MatrixValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("%v: %s (row %d) in %s", ErrMatrixValidation, e.Reason, e.Row, e.Op)
	}
	return fmt.Sprintf("%v: %s in %s", ErrMatrixValidation, e.Reason, e.Op)
}

func (e *MatrixValidationError) Unwrap() error { return ErrMatrixValidation }

// InvalidInputError reports a processor given a value of an unsupported
// shape or type.
type InvalidInputError struct {
	Processor Name
	Expected  string
	Value     any
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: processor %q expected %s, got %T", ErrInvalidInput, e.Processor, e.Expected, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// FileReadError wraps a failure from the file layer, preserving the path and
// the underlying cause in the unwrap chain.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %q: %v", ErrFileRead, e.Path, e.Err)
	}
	return fmt.Sprintf("%v: %q", ErrFileRead, e.Path)
}

// Unwrap exposes both the sentinel and the cause via errors.Is/As.
func (e *FileReadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrFileRead, e.Err}
	}
	return []error{ErrFileRead}
}
