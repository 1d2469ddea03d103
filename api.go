package foldpipe

import "context"

// Chainable defines the interface for any component that can process
// values of type T. Every processor, pipeline and decorator in this
// package implements it, enabling seamless composition while keeping
// type safety through Go generics.
//
// Key design principles:
//   - Context support on every call
//   - Error propagation for fail-fast behavior
//   - Immutable by convention (return modified copies)
//   - Named components for debugging and trace records
type Chainable[T any] interface {
	Process(context.Context, T) (T, error)
	Name() Name
}

// Name is a type alias for processor and pipeline names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
type Name = string

// Processor defines a named processing stage that transforms a value of type T.
// It is the basic building block created by the adapter functions Transform,
// Apply and Effect. The name appears in Error[T].Path to identify exactly
// where failures occur.
//
// The fn field is intentionally private so processors are only created through
// the adapter functions, keeping error handling and panic recovery consistent.
type Processor[T any] struct {
	fn   func(context.Context, T) (T, error)
	name Name
}

// Process implements the Chainable interface, allowing individual processors
// to be used directly or composed in a Sequence.
func (p Processor[T]) Process(ctx context.Context, data T) (T, error) {
	return p.fn(ctx, data)
}

// Name returns the name of the processor for debugging and error reporting.
func (p Processor[T]) Name() Name {
	return p.name
}

// Cloner is an interface for types that can create deep copies of themselves.
// Matrix implements it; callers that need snapshot isolation of other value
// types can implement it too.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value.
type Cloner[T any] interface {
	Clone() T
}
