// Package viewmodel holds the state containers behind the catalog, form and
// detail screens. Every container keeps its state in a single snapshot that
// is replaced through reducer functions; derived values are pure methods on
// the snapshot types.
//
// Each async operation follows the same Async Load State pattern:
//
//	state = state.Begin()               // Loading, Err and Value cleared
//	v, err := collaborator(ctx, ...)    // the only suspension point
//	state = state.Succeed(v) / Fail(msg) // exactly one of Value or Err set
//
// Public methods never return the collaborator's error. Failures are
// normalized to a display string and stored in the state's Err field.
package viewmodel

// LoadState tracks one async operation.
type LoadState[T any] struct {
	Loading  bool
	Err      string
	Value    T
	HasValue bool
}

// Begin returns the state at call start.
func (s LoadState[T]) Begin() LoadState[T] {
	return LoadState[T]{Loading: true}
}

// Succeed returns the settled state holding v.
func (s LoadState[T]) Succeed(v T) LoadState[T] {
	return LoadState[T]{Value: v, HasValue: true}
}

// Fail returns the settled state holding msg.
func (s LoadState[T]) Fail(msg string) LoadState[T] {
	return LoadState[T]{Err: msg}
}

// Clear returns the idle state.
func (s LoadState[T]) Clear() LoadState[T] {
	return LoadState[T]{}
}

// ClearValue drops the value and keeps Loading and Err.
func (s LoadState[T]) ClearValue() LoadState[T] {
	var zero T
	s.Value = zero
	s.HasValue = false
	return s
}

// HasError reports whether the last call failed.
func (s LoadState[T]) HasError() bool {
	return s.Err != ""
}

// Idle reports whether nothing is loading, loaded or failed.
func (s LoadState[T]) Idle() bool {
	return !s.Loading && !s.HasValue && s.Err == ""
}
