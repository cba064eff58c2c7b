package flyweight

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Get input contract.
var (
	// ErrNilContext indicates Get was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrNilConstructor indicates Get was called without a constructor.
	ErrNilConstructor = errors.New("constructor cannot be nil")

	// ErrConstructionFailed indicates a constructor could not produce a
	// value. The key stays absent and a later Get retries construction.
	ErrConstructionFailed = errors.New("construction failed")
)

// ConstructionError wraps a constructor failure with the key that was
// being built. It matches ErrConstructionFailed via errors.Is, and
// Unwrap exposes the constructor's own error.
type ConstructionError struct {
	// Key is the text form of the key under construction.
	Key string
	// Err is the error returned by the constructor.
	Err error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct %q: %v", e.Key, e.Err)
}

// Unwrap returns the constructor's error for errors.Is/As support.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Is reports a match for ErrConstructionFailed so callers can test
// the category without naming the concrete type.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstructionFailed
}
