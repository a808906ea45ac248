package magickit

import (
	"errors"
	"fmt"
)

// Common errors reported before any native call is made
var (
	ErrNotOpen        = errors.New("magic library is not open")
	ErrNotImplemented = errors.New("function is not implemented")
	ErrInvalidFlags   = errors.New("unknown or invalid flag specified")
	ErrNotSupported   = errors.New("magic library support is not compiled in")
	ErrEmptyResult    = errors.New("unknown or empty result")
)

// Error records a failure reported by the magic library or by the
// compatibility layer in front of it.
type Error struct {
	// Op names the operation that failed.
	Op string

	// Errno is the error code accompanying the failure, zero if none.
	Errno int

	// Message is the library's error text, when it produced one.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Op != "":
		return fmt.Sprintf("magic: %s: %s", e.Op, e.Message)
	case e.Message != "":
		return fmt.Sprintf("magic: %s", e.Message)
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("magic: %s: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("magic: %v", e.Err)
	default:
		return fmt.Sprintf("magic: %s failed (errno %d)", e.Op, e.Errno)
	}
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotImplemented reports whether an error indicates a capability the
// linked library version does not provide.
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}

// IsInvalidFlags reports whether an error indicates a flag value that
// was rejected before reaching the native layer.
func IsInvalidFlags(err error) bool {
	return errors.Is(err, ErrInvalidFlags)
}
