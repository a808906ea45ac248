// Package guard provides scoped overrides of process-wide resources that
// the magic library is known to disturb: the standard-error destination
// and the active locale.
//
// Both overrides follow the same acquire/release shape. Acquire captures
// the current state in a saved-state record and installs the override;
// Release reinstalls the captured state and disposes of anything the
// guard created. Release runs on every exit path of a guarded call, so
// the overridden resource never outlives the call it was overridden for.
//
// Overrides do not nest. Standard error and the locale are process-wide,
// so at most one override of each kind may be active at a time; a second
// acquire fails without touching the installed state. The package holds
// no internal lock beyond that check — callers that invoke guarded
// operations from multiple goroutines must serialize them externally.
package guard

import (
	"fmt"
	"syscall"
)

// Status records where a saved-state record is in its lifecycle.
type Status int

const (
	// StatusUninitialized means the record was never acquired.
	StatusUninitialized Status = iota

	// StatusAcquired means the override is installed and must be released.
	StatusAcquired

	// StatusReleased means the prior state was reinstalled.
	StatusReleased

	// StatusFailed means acquire or release failed; the record must not
	// be released (again).
	StatusFailed
)

// Sentinel errors returned by the guard operations.
var (
	// ErrActiveOverride is returned when an override of the same kind is
	// already installed. Overrides do not nest.
	ErrActiveOverride = fmt.Errorf("an override of this kind is already active")

	// ErrNotAcquired is returned by Release when the record never
	// completed a successful acquire. The call is a no-op.
	ErrNotAcquired = fmt.Errorf("override was never acquired")

	// ErrNotSupported is returned on platforms without the required
	// descriptor facilities.
	ErrNotSupported = fmt.Errorf("operation not supported on this platform")
)

// OpError records a failed guard operation and the OS error that caused
// it, when one exists.
type OpError struct {
	// Op names the operation that failed ("dup stderr", "open null", ...).
	Op string

	// Errno is the originating OS error code, zero when the failure was
	// not an OS error.
	Errno syscall.Errno

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("guard: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// osError wraps an errno-carrying failure.
func osError(op string, errno syscall.Errno) *OpError {
	return &OpError{Op: op, Errno: errno, Err: errno}
}

// errnoOf extracts the errno from an OS call result.
func errnoOf(err error) syscall.Errno {
	if errno, ok := err.(syscall.Errno); ok {
		return errno
	}
	return 0
}
