package magickit

import (
	"errors"
	"fmt"
	"syscall"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"op and message",
			&Error{Op: "load database", Message: "could not find any valid magic files"},
			"magic: load database: could not find any valid magic files",
		},
		{
			"message only",
			&Error{Message: "unknown error"},
			"magic: unknown error",
		},
		{
			"op and wrapped error",
			&Error{Op: "query version", Err: ErrNotImplemented},
			"magic: query version: function is not implemented",
		},
		{
			"errno only",
			&Error{Op: "set flags", Errno: int(syscall.EINVAL)},
			fmt.Sprintf("magic: set flags failed (errno %d)", int(syscall.EINVAL)),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("Error() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := &Error{Op: "set flags", Errno: int(syscall.EINVAL), Err: ErrInvalidFlags}
	if !errors.Is(err, ErrInvalidFlags) {
		t.Error("errors.Is does not see the wrapped sentinel")
	}

	osErr := &Error{Op: "classify file", Errno: int(syscall.ENOENT), Err: syscall.ENOENT}
	if !errors.Is(osErr, syscall.ENOENT) {
		t.Error("errors.Is does not see the wrapped errno")
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsNotImplemented(&Error{Err: ErrNotImplemented}) {
		t.Error("IsNotImplemented() = false")
	}
	if IsNotImplemented(&Error{Err: ErrInvalidFlags}) {
		t.Error("IsNotImplemented() = true for an invalid-flags error")
	}
	if !IsInvalidFlags(&Error{Err: ErrInvalidFlags}) {
		t.Error("IsInvalidFlags() = false")
	}
	if IsInvalidFlags(errors.New("unrelated")) {
		t.Error("IsInvalidFlags() = true for an unrelated error")
	}
}
