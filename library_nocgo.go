//go:build !cgo

package magickit

import "syscall"

// OpenLibrary reports that no native magic library is linked into this
// binary. The dispatcher and guards remain usable against injected
// Library implementations.
func OpenLibrary(flags Flag) (Library, error) {
	return nil, &Error{
		Op:    "open",
		Errno: int(syscall.ENOSYS),
		Err:   ErrNotSupported,
	}
}

// nativeVersion reports no linked library.
func nativeVersion() int { return -1 }
