//go:build unix

package guard

import (
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// outputActive enforces the no-nesting rule for output suppression.
var outputActive atomic.Bool

// SavedOutput captures the state of the standard-error stream before
// suppression so it can be reinstalled afterwards.
type SavedOutput struct {
	// previousFD is a duplicate of the original stderr descriptor, owned
	// exclusively by this record until Release reinstalls it.
	previousFD int

	// redirectFD is the discard destination, owned until installed.
	redirectFD int

	// position is the byte offset of the original stream, meaningful
	// only when seekable is set (stderr on a pipe or tty is not).
	position int64
	seekable bool

	status Status
}

// Status reports where the record is in its lifecycle.
func (s *SavedOutput) Status() Status { return s.status }

// AcquireOutputSuppression redirects the process's standard error to the
// discard device and returns a record from which the original
// destination can be reinstalled.
//
// On any failure after the original descriptor was duplicated the
// duplicate is reinstalled best-effort and every temporary descriptor is
// closed; callers must not assume standard error is left redirected
// after a failed acquire. Acquiring while another suppression is active
// fails with ErrActiveOverride and does not disturb the installed state.
func AcquireOutputSuppression() (*SavedOutput, error) {
	if !outputActive.CompareAndSwap(false, true) {
		return nil, &OpError{Op: "suppress output", Err: ErrActiveOverride}
	}

	s := &SavedOutput{previousFD: -1, redirectFD: -1, status: StatusFailed}
	stderrFD := int(os.Stderr.Fd())

	// Pending writes must land on the original destination, and the
	// offset has to be captured before the stream is swapped out.
	_ = os.Stderr.Sync()
	if pos, err := unix.Seek(stderrFD, 0, io.SeekCurrent); err == nil {
		s.position, s.seekable = pos, true
	}

	dup, err := SafeDup(stderrFD)
	if err != nil {
		outputActive.Store(false)
		return nil, err
	}
	s.previousFD = dup

	null, err := unix.Open(os.DevNull, unix.O_WRONLY|unix.O_APPEND|unix.O_CLOEXEC, 0o777)
	if err != nil {
		errno := errnoOf(err)
		// Nothing was installed yet; put the duplicate back over stderr
		// anyway so the stream is in a known state, then drop it.
		_ = unix.Dup2(s.previousFD, stderrFD)
		_ = SafeClose(s.previousFD)
		s.previousFD = -1
		outputActive.Store(false)
		return nil, osError("open null device", errno)
	}
	s.redirectFD = null

	if err := unix.Dup2(s.redirectFD, stderrFD); err != nil {
		errno := errnoOf(err)
		_ = unix.Dup2(s.previousFD, stderrFD)
		_ = SafeClose(s.previousFD)
		_ = SafeClose(s.redirectFD)
		s.previousFD, s.redirectFD = -1, -1
		outputActive.Store(false)
		return nil, osError("install null device", errno)
	}

	// Installed; the stream holds its own reference now.
	_ = SafeClose(s.redirectFD)
	s.redirectFD = -1

	s.status = StatusAcquired
	return s, nil
}

// Release reinstalls the original standard-error destination captured by
// AcquireOutputSuppression, closes the duplicate and restores the
// recorded stream position where the stream supports seeking.
//
// Calling Release on a record whose acquire failed or never ran is a
// no-op that reports ErrNotAcquired without side effects.
func (s *SavedOutput) Release() error {
	if s == nil || s.status != StatusAcquired || s.previousFD < 0 {
		return &OpError{Op: "restore output", Err: ErrNotAcquired}
	}

	stderrFD := int(os.Stderr.Fd())
	_ = os.Stderr.Sync()

	if err := unix.Dup2(s.previousFD, stderrFD); err != nil {
		// The redirect is still installed; keep the record acquired so
		// the caller can retry, and keep new acquires locked out.
		return osError("reinstall stderr", errnoOf(err))
	}
	_ = SafeClose(s.previousFD)
	s.previousFD = -1

	if s.seekable {
		_, _ = unix.Seek(stderrFD, s.position, io.SeekStart)
	}

	s.status = StatusReleased
	outputActive.Store(false)
	return nil
}
