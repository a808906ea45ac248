//go:build unix

package guard

import (
	"errors"

	"golang.org/x/sys/unix"
)

// minDupSlot is the lowest descriptor number SafeDup may hand out, one
// past the standard stream range so a duplicate can never shadow
// stdin, stdout or stderr.
const minDupSlot = 3

// atomicCloexecDup selects between F_DUPFD_CLOEXEC and the two-step
// duplicate-then-mark fallback. Set once at startup from the capability
// table; overridable in tests.
var atomicCloexecDup = true

// SetAtomicCloexecDup selects whether SafeDup may use the atomic
// duplicate-and-mark-close-on-exec operation. The two-step fallback is
// used when disabled.
func SetAtomicCloexecDup(enabled bool) { atomicCloexecDup = enabled }

// HasAtomicCloexecDup reports whether SafeDup duplicates and marks
// close-on-exec in a single operation.
func HasAtomicCloexecDup() bool { return atomicCloexecDup }

// HasDescriptorProbe reports whether descriptor validity can be queried
// through the OS (see CheckDescriptor).
func HasDescriptorProbe() bool { return true }

// SafeDup duplicates fd to a slot above the standard stream range and
// marks the duplicate close-on-exec.
//
// With atomic duplication the mark happens in the same operation.
// Otherwise the duplicate is marked in a second step; if that step
// fails the duplicate is left open and the error is returned — callers
// see the failure rather than a silently unmarked descriptor.
func SafeDup(fd int) (int, error) {
	cmd := unix.F_DUPFD
	if atomicCloexecDup {
		cmd = unix.F_DUPFD_CLOEXEC
	}

	newFD, err := unix.FcntlInt(uintptr(fd), cmd, minDupSlot)
	if err != nil && errors.Is(err, unix.EINVAL) {
		newFD, err = unix.Dup(fd)
		if err != nil {
			return -1, osError("dup", errnoOf(err))
		}
		if err := setCloexec(newFD); err != nil {
			return -1, err
		}
		return newFD, nil
	}
	if err != nil {
		return -1, osError("dup", errnoOf(err))
	}

	if !atomicCloexecDup {
		if err := setCloexec(newFD); err != nil {
			return -1, err
		}
	}
	return newFD, nil
}

// setCloexec marks fd close-on-exec in two steps.
func setCloexec(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return osError("get descriptor flags", errnoOf(err))
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags|unix.FD_CLOEXEC); err != nil {
		return osError("set close-on-exec", errnoOf(err))
	}
	return nil
}

// SafeClose closes fd, normalizing an interrupted close. A close that
// fails with EINTR still completes in the kernel on the supported
// platforms, so it is reported as EINPROGRESS — an in-flight close the
// caller must not retry — rather than a hard failure.
func SafeClose(fd int) error {
	if err := unix.Close(fd); err != nil {
		if errors.Is(err, unix.EINTR) {
			return osError("close", unix.EINPROGRESS)
		}
		return osError("close", errnoOf(err))
	}
	return nil
}

// CheckDescriptor reports whether fd refers to an open descriptor. A
// descriptor is invalid only when it is negative or querying its flags
// fails with EBADF; any other query failure counts as valid-but-errored
// and is left for the caller to interpret.
func CheckDescriptor(fd int) error {
	if fd < 0 {
		return osError("check descriptor", unix.EBADF)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0); err != nil && errors.Is(err, unix.EBADF) {
		return osError("check descriptor", unix.EBADF)
	}
	return nil
}
