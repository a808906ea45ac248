//go:build !unix

package guard

// SavedOutput is a placeholder on platforms without POSIX descriptor
// semantics; suppression is unavailable there.
type SavedOutput struct {
	status Status
}

// Status reports where the record is in its lifecycle.
func (s *SavedOutput) Status() Status { return StatusUninitialized }

// AcquireOutputSuppression is unavailable on this platform.
func AcquireOutputSuppression() (*SavedOutput, error) {
	return nil, &OpError{Op: "suppress output", Err: ErrNotSupported}
}

// Release is a no-op on this platform.
func (s *SavedOutput) Release() error {
	return &OpError{Op: "restore output", Err: ErrNotAcquired}
}

// SetAtomicCloexecDup is a no-op on this platform.
func SetAtomicCloexecDup(enabled bool) {}

// HasAtomicCloexecDup reports false; there is no fcntl here.
func HasAtomicCloexecDup() bool { return false }

// HasDescriptorProbe reports false; descriptor flags cannot be queried.
func HasDescriptorProbe() bool { return false }

// SafeDup is unavailable on this platform.
func SafeDup(fd int) (int, error) {
	return -1, &OpError{Op: "dup", Err: ErrNotSupported}
}

// SafeClose is unavailable on this platform.
func SafeClose(fd int) error {
	return &OpError{Op: "close", Err: ErrNotSupported}
}

// CheckDescriptor is unavailable on this platform.
func CheckDescriptor(fd int) error {
	return &OpError{Op: "check descriptor", Err: ErrNotSupported}
}
