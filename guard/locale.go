package guard

import "sync/atomic"

// localeRef is an opaque handle to a locale object. What it holds is up
// to the controller that produced it; records never inspect it.
type localeRef any

// localeController abstracts the platform locale facility so the guard
// logic stays testable. The production controller is selected per build
// (native locale objects with cgo, an LC_ALL environment swap without).
type localeController interface {
	// newFixed constructs a locale object configured as the portable
	// "C" locale. The caller owns the returned handle.
	newFixed() (localeRef, error)

	// install makes ref the active locale and returns the previously
	// active one. The returned handle is a loan from the locale
	// subsystem; it must never be freed.
	install(ref localeRef) (localeRef, error)

	// free disposes of a handle produced by newFixed.
	free(ref localeRef)
}

// localeActive enforces the no-nesting rule for locale overrides.
var localeActive atomic.Bool

// SavedLocale captures the locale that was active before the fixed "C"
// locale was installed.
type SavedLocale struct {
	// previous is borrowed from the locale subsystem, never freed here.
	previous localeRef

	// installed is the "C" locale this record created; freed exactly
	// once, only after it has been made inactive again.
	installed localeRef

	status Status
	ctl    localeController
}

// Status reports where the record is in its lifecycle.
func (s *SavedLocale) Status() Status { return s.status }

// AcquireFixedLocale installs the portable "C" locale and returns a
// record from which the previous locale can be reinstalled. The magic
// library formats numbers and dates in generated descriptions according
// to the active locale; pinning it makes those strings reproducible
// regardless of the caller's environment.
//
// On failure no locale change is left in effect. Acquiring while
// another override is active fails with ErrActiveOverride.
func AcquireFixedLocale() (*SavedLocale, error) {
	return acquireFixedLocale(systemLocale)
}

func acquireFixedLocale(ctl localeController) (*SavedLocale, error) {
	if !localeActive.CompareAndSwap(false, true) {
		return nil, &OpError{Op: "override locale", Err: ErrActiveOverride}
	}

	s := &SavedLocale{status: StatusFailed, ctl: ctl}

	installed, err := ctl.newFixed()
	if err != nil {
		localeActive.Store(false)
		return nil, &OpError{Op: "construct C locale", Errno: errnoOf(err), Err: err}
	}

	previous, err := ctl.install(installed)
	if err != nil {
		ctl.free(installed)
		localeActive.Store(false)
		return nil, &OpError{Op: "install C locale", Errno: errnoOf(err), Err: err}
	}

	s.previous = previous
	s.installed = installed
	s.status = StatusAcquired
	return s, nil
}

// Release reinstalls the previously active locale; only after that
// succeeds does it free the locale object created at acquire time, so
// an active locale is never freed.
//
// Calling Release on a record whose acquire failed or never ran is a
// no-op that reports ErrNotAcquired.
func (s *SavedLocale) Release() error {
	if s == nil || s.status != StatusAcquired {
		return &OpError{Op: "restore locale", Err: ErrNotAcquired}
	}

	if _, err := s.ctl.install(s.previous); err != nil {
		// The fixed locale is still active; freeing it now would pull
		// the locale out from under the process.
		s.status = StatusFailed
		return &OpError{Op: "reinstall previous locale", Errno: errnoOf(err), Err: err}
	}

	s.ctl.free(s.installed)
	s.installed = nil
	s.status = StatusReleased
	localeActive.Store(false)
	return nil
}
