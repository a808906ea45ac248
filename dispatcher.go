package magickit

import (
	"errors"
	"syscall"

	"github.com/gobeaver/magickit/guard"
)

// Dispatcher wraps each native entry point in a resource-guard scope, a
// signature-normalizing call and the version-specific workarounds the
// linked library release requires.
//
// Every operation follows the same template: acquire the guard scopes
// relevant to the operation, invoke the native routine through the
// selected call convention, release the scopes on every path, and
// return the native result — possibly overridden by a workaround rule.
//
// The dispatcher holds no internal lock. Standard error and the active
// locale are process-wide, so concurrent callers must serialize around
// it; the Magic facade does exactly that with its own mutex.
type Dispatcher struct {
	lib  Library
	caps VersionCapabilities
	conv callConv

	suppressOutput bool
	fixedLocale    bool
}

// DispatcherOptions tunes which guard scopes the dispatcher wraps
// around native calls. The zero value disables both; NewDispatcher
// defaults both on.
type DispatcherOptions struct {
	// SuppressOutput brackets classify/load calls with the stderr
	// redirect. The magic library prints malformed-rule warnings
	// straight to the process's error stream.
	SuppressOutput bool

	// FixedLocale brackets classify/load calls with the "C" locale
	// override so generated descriptions are reproducible.
	FixedLocale bool

	// ForceLegacyCalls makes the dispatcher use the legacy signatures
	// even when the capability table reports flags-argument support.
	ForceLegacyCalls bool
}

// NewDispatcher builds a dispatcher over an opened library handle and a
// capability table, with both guard scopes enabled.
func NewDispatcher(lib Library, caps VersionCapabilities) *Dispatcher {
	return NewDispatcherWithOptions(lib, caps, DispatcherOptions{
		SuppressOutput: true,
		FixedLocale:    true,
	})
}

// NewDispatcherWithOptions builds a dispatcher with explicit guard
// settings.
func NewDispatcherWithOptions(lib Library, caps VersionCapabilities, opts DispatcherOptions) *Dispatcher {
	if opts.ForceLegacyCalls {
		caps.FlagsArgument = false
	}
	return &Dispatcher{
		lib:            lib,
		caps:           caps,
		conv:           convFor(caps),
		suppressOutput: opts.SuppressOutput,
		fixedLocale:    opts.FixedLocale,
	}
}

// Capabilities returns the capability table this dispatcher consults.
func (d *Dispatcher) Capabilities() VersionCapabilities {
	return d.caps
}

// runGuarded executes fn inside the configured guard scopes. Scopes are
// released in reverse acquisition order on every path. A scope that
// fails to acquire does not stop fn from running — availability wins
// over clean diagnostics — but the failure is reported. Release errors
// are reported the same way and never discard what fn produced.
func (d *Dispatcher) runGuarded(fn func()) error {
	var guardErrs []error

	var output *guard.SavedOutput
	if d.suppressOutput {
		saved, err := guard.AcquireOutputSuppression()
		if err != nil {
			guardErrs = append(guardErrs, err)
		} else {
			output = saved
		}
	}

	var locale *guard.SavedLocale
	if d.fixedLocale {
		saved, err := guard.AcquireFixedLocale()
		if err != nil {
			guardErrs = append(guardErrs, err)
		} else {
			locale = saved
		}
	}

	fn()

	if locale != nil {
		if err := locale.Release(); err != nil {
			guardErrs = append(guardErrs, err)
		}
	}
	if output != nil {
		if err := output.Release(); err != nil {
			guardErrs = append(guardErrs, err)
		}
	}
	return errors.Join(guardErrs...)
}

// LoadDatabase loads the rule database at the given path (a list joined
// with Separator is accepted), or the library default when empty.
//
// On success a non-nil return can still carry a guard release failure;
// the database is loaded regardless.
func (d *Dispatcher) LoadDatabase(database string, flags Flag) error {
	if d.lib == nil {
		return notOpenError("load database")
	}
	var rv int
	guardErr := d.runGuarded(func() {
		rv = d.conv.load(d.lib, database, flags)
	})
	if rv < 0 {
		return errors.Join(d.nativeError("load database"), guardErr)
	}
	return guardErr
}

// CompileDatabase compiles the named rule database into binary form,
// writing the result to the current directory as the library does.
func (d *Dispatcher) CompileDatabase(database string, flags Flag) error {
	if d.lib == nil {
		return notOpenError("compile database")
	}
	var rv int
	guardErr := d.runGuarded(func() {
		rv = d.conv.compile(d.lib, database, flags)
	})
	if rv < 0 {
		return errors.Join(d.nativeError("compile database"), guardErr)
	}
	return guardErr
}

// CheckDatabase validates the named rule database.
func (d *Dispatcher) CheckDatabase(database string, flags Flag) error {
	if d.lib == nil {
		return notOpenError("check database")
	}
	var rv int
	guardErr := d.runGuarded(func() {
		rv = d.conv.check(d.lib, database, flags)
	})
	if rv < 0 {
		return errors.Join(d.nativeError("check database"), guardErr)
	}
	return guardErr
}

// ClassifyFile classifies the file at the given path and returns the
// library's description of it.
//
// When a guard release fails after a successful native call, the
// returned description is valid alongside the returned error.
func (d *Dispatcher) ClassifyFile(name string, flags Flag) (string, error) {
	if d.lib == nil {
		return "", notOpenError("classify file")
	}
	var (
		result string
		ok     bool
	)
	guardErr := d.runGuarded(func() {
		result, ok = d.conv.file(d.lib, name, flags)
	})
	if !ok {
		if fallback, ferr := d.errorTextFallback(flags); ferr == nil {
			return fallback, guardErr
		}
		return "", errors.Join(d.nativeError("classify file"), guardErr)
	}
	return d.normalizeResult("classify file", result, guardErr)
}

// errorTextFallback recovers a usable result for releases preceding
// 5.15, which could return no result from a classify call yet leave
// the description in the handle's error text. It only applies when the
// caller did not request strict error semantics via FlagError.
func (d *Dispatcher) errorTextFallback(flags Flag) (string, error) {
	if flags&FlagError != 0 {
		return "", ErrNotImplemented
	}
	if d.caps.Version < 0 || d.caps.Version >= errorTextFallbackBefore {
		return "", ErrNotImplemented
	}
	_, message := d.lib.LastError()
	if message == "" || message == "(null)" {
		return "", ErrEmptyResult
	}
	return message, nil
}

// ClassifyBuffer classifies in-memory content.
func (d *Dispatcher) ClassifyBuffer(data []byte, flags Flag) (string, error) {
	if d.lib == nil {
		return "", notOpenError("classify buffer")
	}
	var (
		result string
		ok     bool
	)
	guardErr := d.runGuarded(func() {
		result, ok = d.conv.buffer(d.lib, data, flags)
	})
	if !ok {
		return "", errors.Join(d.nativeError("classify buffer"), guardErr)
	}
	return d.normalizeResult("classify buffer", result, guardErr)
}

// ClassifyDescriptor classifies the content behind an open descriptor.
//
// Against library releases in the broken-descriptor range the
// descriptor is duplicated first, because those releases close or
// otherwise invalidate the descriptor they are handed; the caller's
// descriptor survives the call. After the call the duplicate is closed
// only if it is still valid, so a descriptor the library already closed
// is not closed twice.
func (d *Dispatcher) ClassifyDescriptor(fd int, flags Flag) (string, error) {
	if d.lib == nil {
		return "", notOpenError("classify descriptor")
	}

	target := fd
	if d.caps.BrokenDescriptor {
		dup, err := guard.SafeDup(fd)
		if err != nil {
			return "", &Error{Op: "classify descriptor", Err: err}
		}
		target = dup
		defer func() {
			if guard.CheckDescriptor(dup) == nil {
				_ = guard.SafeClose(dup)
			}
		}()
	}

	var (
		result string
		ok     bool
	)
	guardErr := d.runGuarded(func() {
		result, ok = d.conv.descriptor(d.lib, target, flags)
	})
	if !ok {
		return "", errors.Join(d.nativeError("classify descriptor"), guardErr)
	}
	return d.normalizeResult("classify descriptor", result, guardErr)
}

// DatabasePath returns the library's default rule database search path.
// The query does not invoke the classifier, so no guard scope is taken.
func (d *Dispatcher) DatabasePath() (string, error) {
	if d.lib == nil {
		return "", notOpenError("query database path")
	}
	return d.lib.DatabasePath(), nil
}

// LibraryVersion returns the linked library version number. When the
// capability table marks the version query unsupported the call is
// rejected locally with ErrNotImplemented — the linked release predates
// the query, so there is nothing correct to call.
func (d *Dispatcher) LibraryVersion() (int, error) {
	if !d.caps.VersionQuery {
		return -1, &Error{
			Op:    "query version",
			Errno: int(syscall.ENOSYS),
			Err:   ErrNotImplemented,
		}
	}
	if d.lib == nil {
		return -1, notOpenError("query version")
	}
	return d.lib.Version(), nil
}

// SetFlags validates and applies behavior flags. Values outside the
// range of recognized constants are rejected locally with
// ErrInvalidFlags before any native call: out-of-range values are
// observed to corrupt native state in some releases.
func (d *Dispatcher) SetFlags(flags Flag) error {
	if flags < FlagNone || flags > FlagNoCheckBuiltin {
		return &Error{
			Op:    "set flags",
			Errno: int(syscall.EINVAL),
			Err:   ErrInvalidFlags,
		}
	}
	if d.lib == nil {
		return notOpenError("set flags")
	}
	if rv := d.lib.SetFlags(flags); rv < 0 {
		return d.nativeError("set flags")
	}
	return nil
}

// normalizeResult rejects empty and literal "(null)" results, which
// some releases produce instead of failing.
func (d *Dispatcher) normalizeResult(op, result string, guardErr error) (string, error) {
	if result == "" || result == "(null)" {
		return "", errors.Join(&Error{Op: op, Err: ErrEmptyResult}, guardErr)
	}
	return result, guardErr
}

// nativeError converts the handle's last error into an *Error.
func (d *Dispatcher) nativeError(op string) error {
	errno, message := d.lib.LastError()
	if message == "" || message == "(null)" {
		return &Error{Op: op, Errno: errno, Err: ErrEmptyResult}
	}
	e := &Error{Op: op, Errno: errno, Message: message}
	if errno != 0 {
		e.Err = syscall.Errno(errno)
	}
	return e
}

func notOpenError(op string) error {
	return &Error{Op: op, Errno: int(syscall.EFAULT), Err: ErrNotOpen}
}
