package guard

import (
	"errors"
	"os"
	"testing"
)

// fakeLocale drives the locale guard without touching process state.
// Handles are plain strings; "system" stands for the caller's locale.
type fakeLocale struct {
	active localeRef

	newErr        error
	installFixErr error
	reinstallErr  error

	created  int
	installs []localeRef
	freed    []localeRef
}

func newFakeLocale() *fakeLocale {
	return &fakeLocale{active: "system"}
}

func (f *fakeLocale) newFixed() (localeRef, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.created++
	return "fixed", nil
}

func (f *fakeLocale) install(ref localeRef) (localeRef, error) {
	if ref == localeRef("fixed") && f.installFixErr != nil {
		return nil, f.installFixErr
	}
	if ref != localeRef("fixed") && f.reinstallErr != nil {
		return nil, f.reinstallErr
	}
	f.installs = append(f.installs, ref)
	previous := f.active
	f.active = ref
	return previous, nil
}

func (f *fakeLocale) free(ref localeRef) {
	f.freed = append(f.freed, ref)
}

func unlockLocale(t *testing.T) {
	t.Helper()
	t.Cleanup(func() { localeActive.Store(false) })
}

func TestLocaleOverrideRoundTrip(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()

	saved, err := acquireFixedLocale(fake)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}
	if saved.Status() != StatusAcquired {
		t.Errorf("status = %v, want %v", saved.Status(), StatusAcquired)
	}
	if fake.active != localeRef("fixed") {
		t.Errorf("active locale = %v, want the fixed locale", fake.active)
	}
	if len(fake.freed) != 0 {
		t.Errorf("locale freed while still active: %v", fake.freed)
	}

	if err := saved.Release(); err != nil {
		t.Fatalf("release error: %v", err)
	}
	if saved.Status() != StatusReleased {
		t.Errorf("status = %v, want %v", saved.Status(), StatusReleased)
	}
	if fake.active != localeRef("system") {
		t.Errorf("active locale = %v, want the original", fake.active)
	}
	if len(fake.freed) != 1 || fake.freed[0] != localeRef("fixed") {
		t.Errorf("freed = %v, want exactly the fixed locale", fake.freed)
	}
}

func TestLocaleFreedOnlyAfterRestore(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()
	fake.reinstallErr = errors.New("uselocale failed")

	saved, err := acquireFixedLocale(fake)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}

	if err := saved.Release(); err == nil {
		t.Fatal("release succeeded despite a failed reinstall")
	}
	if len(fake.freed) != 0 {
		t.Errorf("freed = %v; an active locale must never be freed", fake.freed)
	}
	if saved.Status() != StatusFailed {
		t.Errorf("status = %v, want %v", saved.Status(), StatusFailed)
	}

	// The override is still in effect, so new acquires stay locked out.
	if _, err := acquireFixedLocale(fake); !errors.Is(err, ErrActiveOverride) {
		t.Errorf("acquire after failed release = %v, want ErrActiveOverride", err)
	}
}

func TestLocaleAcquireConstructFailure(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()
	fake.newErr = errors.New("newlocale failed")

	if _, err := acquireFixedLocale(fake); err == nil {
		t.Fatal("acquire succeeded without a locale object")
	}
	if fake.active != localeRef("system") {
		t.Errorf("active locale = %v after failed acquire", fake.active)
	}

	// The failure must unlock for the next caller.
	fake.newErr = nil
	saved, err := acquireFixedLocale(fake)
	if err != nil {
		t.Fatalf("acquire after recovery error: %v", err)
	}
	saved.Release()
}

func TestLocaleAcquireInstallFailure(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()
	fake.installFixErr = errors.New("uselocale failed")

	if _, err := acquireFixedLocale(fake); err == nil {
		t.Fatal("acquire succeeded despite a failed install")
	}
	if len(fake.freed) != 1 || fake.freed[0] != localeRef("fixed") {
		t.Errorf("freed = %v, want the orphaned fixed locale", fake.freed)
	}
	if fake.active != localeRef("system") {
		t.Errorf("active locale = %v after failed acquire", fake.active)
	}
}

func TestLocaleOverrideDoesNotNest(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()

	saved, err := acquireFixedLocale(fake)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}
	defer saved.Release()

	created := fake.created
	if _, err := acquireFixedLocale(fake); !errors.Is(err, ErrActiveOverride) {
		t.Errorf("nested acquire = %v, want ErrActiveOverride", err)
	}
	if fake.created != created {
		t.Error("rejected acquire still constructed a locale object")
	}
	if fake.active != localeRef("fixed") {
		t.Errorf("active locale = %v; rejected acquire disturbed the override", fake.active)
	}
}

func TestLocaleReleaseWithoutAcquire(t *testing.T) {
	var record SavedLocale
	if err := record.Release(); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("Release() on fresh record = %v, want ErrNotAcquired", err)
	}

	var nilRecord *SavedLocale
	if err := nilRecord.Release(); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("Release() on nil record = %v, want ErrNotAcquired", err)
	}
}

func TestLocaleReleaseIsNotRepeatable(t *testing.T) {
	unlockLocale(t)
	fake := newFakeLocale()

	saved, err := acquireFixedLocale(fake)
	if err != nil {
		t.Fatalf("acquire error: %v", err)
	}
	if err := saved.Release(); err != nil {
		t.Fatalf("release error: %v", err)
	}
	if err := saved.Release(); !errors.Is(err, ErrNotAcquired) {
		t.Errorf("second Release() = %v, want ErrNotAcquired", err)
	}
	if len(fake.freed) != 1 {
		t.Errorf("freed %d locale objects, want 1", len(fake.freed))
	}
}

func TestEnvLocaleSwapsAndRestores(t *testing.T) {
	t.Setenv("LC_ALL", "de_DE.UTF-8")
	ctl := envLocale{}

	fixed, err := ctl.newFixed()
	if err != nil {
		t.Fatalf("newFixed() error: %v", err)
	}
	previous, err := ctl.install(fixed)
	if err != nil {
		t.Fatalf("install() error: %v", err)
	}
	if got := os.Getenv("LC_ALL"); got != "C" {
		t.Errorf("LC_ALL = %q after install, want C", got)
	}

	if _, err := ctl.install(previous); err != nil {
		t.Fatalf("reinstall error: %v", err)
	}
	if got := os.Getenv("LC_ALL"); got != "de_DE.UTF-8" {
		t.Errorf("LC_ALL = %q after restore, want the original", got)
	}
}

func TestEnvLocaleRestoresAbsence(t *testing.T) {
	t.Setenv("LC_ALL", "placeholder")
	os.Unsetenv("LC_ALL")
	ctl := envLocale{}

	fixed, _ := ctl.newFixed()
	previous, err := ctl.install(fixed)
	if err != nil {
		t.Fatalf("install() error: %v", err)
	}
	if got := os.Getenv("LC_ALL"); got != "C" {
		t.Errorf("LC_ALL = %q after install, want C", got)
	}

	if _, err := ctl.install(previous); err != nil {
		t.Fatalf("reinstall error: %v", err)
	}
	if _, present := os.LookupEnv("LC_ALL"); present {
		t.Error("LC_ALL present after restore, want unset")
	}
}

func TestWithFixedLocale(t *testing.T) {
	unlockLocale(t)

	sentinel := errors.New("native failure")
	callErr, guardErr := WithFixedLocale(func() error { return sentinel })
	if callErr != sentinel {
		t.Errorf("callErr = %v, want the function's own error", callErr)
	}
	if guardErr != nil {
		t.Errorf("guardErr = %v", guardErr)
	}
}

func TestWithFixedLocaleAcquireFailure(t *testing.T) {
	unlockLocale(t)
	localeActive.Store(true)

	ran := false
	callErr, guardErr := WithFixedLocale(func() error {
		ran = true
		return nil
	})
	if !ran {
		t.Error("function did not run when the guard could not be acquired")
	}
	if callErr != nil {
		t.Errorf("callErr = %v", callErr)
	}
	if !errors.Is(guardErr, ErrActiveOverride) {
		t.Errorf("guardErr = %v, want ErrActiveOverride", guardErr)
	}
}
