package magickit

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// Magic is a handle to the magic library with the compatibility layer
// in front of it. Its mutex serializes all calls through the handle,
// which also provides the external serialization the guard scopes
// require — standard error and the locale are process-wide, so guarded
// calls must not overlap.
type Magic struct {
	mu     sync.Mutex
	lib    Library
	d      *Dispatcher
	flags   Flag
	paths   []string
	cache   *ResultCache
	watcher *DatabaseWatcher
	closed  bool
}

// Options tunes a Magic handle beyond the defaults.
type Options struct {
	// Flags are the initial behavior flags.
	Flags Flag

	// SuppressOutput brackets native calls with the stderr redirect.
	// Enabled by default through New.
	SuppressOutput bool

	// FixedLocale brackets native calls with the "C" locale override.
	// Enabled by default through New.
	FixedLocale bool

	// ForceLegacyCalls selects the legacy native signatures regardless
	// of what the capability table reports.
	ForceLegacyCalls bool

	// Cache, when non-nil, memoizes buffer classification results.
	Cache *ResultCache
}

// DefaultOptions returns the options New uses.
func DefaultOptions() Options {
	return Options{
		SuppressOutput: true,
		FixedLocale:    true,
	}
}

// New opens the magic library and loads the given rule databases, or
// the default database when none are given.
func New(files ...string) (*Magic, error) {
	return NewWithOptions(DefaultOptions(), files...)
}

// NewWithOptions opens the magic library with explicit options.
func NewWithOptions(opts Options, files ...string) (*Magic, error) {
	lib, err := OpenLibrary(FlagNone)
	if err != nil {
		return nil, err
	}

	m := newMagic(lib, DetectCapabilities(lib), opts)
	if err := m.Load(files...); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// newMagic assembles a handle over an already-opened library. Tests
// inject stub libraries and capability tables through here.
func newMagic(lib Library, caps VersionCapabilities, opts Options) *Magic {
	m := &Magic{
		lib:   lib,
		flags: opts.Flags,
		cache: opts.Cache,
		d: NewDispatcherWithOptions(lib, caps, DispatcherOptions{
			SuppressOutput:   opts.SuppressOutput,
			FixedLocale:      opts.FixedLocale,
			ForceLegacyCalls: opts.ForceLegacyCalls,
		}),
	}
	runtime.SetFinalizer(m, (*Magic).finalize)
	return m
}

func (m *Magic) finalize() {
	m.Close()
}

// Close releases the underlying library handle. Safe to call more than
// once.
func (m *Magic) Close() {
	// The watcher's reload callback takes the handle lock, so it has to
	// be stopped before the lock is held here.
	m.mu.Lock()
	w := m.watcher
	m.watcher = nil
	m.mu.Unlock()
	if w != nil {
		_ = w.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed && m.lib != nil {
		m.lib.Close()
	}
	m.closed = true
	m.paths = nil
	runtime.SetFinalizer(m, nil)
}

// String implements fmt.Stringer.
func (m *Magic) String() string {
	return fmt.Sprintf("Magic{flags:%d paths:%v}", m.flags, m.paths)
}

func (m *Magic) checkOpen(op string) error {
	if m.closed || m.lib == nil {
		return notOpenError(op)
	}
	return nil
}

// Load loads the given rule databases, or the default database when
// none are given. Previously cached buffer results are invalidated.
func (m *Magic) Load(files ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("load database"); err != nil {
		return err
	}

	database := strings.Join(files, Separator)
	if err := m.d.LoadDatabase(database, m.flags); err != nil {
		return err
	}

	if len(files) > 0 {
		m.paths = append([]string(nil), files...)
	} else if path, err := m.d.DatabasePath(); err == nil {
		m.paths = strings.Split(path, Separator)
	}
	if m.cache != nil {
		m.cache.Invalidate()
	}
	return nil
}

// Compile compiles the given rule databases into binary form.
func (m *Magic) Compile(files ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("compile database"); err != nil {
		return err
	}
	return m.d.CompileDatabase(strings.Join(files, Separator), m.flags)
}

// Check validates the given rule databases.
func (m *Magic) Check(files ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("check database"); err != nil {
		return err
	}
	return m.d.CheckDatabase(strings.Join(files, Separator), m.flags)
}

// File classifies the file at the given path.
func (m *Magic) File(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("classify file"); err != nil {
		return "", err
	}
	return m.d.ClassifyFile(name, m.flags)
}

// Buffer classifies in-memory content. Results are memoized when the
// handle carries a cache.
func (m *Magic) Buffer(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("classify buffer"); err != nil {
		return "", err
	}

	var key uint64
	if m.cache != nil {
		key = cacheKey(data, m.flags)
		if result, ok := m.cache.Get(key); ok {
			return result, nil
		}
	}

	result, err := m.d.ClassifyBuffer(data, m.flags)
	if err == nil && m.cache != nil {
		m.cache.Set(key, result)
	}
	return result, err
}

// Descriptor classifies the content behind an open descriptor.
func (m *Magic) Descriptor(fd int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("classify descriptor"); err != nil {
		return "", err
	}
	return m.d.ClassifyDescriptor(fd, m.flags)
}

// Path returns the rule database paths in effect. The MAGIC environment
// variable overrides any remembered paths, as the library itself honors
// it.
func (m *Magic) Path() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("query database path"); err != nil {
		return nil, err
	}

	if len(m.paths) > 0 && os.Getenv("MAGIC") == "" {
		return m.paths, nil
	}
	path, err := m.d.DatabasePath()
	if err != nil {
		return nil, err
	}
	m.paths = strings.Split(path, Separator)
	return m.paths, nil
}

// Flags returns the behavior flags in effect.
func (m *Magic) Flags() (Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("query flags"); err != nil {
		return -1, err
	}
	return m.flags, nil
}

// FlagsSlice returns the individual flags OR-ed into the current value,
// in ascending order.
func (m *Magic) FlagsSlice() ([]Flag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("query flags"); err != nil {
		return nil, err
	}

	if m.flags == FlagNone {
		return []Flag{FlagNone}, nil
	}
	var flags []Flag
	for bit := Flag(1); bit <= m.flags && bit > 0; bit <<= 1 {
		if m.flags&bit != 0 {
			flags = append(flags, bit)
		}
	}
	return flags, nil
}

// SetFlags validates and applies behavior flags. Out-of-range values
// are rejected before reaching the native layer.
func (m *Magic) SetFlags(flags Flag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("set flags"); err != nil {
		return err
	}
	if err := m.d.SetFlags(flags); err != nil {
		return err
	}
	m.flags = flags
	if m.cache != nil {
		m.cache.Invalidate()
	}
	return nil
}

// Version returns the linked library version through the handle's
// capability table.
func (m *Magic) Version() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkOpen("query version"); err != nil {
		return -1, err
	}
	return m.d.LibraryVersion()
}

// Open runs f with a temporary Magic handle that is closed when f
// returns. A panic inside f is recovered into an error.
func Open(f func(m *Magic) error, files ...string) (err error) {
	if f == nil {
		return &Error{Op: "open", Message: "not a function or nil pointer"}
	}

	m, err := New(files...)
	if err != nil {
		return err
	}
	defer m.Close()

	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if err, ok = r.(error); !ok {
				err = &Error{Op: "open", Message: fmt.Sprintf("%v", r)}
			}
		}
	}()
	return f(m)
}

// Compile compiles the given rule databases with a temporary handle.
func Compile(files ...string) error {
	m, err := New()
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Compile(files...)
}

// Check validates the given rule databases with a temporary handle.
func Check(files ...string) error {
	m, err := New()
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Check(files...)
}

// Version returns the linked library version number, or
// ErrNotImplemented when the linked release predates the version query.
func Version() (int, error) {
	if v := nativeVersion(); v > 0 {
		return v, nil
	}
	return -1, &Error{Op: "query version", Err: ErrNotImplemented}
}

// VersionString returns the linked library version formatted the way
// the library project numbers releases.
func VersionString() (string, error) {
	v, err := Version()
	if err != nil {
		return "", err
	}
	return formatVersion(v), nil
}

func formatVersion(v int) string {
	return fmt.Sprintf("%d.%02d", v/100, v%100)
}

// classifyFileAs classifies a file with a one-shot handle and flags.
func classifyFileAs(flags Flag, name string, files ...string) (string, error) {
	m, err := New(files...)
	if err != nil {
		return "", err
	}
	defer m.Close()

	if err := m.SetFlags(flags); err != nil {
		return "", err
	}
	return m.File(name)
}

// classifyBufferAs classifies a buffer with a one-shot handle and flags.
func classifyBufferAs(flags Flag, data []byte, files ...string) (string, error) {
	m, err := New(files...)
	if err != nil {
		return "", err
	}
	defer m.Close()

	if err := m.SetFlags(flags); err != nil {
		return "", err
	}
	return m.Buffer(data)
}

// FileMime returns the MIME type and encoding of the named file.
func FileMime(name string, files ...string) (string, error) {
	return classifyFileAs(FlagMime, name, files...)
}

// FileType returns the MIME type of the named file.
func FileType(name string, files ...string) (string, error) {
	return classifyFileAs(FlagMimeType, name, files...)
}

// FileEncoding returns the MIME encoding of the named file.
func FileEncoding(name string, files ...string) (string, error) {
	return classifyFileAs(FlagMimeEncoding, name, files...)
}

// BufferMime returns the MIME type and encoding of in-memory content.
func BufferMime(data []byte, files ...string) (string, error) {
	return classifyBufferAs(FlagMime, data, files...)
}

// BufferType returns the MIME type of in-memory content.
func BufferType(data []byte, files ...string) (string, error) {
	return classifyBufferAs(FlagMimeType, data, files...)
}

// BufferEncoding returns the MIME encoding of in-memory content.
func BufferEncoding(data []byte, files ...string) (string, error) {
	return classifyBufferAs(FlagMimeEncoding, data, files...)
}
