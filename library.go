package magickit

// Library is the raw surface of an opened magic library handle. The
// dispatcher is written against this interface so the native layer can
// be replaced by a stub in tests.
//
// Integer-returning methods follow the native convention: a negative
// value signals failure and LastError carries the detail. String
// results report failure through the boolean.
//
// Each wrapped entry point exists in two forms: the legacy signature
// and one taking a trailing flags argument. Which form a dispatcher
// uses is decided once, from the capability table, not per call.
type Library interface {
	// Close releases the underlying handle. Safe to call twice.
	Close()

	// Load loads the rule database at the given path, or the default
	// database when the path is empty.
	Load(database string) int

	// LoadWithFlags is Load with a trailing flags argument.
	LoadWithFlags(database string, flags Flag) int

	// Compile compiles the named rule database into binary form.
	Compile(database string) int

	// CompileWithFlags is Compile with a trailing flags argument.
	CompileWithFlags(database string, flags Flag) int

	// Check validates the named rule database.
	Check(database string) int

	// CheckWithFlags is Check with a trailing flags argument.
	CheckWithFlags(database string, flags Flag) int

	// File classifies the file at the given path.
	File(name string) (string, bool)

	// FileWithFlags is File with a trailing flags argument.
	FileWithFlags(name string, flags Flag) (string, bool)

	// Buffer classifies in-memory content.
	Buffer(data []byte) (string, bool)

	// BufferWithFlags is Buffer with a trailing flags argument.
	BufferWithFlags(data []byte, flags Flag) (string, bool)

	// Descriptor classifies the content behind an open descriptor.
	Descriptor(fd int) (string, bool)

	// DescriptorWithFlags is Descriptor with a trailing flags argument.
	DescriptorWithFlags(fd int, flags Flag) (string, bool)

	// DatabasePath returns the library's default database search path.
	DatabasePath() string

	// SetFlags applies behavior flags to the handle.
	SetFlags(flags Flag) int

	// Version returns the linked library version as a number
	// (e.g. 545 for 5.45), or a negative value when unavailable.
	Version() int

	// LastError returns the errno and message of the most recent
	// failure on this handle.
	LastError() (int, string)
}
