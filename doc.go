// Package magickit provides safe, version-tolerant access to the magic
// content-identification library.
//
// The native library prints diagnostic text straight to the process's
// standard-error stream, formats generated descriptions according to
// the active locale, and has changed function signatures and behavior
// across releases. MagicKit sits between the caller and the library and
// smooths all three over: every classify and load call runs with
// standard error redirected to the discard device and the portable "C"
// locale pinned, both restored on every exit path; differing native
// signatures are normalized behind one argument list; and known-broken
// releases get targeted workarounds (defensive descriptor duplication,
// local rejection of flag values that corrupt native state, local
// rejection of queries the linked release cannot answer).
//
// # Basic Usage
//
//	m, err := magickit.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Close()
//
//	// Classify a file
//	desc, err := m.File("document.pdf")
//
//	// Classify bytes already in memory
//	desc, err = m.Buffer(data)
//
//	// MIME type instead of a description
//	_ = m.SetFlags(magickit.FlagMimeType)
//	mime, err := m.File("document.pdf")
//
// One-shot helpers cover the common cases without managing a handle:
//
//	mime, err := magickit.FileType("document.pdf")
//	enc, err := magickit.BufferEncoding(data)
//
// # Custom Rule Databases
//
// New accepts explicit rule database paths, and [ResolveDatabases]
// expands glob patterns into them:
//
//	paths, _ := magickit.ResolveDatabases("/usr/share/misc/*.mgc")
//	m, err := magickit.New(paths...)
//
// [Magic.WatchDatabase] reloads the handle when a loaded database file
// changes on disk.
//
// # Concurrency
//
// A Magic handle serializes its own calls. That lock matters beyond the
// handle: the stderr and locale overrides act on process-wide state and
// do not nest, so guarded calls from different handles must not overlap.
// Use one handle, or serialize access to several externally.
//
// # Configuration
//
// [GetConfig] loads settings from BEAVER_MAGICKIT_* environment
// variables and [NewFromConfig] opens a handle from them; see [Config].
//
// # Testing Without the Native Library
//
// The [Dispatcher] is written against the [Library] interface and an
// injectable [VersionCapabilities] table, so version workarounds are
// unit-testable against stubs. Binaries built without cgo get
// [ErrNotSupported] from [OpenLibrary] instead of a native handle.
package magickit
