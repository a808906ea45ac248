//go:build cgo

package magickit

/*
#cgo LDFLAGS: -lmagic
#include <stdlib.h>
#include <magic.h>
*/
import "C"

import (
	"syscall"
	"unsafe"
)

// nativeLibrary is the cgo-backed Library over a magic_set handle.
type nativeLibrary struct {
	cookie C.magic_t
}

// OpenLibrary opens a native magic library handle with the given flags.
func OpenLibrary(flags Flag) (Library, error) {
	cookie := C.magic_open(C.int(flags))
	if cookie == nil {
		return nil, &Error{
			Op:      "open",
			Errno:   int(syscall.EPERM),
			Message: "failed to initialize magic library",
		}
	}
	return &nativeLibrary{cookie: cookie}, nil
}

// nativeVersion returns the linked library version without a handle.
func nativeVersion() int {
	return int(C.magic_version())
}

func (l *nativeLibrary) Close() {
	if l.cookie != nil {
		C.magic_close(l.cookie)
		l.cookie = nil
	}
}

func (l *nativeLibrary) Load(database string) int {
	if database == "" {
		return int(C.magic_load(l.cookie, nil))
	}
	cdb := C.CString(database)
	defer C.free(unsafe.Pointer(cdb))
	return int(C.magic_load(l.cookie, cdb))
}

func (l *nativeLibrary) LoadWithFlags(database string, flags Flag) int {
	if rv := l.SetFlags(flags); rv < 0 {
		return rv
	}
	return l.Load(database)
}

func (l *nativeLibrary) Compile(database string) int {
	if database == "" {
		return int(C.magic_compile(l.cookie, nil))
	}
	cdb := C.CString(database)
	defer C.free(unsafe.Pointer(cdb))
	return int(C.magic_compile(l.cookie, cdb))
}

func (l *nativeLibrary) CompileWithFlags(database string, flags Flag) int {
	if rv := l.SetFlags(flags); rv < 0 {
		return rv
	}
	return l.Compile(database)
}

func (l *nativeLibrary) Check(database string) int {
	if database == "" {
		return int(C.magic_check(l.cookie, nil))
	}
	cdb := C.CString(database)
	defer C.free(unsafe.Pointer(cdb))
	return int(C.magic_check(l.cookie, cdb))
}

func (l *nativeLibrary) CheckWithFlags(database string, flags Flag) int {
	if rv := l.SetFlags(flags); rv < 0 {
		return rv
	}
	return l.Check(database)
}

func (l *nativeLibrary) File(name string) (string, bool) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	cstring := C.magic_file(l.cookie, cname)
	if cstring == nil {
		return "", false
	}
	return C.GoString(cstring), true
}

func (l *nativeLibrary) FileWithFlags(name string, flags Flag) (string, bool) {
	if rv := l.SetFlags(flags); rv < 0 {
		return "", false
	}
	return l.File(name)
}

func (l *nativeLibrary) Buffer(data []byte) (string, bool) {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}

	cstring := C.magic_buffer(l.cookie, p, C.size_t(len(data)))
	if cstring == nil {
		return "", false
	}
	return C.GoString(cstring), true
}

func (l *nativeLibrary) BufferWithFlags(data []byte, flags Flag) (string, bool) {
	if rv := l.SetFlags(flags); rv < 0 {
		return "", false
	}
	return l.Buffer(data)
}

func (l *nativeLibrary) Descriptor(fd int) (string, bool) {
	cstring := C.magic_descriptor(l.cookie, C.int(fd))
	if cstring == nil {
		return "", false
	}
	return C.GoString(cstring), true
}

func (l *nativeLibrary) DescriptorWithFlags(fd int, flags Flag) (string, bool) {
	if rv := l.SetFlags(flags); rv < 0 {
		return "", false
	}
	return l.Descriptor(fd)
}

func (l *nativeLibrary) DatabasePath() string {
	return C.GoString(C.magic_getpath(nil, 0))
}

func (l *nativeLibrary) SetFlags(flags Flag) int {
	return int(C.magic_setflags(l.cookie, C.int(flags)))
}

func (l *nativeLibrary) Version() int {
	return nativeVersion()
}

func (l *nativeLibrary) LastError() (int, string) {
	errno := int(C.magic_errno(l.cookie))
	cstring := C.magic_error(l.cookie)
	if cstring == nil {
		return errno, ""
	}
	return errno, C.GoString(cstring)
}
