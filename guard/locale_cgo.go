//go:build cgo && unix

package guard

/*
#cgo CFLAGS: -D_GNU_SOURCE
#include <locale.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// systemLocale drives the locale override through the libc per-thread
// locale objects, matching what the magic library itself consults.
var systemLocale localeController = nativeLocale{}

type nativeLocale struct{}

func (nativeLocale) newFixed() (localeRef, error) {
	name := C.CString("C")
	defer C.free(unsafe.Pointer(name))

	loc, err := C.newlocale(C.LC_ALL_MASK, name, C.locale_t(nil))
	if loc == C.locale_t(nil) {
		if err == nil {
			err = unix.EINVAL
		}
		return nil, err
	}
	return loc, nil
}

func (nativeLocale) install(ref localeRef) (localeRef, error) {
	loc, _ := ref.(C.locale_t)

	previous, err := C.uselocale(loc)
	if previous == C.locale_t(nil) {
		if err == nil {
			err = unix.EINVAL
		}
		return nil, err
	}
	return previous, nil
}

func (nativeLocale) free(ref localeRef) {
	if loc, ok := ref.(C.locale_t); ok && loc != C.locale_t(nil) {
		C.freelocale(loc)
	}
}
