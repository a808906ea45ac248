//go:build !cgo || !unix

package guard

// systemLocale falls back to the LC_ALL environment swap when the libc
// locale objects are unavailable.
var systemLocale localeController = envLocale{}
