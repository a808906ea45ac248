package guard

// WithSuppressedOutput runs fn with standard error redirected to the
// discard device, restoring the original destination afterwards on
// every path.
//
// A failed acquire does not refuse service: fn still runs, accepting
// that diagnostics may leak. The first return value is fn's own error;
// the second reports any guard acquire or release failure. A release
// failure never invalidates what fn produced.
func WithSuppressedOutput(fn func() error) (callErr, guardErr error) {
	saved, err := AcquireOutputSuppression()
	if err != nil {
		return fn(), err
	}

	callErr = fn()
	if err := saved.Release(); err != nil {
		guardErr = err
	}
	return callErr, guardErr
}

// WithFixedLocale runs fn with the portable "C" locale active,
// reinstalling the previous locale afterwards on every path. Failure
// semantics match WithSuppressedOutput.
func WithFixedLocale(fn func() error) (callErr, guardErr error) {
	saved, err := AcquireFixedLocale()
	if err != nil {
		return fn(), err
	}

	callErr = fn()
	if err := saved.Release(); err != nil {
		guardErr = err
	}
	return callErr, guardErr
}
