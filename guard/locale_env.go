package guard

import "os"

// envLocale approximates a locale override by swapping the LC_ALL
// environment variable. It cannot retarget locale state a library has
// already latched, but it is the only lever available without libc
// locale objects, and new locale lookups will observe it.
type envLocale struct{}

// envLocaleState remembers an LC_ALL value together with whether the
// variable existed at all, so restore can unset rather than set-empty.
type envLocaleState struct {
	value   string
	present bool
}

func (envLocale) newFixed() (localeRef, error) {
	return envLocaleState{value: "C", present: true}, nil
}

func (envLocale) install(ref localeRef) (localeRef, error) {
	state, _ := ref.(envLocaleState)

	value, present := os.LookupEnv("LC_ALL")
	previous := envLocaleState{value: value, present: present}

	var err error
	if state.present {
		err = os.Setenv("LC_ALL", state.value)
	} else {
		err = os.Unsetenv("LC_ALL")
	}
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (envLocale) free(ref localeRef) {}
