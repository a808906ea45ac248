package magickit

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DatabaseWatcher observes loaded rule database files and reports
// changes so callers can reload. Compiled databases are routinely
// regenerated out-of-band; a handle that keeps serving classifications
// from a replaced database drifts silently.
type DatabaseWatcher struct {
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	closed bool
	done   chan struct{}

	// Errors receives watcher failures. Drained by the caller or not at
	// all; sends never block.
	Errors chan error
}

// WatchDatabases watches the given rule database files and invokes
// onChange with the changed path whenever one of them is written,
// replaced or removed. The callback runs on the watcher's goroutine;
// it must not block for long.
func WatchDatabases(paths []string, onChange func(path string)) (*DatabaseWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if err := fw.Add(path); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &DatabaseWatcher{
		watcher: fw,
		done:    make(chan struct{}),
		Errors:  make(chan error, 1),
	}
	go w.run(onChange)
	return w, nil
}

func (w *DatabaseWatcher) run(onChange func(path string)) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				onChange(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		}
	}
}

// Close stops watching. Safe to call more than once.
func (w *DatabaseWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	err := w.watcher.Close()
	<-w.done
	return err
}

// WatchDatabase watches this handle's loaded rule databases. With a nil
// onChange the handle reloads the databases and drops cached results
// when one of them changes; otherwise the callback decides.
func (m *Magic) WatchDatabase(onChange func(path string)) (*DatabaseWatcher, error) {
	m.mu.Lock()
	paths := append([]string(nil), m.paths...)
	m.mu.Unlock()

	if len(paths) == 0 {
		return nil, &Error{Op: "watch database", Message: "no database paths loaded"}
	}

	if onChange == nil {
		onChange = func(string) {
			_ = m.Load(paths...)
		}
	}
	return WatchDatabases(paths, onChange)
}
