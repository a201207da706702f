package tui

import (
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher merges fsnotify events from the runtime and persistent state
// directories into one normalised Event stream, in the style of
// golang-tools/gopls's internal/filewatcher: a single fsnotify.Watcher
// fed from one goroutine, translated into a domain-specific event type
// rather than leaking fsnotify.Op bits to callers.
type Watcher struct {
	fsw            *fsnotify.Watcher
	runtimeDir     string
	persistentDir  string
	events         chan Event
	errs           chan error
	done           chan struct{}
}

// NewWatcher starts watching runtimeDir and persistentDir for changes.
func NewWatcher(runtimeDir, persistentDir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(runtimeDir); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(persistentDir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:           fsw,
		runtimeDir:    runtimeDir,
		persistentDir: persistentDir,
		events:        make(chan Event, 64),
		errs:          make(chan error, 8),
		done:          make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Events returns the channel of normalised events. It is closed when the
// watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Close stops the watcher and releases the underlying fsnotify handles.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.events)

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if out, ok := w.translate(ev); ok {
				select {
				case w.events <- out:
				case <-w.done:
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				select {
				case w.events <- Event{Type: WatcherOverflowed}:
				case <-w.done:
					return
				}
				continue
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	dir, name := w.dirKindFor(ev.Name)

	switch {
	case ev.Has(fsnotify.Create):
		return Event{Dir: dir, Name: name, Type: Arrived}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Dir: dir, Name: name, Type: Departed}, true
	case ev.Has(fsnotify.Write):
		return Event{Dir: dir, Name: name, Type: Modified}, true
	default:
		return Event{}, false
	}
}

func (w *Watcher) dirKindFor(path string) (DirKind, string) {
	dir, name := filepath.Dir(path), filepath.Base(path)
	if dir == w.persistentDir {
		return KindPersistent, name
	}
	return KindRuntime, name
}
