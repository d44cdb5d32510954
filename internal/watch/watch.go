// Package watch delivers debounced change notifications for a small set
// of files (the open document and the configuration file). The parent
// directories are watched rather than the files themselves, so
// rename-and-replace saves from editors keep working.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is one debounced change to a watched file.
type Event struct {
	Path string
	Time time.Time
}

// Watcher wraps fsnotify with per-file debouncing. Events and Errors
// channels are never closed; Close stops delivery.
type Watcher struct {
	fsw   *fsnotify.Watcher
	delay time.Duration

	events chan Event
	errs   chan error

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
	closed bool

	closeCh chan struct{}
	wg      sync.WaitGroup
}

// New watches the given files, coalescing bursts of changes to one
// event per file after a quiet window of delay.
func New(delay time.Duration, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		delay:   delay,
		events:  make(chan Event, 8),
		errs:    make(chan error, 8),
		files:   make(map[string]bool),
		timers:  make(map[string]*time.Timer),
		closeCh: make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events returns the debounced change channel.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the underlying watcher's error channel.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Paths returns the watched file paths.
func (w *Watcher) Paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.files))
	for p := range w.files {
		out = append(out, p)
	}
	return out
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			w.bump(abs)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// bump arms or re-arms the debounce timer for one file.
func (w *Watcher) bump(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.timers[path] = time.AfterFunc(w.delay, func() { w.fire(path) })
}

// fire delivers the debounced event unless the watcher closed in the
// meantime. The event channel is buffered; a full channel drops the
// event rather than blocking the timer goroutine.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	w.mu.Unlock()

	select {
	case w.events <- Event{Path: path, Time: time.Now()}:
	default:
	}
}
