// Package watch reports changes to a small set of files.
//
// Parent directories are watched rather than the files themselves so that
// editors which save by writing a new file and renaming it over the old one
// are still noticed. Bursts of events for one file are debounced into a
// single notification.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 150 * time.Millisecond

type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	changes  chan string
	errors   chan error
	done     chan struct{}

	mu     sync.Mutex
	files  map[string]bool
	dirs   map[string]int
	timers map[string]*time.Timer
	closed bool
}

func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fs:       fw,
		debounce: debounce,
		changes:  make(chan string, 8),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
	}
	go w.loop()
	return w, nil
}

// Changes delivers the cleaned absolute path of each changed file.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Set replaces the watched files with paths. When a directory cannot be
// watched the previous set stays in place.
func (w *Watcher) Set(paths ...string) error {
	files := make(map[string]bool, len(paths))
	dirs := make(map[string]int, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if files[abs] {
			continue
		}
		files[abs] = true
		dirs[filepath.Dir(abs)]++
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var added []string
	for dir := range dirs {
		if w.dirs[dir] > 0 {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			for _, d := range added {
				_ = w.fs.Remove(d)
			}
			return err
		}
		added = append(added, dir)
	}

	for f, t := range w.timers {
		if !files[f] {
			t.Stop()
			delete(w.timers, f)
		}
	}
	for dir := range w.dirs {
		if dirs[dir] == 0 {
			_ = w.fs.Remove(dir)
		}
	}
	w.files = files
	w.dirs = dirs
	return nil
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for f, t := range w.timers {
		t.Stop()
		delete(w.timers, f)
	}
	close(w.done)
	w.mu.Unlock()
	return w.fs.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.schedule(filepath.Clean(ev.Name))
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[path] {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.changes <- path:
		case <-w.done:
		}
	})
}
