package plugins

import (
	"fmt"
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports plugin libraries that appear in a directory. Paths are
// collected on the watcher goroutine and handed to the UI goroutine by
// Pending, which then calls Host.Load.
type Watcher struct {
	w *fsnotify.Watcher

	mu      sync.Mutex
	pending []string
	done    chan struct{}
}

// Watch starts watching dir.
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create plugin watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w := &Watcher{w: fw, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				w.add(ev.Name)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			log.Printf("Plugin watcher error: %v", err)
		}
	}
}

func (w *Watcher) add(path string) {
	if !IsLibrary(path) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, p := range w.pending {
		if p == path {
			return
		}
	}
	w.pending = append(w.pending, path)
}

// Pending returns and clears the library paths seen since the last call.
func (w *Watcher) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = nil
	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
