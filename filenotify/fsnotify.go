package filenotify

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// EventWatcher is an implementation of FileWatcher using fsnotify
type EventWatcher struct {
	watcher *fsnotify.Watcher
	events  chan fsnotify.Event
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// NewEventWatcher returns a new EventWatcher
func NewEventWatcher() (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &EventWatcher{
		watcher: watcher,
		events:  make(chan fsnotify.Event),
		errors:  make(chan error),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.watch()

	return w, nil
}

// Events returns the event channel
func (w *EventWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *EventWatcher) Errors() <-chan error {
	return w.errors
}

// Add adds a file or directory to the watch list
func (w *EventWatcher) Add(name string) error {
	return w.watcher.Add(name)
}

// Remove removes a file or directory from the watch list
func (w *EventWatcher) Remove(name string) error {
	return w.watcher.Remove(name)
}

// Close closes the watcher. The channels are closed once the
// forwarding goroutine has exited, so readers never see a send on a closed channel.
func (w *EventWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return err
}

// watch forwards events from the fsnotify watcher until Close
func (w *EventWatcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			select {
			case w.events <- event:
			case <-w.done:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			case <-w.done:
				return
			}
		case <-w.done:
			return
		}
	}
}
