package filenotify

import (
	"errors"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNotWatching is returned by Remove for a name that was never added
var ErrNotWatching = errors.New("file or directory is not being watched")

// PollingWatcher is an implementation of FileWatcher based on polling.
// A watched name may be missing; its appearance is reported as Create
// and its disappearance as Remove, and it stays on the watch list.
type PollingWatcher struct {
	// interval is the time between polling for file changes
	interval time.Duration
	// files is the list of files being watched
	files map[string]fileInfo
	// events is the channel where events are reported
	events chan fsnotify.Event
	// errors is the channel where errors are reported
	errors chan error
	// stop is used to stop the polling
	stop chan struct{}
	// mutex guards access to files map
	mutex sync.Mutex
	// done is closed when polling has stopped
	done chan struct{}
	once sync.Once
}

type fileInfo struct {
	ModTime time.Time
	Size    int64
	Exists  bool
}

// NewPollingWatcher returns a new polling watcher with the default interval
func NewPollingWatcher() FileWatcher {
	return NewPollingWatcherWithInterval(DefaultPollInterval)
}

// NewPollingWatcherWithInterval returns a new polling watcher with the specified interval
func NewPollingWatcherWithInterval(interval time.Duration) FileWatcher {
	watcher := &PollingWatcher{
		interval: interval,
		files:    make(map[string]fileInfo),
		events:   make(chan fsnotify.Event),
		errors:   make(chan error),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go watcher.poll()
	return watcher
}

// Add adds a file or directory to the watch list. The name need not exist yet.
func (w *PollingWatcher) Add(name string) error {
	info, err := stat(name)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.files[name] = info
	return nil
}

// Remove removes a file or directory from the watch list
func (w *PollingWatcher) Remove(name string) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if _, exists := w.files[name]; !exists {
		return ErrNotWatching
	}
	delete(w.files, name)
	return nil
}

// Events returns the event channel
func (w *PollingWatcher) Events() <-chan fsnotify.Event {
	return w.events
}

// Errors returns the error channel
func (w *PollingWatcher) Errors() <-chan error {
	return w.errors
}

// Close stops the polling watcher
func (w *PollingWatcher) Close() error {
	w.once.Do(func() {
		close(w.stop)
		<-w.done
		close(w.events)
		close(w.errors)
	})
	return nil
}

// poll checks for changes to the watched files at the specified interval
func (w *PollingWatcher) poll() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.checkFiles() {
				return
			}
		case <-w.stop:
			return
		}
	}
}

// checkFiles compares every watched file with its last known state and
// reports differences. It returns false if the watcher was stopped while
// a report was being delivered.
func (w *PollingWatcher) checkFiles() bool {
	w.mutex.Lock()
	names := make([]string, 0, len(w.files))
	for name := range w.files {
		names = append(names, name)
	}
	w.mutex.Unlock()

	for _, name := range names {
		current, err := stat(name)
		if err != nil {
			if !w.send(nil, err) {
				return false
			}
			continue
		}

		w.mutex.Lock()
		old, watched := w.files[name]
		if watched {
			w.files[name] = current
		}
		w.mutex.Unlock()
		if !watched {
			continue
		}

		var op fsnotify.Op
		switch {
		case !old.Exists && current.Exists:
			op = fsnotify.Create
		case old.Exists && !current.Exists:
			op = fsnotify.Remove
		case current.Exists && (!current.ModTime.Equal(old.ModTime) || current.Size != old.Size):
			op = fsnotify.Write
		default:
			continue
		}
		if !w.send(&fsnotify.Event{Name: name, Op: op}, nil) {
			return false
		}
	}
	return true
}

func (w *PollingWatcher) send(event *fsnotify.Event, err error) bool {
	if event != nil {
		select {
		case w.events <- *event:
			return true
		case <-w.stop:
			return false
		}
	}
	select {
	case w.errors <- err:
		return true
	case <-w.stop:
		return false
	}
}

// stat returns the file's state; a missing file is not an error
func stat(name string) (fileInfo, error) {
	f, err := os.Stat(name)
	if err != nil {
		if os.IsNotExist(err) {
			return fileInfo{}, nil
		}
		return fileInfo{}, err
	}
	return fileInfo{
		ModTime: f.ModTime(),
		Size:    f.Size(),
		Exists:  true,
	}, nil
}
