// Package filenotify provides a mechanism for watching the calculator's
// config file for changes. It abstracts fsnotify, and provides a poll-based
// notifier for file systems where inotify-style events are unavailable
// (network mounts, some containers). Both satisfy FileWatcher.
package filenotify

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is used when polling is requested without an interval
const DefaultPollInterval = 200 * time.Millisecond

// FileWatcher is an interface for implementing file notification watchers
type FileWatcher interface {
	// Events returns the channel for watching events
	Events() <-chan fsnotify.Event
	// Errors returns the channel for watching errors
	Errors() <-chan error
	// Add starts watching the named file or directory
	Add(name string) error
	// Remove stops watching the named file or directory
	Remove(name string) error
	// Close stops watching and closes the channels
	Close() error
}

type options struct {
	poll     bool
	interval time.Duration
}

// Option configures New
type Option func(*options)

// WithPolling forces the polling watcher with the given interval
func WithPolling(interval time.Duration) Option {
	return func(o *options) {
		o.poll = true
		if interval > 0 {
			o.interval = interval
		}
	}
}

// New tries to use an fs-event watcher, and falls back to the poller if there is an error
func New(opts ...Option) (FileWatcher, error) {
	o := options{interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&o)
	}

	if o.poll {
		return NewPollingWatcherWithInterval(o.interval), nil
	}
	watcher, err := NewEventWatcher()
	if err != nil {
		return NewPollingWatcherWithInterval(o.interval), nil
	}
	return watcher, nil
}
