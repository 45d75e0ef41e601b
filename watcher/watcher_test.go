package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bond-kaneko/go-calc/config"
	"github.com/bond-kaneko/go-calc/filenotify"
)

func TestNewConfigWatcherRequiresPath(t *testing.T) {
	if _, err := NewConfigWatcher("", nil, nil); err == nil {
		t.Error("NewConfigWatcher with an empty path should fail")
	}
}

func TestReloadOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	if err := os.WriteFile(path, []byte("history_cap = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	reloads := make(chan config.Config, 4)
	cw, err := NewConfigWatcher(path, func(cfg config.Config) { reloads <- cfg }, nil,
		filenotify.WithPolling(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewConfigWatcher error = %v", err)
	}
	defer cw.Close()
	cw.SetDebounceDelay(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cw.Watch(ctx) }()

	// Give the poller a baseline before changing the file.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("history_cap = 2\ntheme = \"dark\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloads:
		if cfg.HistoryCap != 2 || cfg.Theme != "dark" {
			t.Errorf("Unexpected reloaded config %+v", cfg)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch error = %v", err)
		}
	case <-time.After(time.Second):
		t.Error("Watch did not return after cancel")
	}
}

func TestReloadKeepsCallbackQuietOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	if err := os.WriteFile(path, []byte("chain = \"sideways\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	cw, err := NewConfigWatcher(path, func(config.Config) { called = true }, nil,
		filenotify.WithPolling(time.Second))
	if err != nil {
		t.Fatalf("NewConfigWatcher error = %v", err)
	}
	defer cw.Close()

	if _, err := cw.Reload(); err == nil {
		t.Error("Reload of an invalid file should fail")
	}
	if called {
		t.Error("onReload should not run for an invalid file")
	}
}

func TestRelevantFiltersOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.toml")
	cw, err := NewConfigWatcher(path, nil, nil, filenotify.WithPolling(time.Second))
	if err != nil {
		t.Fatalf("NewConfigWatcher error = %v", err)
	}
	defer cw.Close()

	if cw.Path() != path {
		t.Errorf("Path should be %s, got %s", path, cw.Path())
	}

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.toml"), Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: dir, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := cw.relevant(tt.event); got != tt.want {
			t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}

func TestReloadSkipsDeletedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.toml")
	if err := os.WriteFile(path, []byte("history_cap = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	called := false
	cw, err := NewConfigWatcher(path, func(config.Config) { called = true }, nil,
		filenotify.WithPolling(time.Second))
	if err != nil {
		t.Fatalf("NewConfigWatcher error = %v", err)
	}
	defer cw.Close()

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	_, err = cw.Reload()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Reload of a deleted file should fail with ErrNotExist, got %v", err)
	}
	if called {
		t.Error("onReload should not run when the file is gone")
	}
}
