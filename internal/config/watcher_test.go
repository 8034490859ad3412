package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, path, doc string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func newTestWatcher(t *testing.T, path string, opts ...WatcherOption) (*Watcher, chan Config) {
	t.Helper()
	reloaded := make(chan Config, 8)
	w, err := NewWatcher(path, func(cfg Config) { reloaded <- cfg }, opts...)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, reloaded
}

func TestWatcherNilHandler(t *testing.T) {
	if _, err := NewWatcher("keygate.toml", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("NewWatcher(nil handler) error = %v, want ErrNilHandler", err)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	writeConfigFile(t, path, "[log]\nlevel = \"info\"\n")

	w, reloaded := newTestWatcher(t, path, WithDebounce(20*time.Millisecond))

	writeConfigFile(t, path, "[log]\nlevel = \"debug\"\n")

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("reloaded Log.Level = %q, want %q", cfg.Log.Level, "debug")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if got := w.Stats().Reloads; got < 1 {
		t.Errorf("Stats().Reloads = %d, want at least 1", got)
	}
}

func TestWatcherCoalescesBursts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	writeConfigFile(t, path, "[pool]\nworkers = 1\n")

	_, reloaded := newTestWatcher(t, path, WithDebounce(250*time.Millisecond))

	// A burst of writes inside the debounce window lands as one reload.
	for workers := 2; workers <= 6; workers++ {
		writeConfigFile(t, path, "[pool]\nworkers = "+strconv.Itoa(workers)+"\n")
	}

	select {
	case cfg := <-reloaded:
		if cfg.Pool.Workers != 6 {
			t.Errorf("reloaded Pool.Workers = %d, want final value 6", cfg.Pool.Workers)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected second reload: %+v", cfg)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keygate.toml")
	writeConfigFile(t, path, "")

	_, reloaded := newTestWatcher(t, path, WithDebounce(10*time.Millisecond))

	writeConfigFile(t, filepath.Join(dir, "notes.toml"), "[log]\nlevel = \"debug\"\n")

	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected reload for sibling file: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keygate.toml")
	writeConfigFile(t, path, "[capture]\nmouse = false\n")

	_, reloaded := newTestWatcher(t, path, WithDebounce(20*time.Millisecond))

	// Editors save atomically: write a temp file, rename into place.
	tmp := filepath.Join(dir, "keygate.toml.new")
	writeConfigFile(t, tmp, "[capture]\nmouse = true\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("renaming into place: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if !cfg.Capture.Mouse {
			t.Error("reloaded Capture.Mouse = false, want true")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload after rename")
	}
}

func TestWatcherReportsBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	writeConfigFile(t, path, "[log]\nlevel = \"info\"\n")

	failed := make(chan error, 8)
	reloaded := make(chan Config, 8)
	w, err := NewWatcher(path,
		func(cfg Config) { reloaded <- cfg },
		WithDebounce(20*time.Millisecond),
		WithErrorHandler(func(err error) { failed <- err }),
	)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	writeConfigFile(t, path, "this is not toml")

	select {
	case err := <-failed:
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("error handler got %v, want *ParseError", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload failure")
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("broken config still delivered: %+v", cfg)
	case <-time.After(100 * time.Millisecond):
	}

	if got := w.Stats().Failures; got < 1 {
		t.Errorf("Stats().Failures = %d, want at least 1", got)
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	writeConfigFile(t, path, "")

	w, _ := newTestWatcher(t, path)

	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestWatcherPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keygate.toml")
	writeConfigFile(t, path, "")

	w, _ := newTestWatcher(t, path)
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}
}
