package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_WithOptions(t *testing.T) {
	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", w.debounce)
	}
}

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a.toml")
	b := filepath.Join(tmpDir, "b.toml")

	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for _, p := range []string{a, b, a} {
		if err := w.Watch(p); err != nil {
			t.Errorf("Watch(%s) error = %v", p, err)
		}
	}
	if got := len(w.WatchedFiles()); got != 2 {
		t.Errorf("WatchedFiles() = %d files, want 2", got)
	}
	if got := w.dirs[tmpDir]; got != 2 {
		t.Errorf("dir count = %d, want 2", got)
	}

	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch() error = %v", err)
	}
	if got := len(w.WatchedFiles()); got != 1 {
		t.Errorf("WatchedFiles() after Unwatch = %d files, want 1", got)
	}

	if err := w.Watch(filepath.Join(tmpDir, "missing", "c.toml")); err == nil {
		t.Error("Watch() in a missing directory should fail")
	}
}

func TestWatcher_OnChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "modal.toml")
	other := filepath.Join(tmpDir, "other.toml")
	if err := os.WriteFile(path, []byte("timeout = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("timeout = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Path != path {
			t.Errorf("event path = %s, want %s", ev.Path, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change event delivered")
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "a.toml")); err == nil {
		t.Error("Watch() after Close should fail")
	}
}
