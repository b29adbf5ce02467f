package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/modal/internal/config/watcher"
	"github.com/dshills/modal/internal/input/keymap"
)

type memFS map[string]string

func (m memFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if !o.Timeout || o.TimeoutLen != 1000 || o.MaxMapDepth != 1000 || !o.ShowMode {
		t.Errorf("DefaultOptions() = %+v", o)
	}
	if got := o.TimeoutDuration(); got != time.Second {
		t.Errorf("TimeoutDuration() = %v, want 1s", got)
	}
}

func TestOptions_GetSet(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		get     string
		want    string
		wantErr error
	}{
		{"timeout", "false", "to", "false", nil},
		{"tm", "250", "timeoutlen", "250", nil},
		{"maxmapdepth", "20", "mmd", "20", nil},
		{"smd", "false", "showmode", "false", nil},
		{"clipboard", "unnamedplus", "cb", "unnamedplus", nil},
		{"dg", "true", "digraph", "true", nil},
		{"timeout", "maybe", "timeout", "true", ErrInvalidValue},
		{"timeoutlen", "-1", "timeoutlen", "1000", ErrInvalidValue},
		{"maxmapdepth", "0", "maxmapdepth", "1000", ErrInvalidValue},
		{"clipboard", "autoselect", "clipboard", "", ErrInvalidValue},
		{"bogus", "1", "timeout", "true", ErrUnknownOption},
	}
	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			o := DefaultOptions()
			err := o.Set(tt.name, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Set() error = %v, want %v", err, tt.wantErr)
			}
			got, ok := o.Get(tt.get)
			if !ok || got != tt.want {
				t.Errorf("Get(%q) = %q, %v, want %q", tt.get, got, ok, tt.want)
			}
		})
	}

	o := DefaultOptions()
	if _, ok := o.Get("bogus"); ok {
		t.Error("Get(bogus) should fail")
	}
}

func TestCanonical(t *testing.T) {
	if got, ok := Canonical("tm"); !ok || got != "timeoutlen" {
		t.Errorf("Canonical(tm) = %q, %v", got, ok)
	}
	if _, ok := Canonical("ts"); ok {
		t.Error("Canonical(ts) should fail")
	}
	if got := len(Names()); got != 6 {
		t.Errorf("len(Names()) = %d, want 6", got)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := memFS{
		"/modal.toml": `
timeoutlen = 300
clipboard = "unnamed"

[[mappings]]
modes = "i"
lhs = "jk"
rhs = "<Esc>"
noremap = true
`,
		"/modal.yaml": `
timeout: false
mappings:
  - modes: n
    lhs: Y
    rhs: y$
`,
		"/bad.toml":   "maxmapdepth = 0\n",
		"/modes.yaml": "mappings:\n  - modes: q\n    lhs: a\n    rhs: b\n",
	}

	o, err := LoadFS(fsys, "/modal.toml", nil)
	if err != nil {
		t.Fatalf("LoadFS(toml) error = %v", err)
	}
	if o.TimeoutLen != 300 || o.Clipboard != "unnamed" || !o.Timeout {
		t.Errorf("LoadFS(toml) = %+v", o)
	}
	if len(o.Mappings) != 1 || o.Mappings[0].LHS != "jk" || !o.Mappings[0].Noremap {
		t.Errorf("Mappings = %+v", o.Mappings)
	}

	o, err = LoadFS(fsys, "/modal.yaml", []string{"MODAL_TIMEOUTLEN=50", "HOME=/root", "MODAL_LOG_FILE=x"})
	if err != nil {
		t.Fatalf("LoadFS(yaml) error = %v", err)
	}
	if o.Timeout || o.TimeoutLen != 50 || len(o.Mappings) != 1 {
		t.Errorf("LoadFS(yaml) = %+v", o)
	}

	o, err = LoadFS(fsys, "/missing.toml", nil)
	if err != nil || o.TimeoutLen != 1000 {
		t.Errorf("LoadFS(missing) = %+v, %v, want defaults", o, err)
	}

	if _, err := LoadFS(fsys, "/bad.toml", nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("LoadFS(bad) error = %v, want ErrInvalidValue", err)
	}
	if _, err := LoadFS(fsys, "/modes.yaml", nil); err == nil {
		t.Error("LoadFS(modes.yaml) should reject mode q")
	}
	if _, err := LoadFS(fsys, "/modal.toml", []string{"MODAL_TM=x"}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("LoadFS(env) error = %v, want ErrInvalidValue", err)
	}
}

func TestOptions_Clone(t *testing.T) {
	o := DefaultOptions()
	o.Mappings = append(o.Mappings, keymapEntry("a"))
	c := o.Clone()
	c.Mappings[0].LHS = "b"
	if o.Mappings[0].LHS != "a" {
		t.Error("Clone() shares the mapping slice")
	}
}

func TestReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modal.toml")
	if err := os.WriteFile(path, []byte("timeoutlen = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := make(chan Options, 4)
	r, err := NewReloader(path, nil, func(o Options) { got <- o }, watcher.WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	defer r.Close()

	if err := os.WriteFile(path, []byte("timeoutlen = 200\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case o := <-got:
		if o.TimeoutLen != 200 {
			t.Errorf("reloaded TimeoutLen = %d, want 200", o.TimeoutLen)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reload not delivered")
	}
}

func keymapEntry(lhs string) keymap.Entry {
	return keymap.Entry{LHS: lhs, RHS: "x"}
}
