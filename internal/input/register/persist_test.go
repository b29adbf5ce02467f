package register

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/modal/internal/input/key"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "registers.json")

	g, _, _ := newGroup()
	g.SetText('a', "alpha", CharacterWise)
	g.SetText('l', "line\n", LineWise)
	g.SetKeys('q', key.MustParseSequence("dw<Esc>"), CharacterWise)
	g.StoreTextSpecial(LastCommand, "set notimeout")

	if err := Save(g, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, _, _ := newGroup()
	if err := Load(loaded, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := text(t, loaded, 'a'); got != "alpha" {
		t.Errorf("register a = %q, want %q", got, "alpha")
	}
	if reg, _ := loaded.GetRegister('l'); reg.Type != LineWise {
		t.Errorf("register l type = %v, want %v", reg.Type, LineWise)
	}
	reg, ok := loaded.GetRegister('q')
	if !ok {
		t.Fatal("register q not restored")
	}
	if got := key.Format(reg.KeySequence()); got != "dw<Esc>" {
		t.Errorf("register q keys = %q, want %q", got, "dw<Esc>")
	}
	if _, ok := loaded.GetRegister(LastCommand); ok {
		t.Error("register : restored, want skipped")
	}
}

func TestLoadMissing(t *testing.T) {
	g, _, _ := newGroup()
	if err := Load(g, filepath.Join(t.TempDir(), "none.json")); err != nil {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "registers"},
		{"future version", `{"version": 99, "registers": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "registers.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			g, _, _ := newGroup()
			if err := Load(g, path); err == nil {
				t.Error("Load() error = nil")
			}
		})
	}
}

func TestLoadSkipsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.json")
	data := `{"version": 1, "registers": [
		{"name": "ab", "type": "char", "text": "x"},
		{"name": "%", "type": "char", "text": "x"},
		{"name": "b", "type": "char", "text": "kept"}
	]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	g, _, _ := newGroup()
	if err := Load(g, path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := text(t, g, 'b'); got != "kept" {
		t.Errorf("register b = %q, want %q", got, "kept")
	}
	if _, ok := g.GetRegister('%'); ok {
		t.Error("register % restored, want skipped")
	}
}
