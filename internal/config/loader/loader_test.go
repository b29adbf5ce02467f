package loader

import (
	"errors"
	"io/fs"
	"testing"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

type entry struct {
	LHS     string `toml:"lhs" yaml:"lhs"`
	Noremap bool   `toml:"noremap" yaml:"noremap"`
}

type doc struct {
	TimeoutLen int     `toml:"timeoutlen" yaml:"timeoutlen"`
	Mappings   []entry `toml:"mappings" yaml:"mappings"`
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"modal.toml", FormatTOML},
		{"/etc/modal.TOML", FormatTOML},
		{"modal.yaml", FormatYAML},
		{"modal.yml", FormatYAML},
		{"modal.json", FormatUnknown},
		{"modal", FormatUnknown},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDecodeFile(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/modal.toml", `
timeoutlen = 300

[[mappings]]
lhs = "jk"
noremap = true
`)
	memfs.AddFile("/modal.yaml", `
timeoutlen: 300
mappings:
  - lhs: jk
    noremap: true
`)

	for _, path := range []string{"/modal.toml", "/modal.yaml"} {
		t.Run(path, func(t *testing.T) {
			var d doc
			if err := DecodeFile(memfs, path, &d); err != nil {
				t.Fatalf("DecodeFile() error = %v", err)
			}
			if d.TimeoutLen != 300 {
				t.Errorf("TimeoutLen = %d, want 300", d.TimeoutLen)
			}
			if len(d.Mappings) != 1 || d.Mappings[0].LHS != "jk" || !d.Mappings[0].Noremap {
				t.Errorf("Mappings = %+v, want [{jk true}]", d.Mappings)
			}
		})
	}
}

func TestDecodeFile_Errors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "timeoutlen = = 3\n")
	memfs.AddFile("/bad.yaml", "timeoutlen: [1\n")

	var d doc
	if err := DecodeFile(memfs, "/missing.toml", &d); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v, want fs.ErrNotExist", err)
	}
	if err := DecodeFile(memfs, "/modal.ini", &d); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ini error = %v, want ErrUnsupportedFormat", err)
	}
	for _, path := range []string{"/bad.toml", "/bad.yaml"} {
		var perr *ParseError
		if err := DecodeFile(memfs, path, &d); !errors.As(err, &perr) {
			t.Errorf("DecodeFile(%s) error = %v, want *ParseError", path, err)
		} else if perr.Path != path {
			t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
		}
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		err  ParseError
		want string
	}{
		{ParseError{Path: "a.toml", Line: 2, Column: 5, Message: "bad"}, "parse error in a.toml at line 2, column 5: bad"},
		{ParseError{Path: "a.toml", Line: 2, Message: "bad"}, "parse error in a.toml at line 2: bad"},
		{ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
