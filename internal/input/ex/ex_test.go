package ex

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
)

type fakeScript struct {
	code []string
}

func (s *fakeScript) Execute(code string) error {
	s.code = append(s.code, code)
	return nil
}

type fakeHost struct {
	buf      *buffer.Memory
	regs     *register.Group
	marks    *mark.Group
	maps     *keymap.Registry
	options  map[string]string
	messages []string
	keys     []key.Event
	remap    bool
	script   *fakeScript
}

func newFakeHost(text string) *fakeHost {
	marks := mark.NewGroup()
	return &fakeHost{
		buf:     buffer.NewMemory(text, "test.txt"),
		regs:    register.NewGroup(marks, nil),
		marks:   marks,
		maps:    keymap.NewRegistry(),
		options: map[string]string{"timeout": "true", "timeoutlen": "1000"},
	}
}

func (h *fakeHost) Buffer() buffer.Adapter     { return h.buf }
func (h *fakeHost) Registers() *register.Group { return h.regs }
func (h *fakeHost) Marks() *mark.Group         { return h.marks }
func (h *fakeHost) Mappings() *keymap.Registry { return h.maps }
func (h *fakeHost) Message(msg string)         { h.messages = append(h.messages, msg) }

func (h *fakeHost) Normal(keys []key.Event, remap bool) error {
	h.keys = keys
	h.remap = remap
	return nil
}

func (h *fakeHost) Option(name string) (string, bool) {
	v, ok := h.options[name]
	return v, ok
}

func (h *fakeHost) SetOption(name, value string) error {
	h.options[name] = value
	return nil
}

func (h *fakeHost) Script() Script {
	if h.script == nil {
		return nil
	}
	return h.script
}

func (h *fakeHost) lastMessage() string {
	if len(h.messages) == 0 {
		return ""
	}
	return h.messages[len(h.messages)-1]
}

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    Call
		wantErr error
	}{
		{":nnoremap a b", Call{Name: "nnoremap", Args: "a b"}, nil},
		{"  delm! ", Call{Name: "delm", Bang: true}, nil},
		{"normal!  dd", Call{Name: "normal", Bang: true, Args: "dd"}, nil},
		{"12", Call{Name: "12"}, nil},
		{"", Call{}, nil},
		{"12x", Call{}, ErrTrailing},
		{"!ls", Call{}, ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestLookupAbbreviations(t *testing.T) {
	table := Default()
	tests := []struct {
		word string
		want string
	}{
		{"map", "map"},
		{"no", "noremap"},
		{"nn", "nnoremap"},
		{"nno", "nnoremap"},
		{"norm", "normal"},
		{"reg", "registers"},
		{"di", "display"},
		{"se", "set"},
		{"delm", "delmarks"},
		{"unm", "unmap"},
		{"mapc", "mapclear"},
		{"ma", ""},
		{"s", ""},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := ""
			if c := table.Lookup(tt.word); c != nil {
				got = c.Name
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	err := Default().Execute(newFakeHost(""), "frobnicate")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute() error = %v, want ErrUnknownCommand", err)
	}
	if err := Default().Execute(newFakeHost(""), "nmap! a b"); err == nil {
		t.Error("nmap! succeeded, want error")
	}
}

func TestMapCommands(t *testing.T) {
	h := newFakeHost("")
	table := Default()
	run := func(line string) {
		t.Helper()
		if err := table.Execute(h, line); err != nil {
			t.Fatalf("Execute(%q) error = %v", line, err)
		}
	}

	run("nmap a b")
	m := h.maps.Lookup(mode.MapNormal, key.MustParseSequence("a"))
	if m == nil || !m.Recursive || m.Owner != keymap.User || key.Format(m.Info.Keys) != "b" {
		t.Fatalf("nmap a b gave %+v", m)
	}
	if h.maps.Lookup(mode.MapVisual, key.MustParseSequence("a")) != nil {
		t.Error("nmap mapped in visual mode")
	}

	run("noremap! <silent> jk <Esc>")
	for _, mm := range []mode.MappingMode{mode.MapInsert, mode.MapCmdLine} {
		m := h.maps.Lookup(mm, key.MustParseSequence("jk"))
		if m == nil || m.Recursive {
			t.Errorf("noremap! jk in %v = %+v, want non-recursive", mm, m)
		}
	}

	run("nnoremap <expr> Q 'x'")
	if m := h.maps.Lookup(mode.MapNormal, key.MustParseSequence("Q")); m == nil || m.Info.Kind != keymap.KindExpression {
		t.Errorf("<expr> mapping = %+v", m)
	}

	run("nmap")
	if msg := h.lastMessage(); !strings.Contains(msg, "n  a") || !strings.Contains(msg, "n  Q") {
		t.Errorf("listing = %q", msg)
	}
	run("imap x")
	if msg := h.lastMessage(); msg != "No mapping found" {
		t.Errorf("listing = %q, want No mapping found", msg)
	}

	if err := table.Execute(h, "nmap <unique> a c"); err == nil {
		t.Error("<unique> over existing mapping succeeded")
	}

	run("nunmap a")
	if h.maps.Lookup(mode.MapNormal, key.MustParseSequence("a")) != nil {
		t.Error("nunmap a kept the mapping")
	}
	if err := table.Execute(h, "nunmap a"); !errors.Is(err, ErrNoMapping) {
		t.Errorf("second nunmap error = %v, want ErrNoMapping", err)
	}
}

func TestMapclearKeepsOtherOwners(t *testing.T) {
	h := newFakeHost("")
	h.maps.Put(mode.N, key.MustParseSequence("x"), keymap.Config, keymap.ToKeys(key.MustParseSequence("y")), true)
	if err := Default().Execute(h, "nmap a b"); err != nil {
		t.Fatal(err)
	}
	if err := Default().Execute(h, "mapclear"); err != nil {
		t.Fatal(err)
	}
	if h.maps.Lookup(mode.MapNormal, key.MustParseSequence("a")) != nil {
		t.Error("mapclear kept user mapping")
	}
	if h.maps.Lookup(mode.MapNormal, key.MustParseSequence("x")) == nil {
		t.Error("mapclear removed config mapping")
	}
}

func TestLet(t *testing.T) {
	tests := []struct {
		line     string
		reg      rune
		wantText string
		wantType register.SelectionType
	}{
		{`let @a = "one\n"`, 'a', "one\n", register.LineWise},
		{`let @b='it''s'`, 'b', "it's", register.CharacterWise},
		{`let @/ = 'foo'`, '/', "foo", register.CharacterWise},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			h := newFakeHost("")
			if err := Default().Execute(h, tt.line); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			r, ok := h.regs.GetRegister(tt.reg)
			if !ok || r.Text != tt.wantText || r.Type != tt.wantType {
				t.Errorf("register %c = %q %v, want %q %v", tt.reg, r.Text, r.Type, tt.wantText, tt.wantType)
			}
		})
	}

	for _, bad := range []string{`let @. = 'x'`, `let @a 'x'`, `let @a = x`, `let a = 'x'`} {
		if err := Default().Execute(newFakeHost(""), bad); err == nil {
			t.Errorf("Execute(%q) succeeded, want error", bad)
		}
	}
}

func TestRegistersListing(t *testing.T) {
	h := newFakeHost("")
	h.regs.SetText('a', "x\n", register.LineWise)
	h.regs.SetText('b', "y", register.CharacterWise)
	if err := Default().Execute(h, "reg a"); err != nil {
		t.Fatal(err)
	}
	msg := h.lastMessage()
	if !strings.Contains(msg, `l  "a   x^J`) {
		t.Errorf("listing = %q", msg)
	}
	if strings.Contains(msg, `"b`) {
		t.Errorf("listing %q includes b", msg)
	}
}

func TestMarksAndDelmarks(t *testing.T) {
	h := newFakeHost("one\n  two\nthree")
	for i, r := range "abc" {
		h.marks.SetMark(h.buf, r, h.buf.LineStartOffset(i))
	}
	if err := Default().Execute(h, "marks"); err != nil {
		t.Fatal(err)
	}
	if msg := h.lastMessage(); !strings.Contains(msg, " b      2    0 two") {
		t.Errorf("listing = %q", msg)
	}

	if err := Default().Execute(h, "delm a-b"); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []struct {
		r    rune
		want bool
	}{{'a', false}, {'b', false}, {'c', true}} {
		if _, ok := h.marks.GetMark(h.buf, tt.r); ok != tt.want {
			t.Errorf("mark %c set = %v, want %v", tt.r, ok, tt.want)
		}
	}

	if err := Default().Execute(h, "delm!"); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.marks.GetMark(h.buf, 'c'); ok {
		t.Error("delm! kept mark c")
	}
	if err := Default().Execute(h, "delm z-a"); err == nil {
		t.Error("delm z-a succeeded")
	}
}

func TestSet(t *testing.T) {
	h := newFakeHost("")
	table := Default()
	steps := []struct {
		line    string
		name    string
		want    string
		message string
	}{
		{"set notimeout", "timeout", "false", ""},
		{"set timeout", "timeout", "true", ""},
		{"set timeout!", "timeout", "false", ""},
		{"set invtimeout", "timeout", "true", ""},
		{"set timeoutlen=500", "timeoutlen", "500", ""},
		{"se timeoutlen?", "timeoutlen", "500", "  timeoutlen=500"},
		{"set timeoutlen", "timeoutlen", "500", "  timeoutlen=500"},
	}
	for _, s := range steps {
		if err := table.Execute(h, s.line); err != nil {
			t.Fatalf("Execute(%q) error = %v", s.line, err)
		}
		if got := h.options[s.name]; got != s.want {
			t.Errorf("after %q %s = %q, want %q", s.line, s.name, got, s.want)
		}
		if s.message != "" && h.lastMessage() != s.message {
			t.Errorf("after %q message = %q, want %q", s.line, h.lastMessage(), s.message)
		}
	}
	if err := table.Execute(h, "set bogus"); !errors.Is(err, ErrUnknownOption) {
		t.Errorf("set bogus error = %v, want ErrUnknownOption", err)
	}
}

func TestNormalAndLua(t *testing.T) {
	h := newFakeHost("")
	table := Default()
	if err := table.Execute(h, "norm! dd"); err != nil {
		t.Fatal(err)
	}
	if key.Format(h.keys) != "dd" || h.remap {
		t.Errorf("normal keys = %q remap = %v, want dd false", key.Format(h.keys), h.remap)
	}

	if err := table.Execute(h, "lua print(1)"); !errors.Is(err, ErrNoScript) {
		t.Errorf("lua without script error = %v, want ErrNoScript", err)
	}
	h.script = &fakeScript{}
	if err := table.Execute(h, "lua print(1)"); err != nil {
		t.Fatal(err)
	}
	if len(h.script.code) != 1 || h.script.code[0] != "print(1)" {
		t.Errorf("script code = %v", h.script.code)
	}
}

func TestGotoLine(t *testing.T) {
	h := newFakeHost("one\n  two\nthree")
	if err := Default().Execute(h, ":2"); err != nil {
		t.Fatal(err)
	}
	if got := h.buf.Caret(); got != 6 {
		t.Errorf("caret = %d, want 6", got)
	}
	if err := Default().Execute(h, "99"); err != nil {
		t.Fatal(err)
	}
	if got := h.buf.Caret(); got != 10 {
		t.Errorf("caret = %d, want 10", got)
	}
}

func TestHistory(t *testing.T) {
	h := NewHistory(3)
	for _, line := range []string{"a", "b", "a", "c", "d", ""} {
		h.Add(line)
	}
	if got := strings.Join(h.Recent(0), ","); got != "d,c,a" {
		t.Errorf("Recent(0) = %s, want d,c,a", got)
	}
	if last, ok := h.Last(); !ok || last != "d" {
		t.Errorf("Last() = %q, %v", last, ok)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
}

func TestComplete(t *testing.T) {
	got := strings.Join(Default().Complete("nn"), ",")
	if got != "nnoremap" {
		t.Errorf("Complete(nn) = %s", got)
	}
}
