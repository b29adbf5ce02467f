package register

import (
	"testing"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mark"
)

func newGroup() (*Group, *mark.Group, *MemoryClipboard) {
	marks := mark.NewGroup()
	cb := &MemoryClipboard{}
	return NewGroup(marks, cb), marks, cb
}

func text(t *testing.T, g *Group, r rune) string {
	t.Helper()
	reg, ok := g.GetRegister(r)
	if !ok {
		return ""
	}
	return reg.Text
}

func TestUppercaseAppends(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("foo bar", "/tmp/r.txt")

	g.SelectRegister('a')
	g.StoreText(buf, Store{Start: 0, End: 3})
	g.SelectRegister('A')
	g.StoreText(buf, Store{Start: 4, End: 7})

	if got := text(t, g, 'a'); got != "foobar" {
		t.Errorf(`register a = %q, want "foobar"`, got)
	}
	if got := text(t, g, 'A'); got != "foobar" {
		t.Errorf(`register A = %q, want "foobar"`, got)
	}
	if got := text(t, g, Unnamed); got != "bar" {
		t.Errorf(`unnamed register = %q, want "bar"`, got)
	}
}

func TestBlackHole(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("abc\n", "/tmp/r.txt")
	g.SelectRegister(BlackHole)
	if !g.StoreText(buf, Store{Start: 0, End: 4, Type: LineWise, Delete: true}) {
		t.Fatal("StoreText() into black hole = false, want true")
	}
	if len(g.Registers()) != 0 {
		t.Errorf("Registers() = %+v, want none", g.Registers())
	}
}

func TestReadOnlyRejected(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("abc", "/tmp/r.txt")
	g.SelectRegister(LastInserted)
	if g.IsRegisterWritable() {
		t.Error("IsRegisterWritable() = true for \".")
	}
	if g.StoreText(buf, Store{Start: 0, End: 3}) {
		t.Error("StoreText() into \". = true, want false")
	}
}

func TestDeleteRouting(t *testing.T) {
	buf := buffer.NewMemory("one\ntwo\nthree\n", "/tmp/r.txt")
	tests := []struct {
		name      string
		store     Store
		wantOne   string
		wantSmall string
	}{
		{"linewise to numbered", Store{Start: 0, End: 4, Type: LineWise, Delete: true}, "one\n", ""},
		{"small to minus", Store{Start: 0, End: 2, Delete: true}, "", "on"},
		{"multi-line charwise", Store{Start: 2, End: 6, Delete: true}, "e\ntw", ""},
		{"special motion", Store{Start: 0, End: 2, Delete: true, Motion: "paragraph-next"}, "on", "on"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := newGroup()
			g.StoreText(buf, tt.store)
			if got := text(t, g, '1'); got != tt.wantOne {
				t.Errorf(`register 1 = %q, want %q`, got, tt.wantOne)
			}
			if got := text(t, g, SmallDelete); got != tt.wantSmall {
				t.Errorf(`register - = %q, want %q`, got, tt.wantSmall)
			}
			if got := text(t, g, LastYank); got != "" {
				t.Errorf(`register 0 = %q after a delete`, got)
			}
		})
	}
}

func TestNumberedRotation(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\n", "/tmp/r.txt")
	for i := 0; i < 10; i++ {
		start := buf.LineStartOffset(i)
		g.StoreText(buf, Store{Start: start, End: start + 3, Type: LineWise, Delete: true})
	}
	want := map[rune]string{'1': "l9\n", '2': "l8\n", '9': "l1\n"}
	for r, w := range want {
		if got := text(t, g, r); got != w {
			t.Errorf("register %c = %q, want %q", r, got, w)
		}
	}
	if reg, _ := g.GetRegister('5'); reg.Name != '5' {
		t.Errorf("register 5 Name = %c, want 5", reg.Name)
	}
}

func TestNamedDeleteSkipsNumbered(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("one\ntwo\n", "/tmp/r.txt")
	g.SelectRegister('x')
	g.StoreText(buf, Store{Start: 0, End: 4, Type: LineWise, Delete: true})
	if got := text(t, g, '1'); got != "" {
		t.Errorf(`register 1 = %q, want empty`, got)
	}
	if got := text(t, g, Unnamed); got != "one\n" {
		t.Errorf(`unnamed register = %q, want "one\n"`, got)
	}
}

func TestYankSetsZeroAndChangeMarks(t *testing.T) {
	g, marks, _ := newGroup()
	buf := buffer.NewMemory("hello world", "/tmp/r.txt")
	g.StoreText(buf, Store{Start: 6, End: 11})
	if got := text(t, g, LastYank); got != "world" {
		t.Errorf(`register 0 = %q, want "world"`, got)
	}
	start, end, ok := marks.ChangeMarks(buf)
	if !ok || start != 6 || end != 11 {
		t.Errorf("ChangeMarks() = %d, %d, %v; want 6, 11, true", start, end, ok)
	}
}

func TestLinewiseGetsNewline(t *testing.T) {
	g, _, _ := newGroup()
	buf := buffer.NewMemory("last", "/tmp/r.txt")
	g.StoreText(buf, Store{Start: 0, End: 4, Type: LineWise})
	if got := text(t, g, Unnamed); got != "last\n" {
		t.Errorf(`unnamed register = %q, want "last\n"`, got)
	}
}

func TestClipboardRegisters(t *testing.T) {
	g, _, cb := newGroup()
	buf := buffer.NewMemory("copy me", "/tmp/r.txt")
	g.SelectRegister(ClipboardPlus)
	g.StoreText(buf, Store{Start: 0, End: 4})
	if got, _ := cb.ReadAll(); got != "copy" {
		t.Errorf("clipboard = %q, want %q", got, "copy")
	}

	cb.WriteAll("from host\n")
	reg, ok := g.GetRegister(ClipboardStar)
	if !ok || reg.Text != "from host\n" || reg.Type != LineWise {
		t.Errorf("GetRegister(*) = %+v, %v; want linewise host text", reg, ok)
	}
}

func TestClipboardOption(t *testing.T) {
	tests := []struct {
		value string
		want  rune
	}{
		{"", Unnamed},
		{"unnamed", ClipboardStar},
		{"unnamedplus", ClipboardPlus},
	}
	for _, tt := range tests {
		g, _, _ := newGroup()
		g.SetClipboardOption(tt.value)
		if got := g.DefaultRegister(); got != tt.want {
			t.Errorf("SetClipboardOption(%q): DefaultRegister() = %c, want %c", tt.value, got, tt.want)
		}
		if got := g.CurrentRegister(); got != tt.want {
			t.Errorf("SetClipboardOption(%q): CurrentRegister() = %c, want %c", tt.value, got, tt.want)
		}
	}
}

func TestSelectAndReset(t *testing.T) {
	g, _, _ := newGroup()
	if g.SelectRegister('!') {
		t.Error("SelectRegister('!') = true, want false")
	}
	g.SelectRegister('q')
	if g.CurrentRegister() != 'q' {
		t.Errorf("CurrentRegister() = %c, want q", g.CurrentRegister())
	}
	g.ResetRegister()
	if g.CurrentRegister() != Unnamed {
		t.Errorf("CurrentRegister() = %c after reset", g.CurrentRegister())
	}
}

func TestStoreTextSpecial(t *testing.T) {
	g, _, _ := newGroup()
	if !g.StoreTextSpecial(LastCommand, "s/a/b/") {
		t.Error("StoreTextSpecial(:) = false")
	}
	if g.StoreTextSpecial('a', "x") {
		t.Error("StoreTextSpecial(a) = true, want false")
	}
	if got := text(t, g, LastCommand); got != "s/a/b/" {
		t.Errorf(`register : = %q`, got)
	}
}

func TestSetText(t *testing.T) {
	g, _, _ := newGroup()
	g.SetText('r', "one", CharacterWise)
	g.SetText('R', "two", CharacterWise)
	if got := text(t, g, 'r'); got != "onetwo" {
		t.Errorf(`register r = %q, want "onetwo"`, got)
	}
	if g.SetText('%', "x", CharacterWise) {
		t.Error("SetText(%) = true, want false")
	}
}

func TestRecording(t *testing.T) {
	g, _, _ := newGroup()
	if g.StartRecording('%') {
		t.Fatal("StartRecording(%) = true")
	}
	g.StartRecording('q')
	if !g.IsRecording() || g.RecordingRegister() != 'q' {
		t.Fatal("not recording into q")
	}
	for _, e := range key.MustParseSequence("dw<Esc>") {
		g.RecordKey(e)
	}
	g.FinishRecording()
	if g.IsRecording() {
		t.Error("IsRecording() = true after finish")
	}
	reg, ok := g.PlaybackRegister('q')
	if !ok {
		t.Fatal("PlaybackRegister(q) not found")
	}
	if got := key.Format(reg.KeySequence()); got != "dw<Esc>" {
		t.Errorf("KeySequence() = %q, want %q", got, "dw<Esc>")
	}

	g.StartRecording('Q')
	g.RecordText("x")
	g.FinishRecording()
	reg, _ = g.GetRegister('q')
	if got := key.Format(reg.KeySequence()); got != "dw<Esc>x" {
		t.Errorf("appended KeySequence() = %q, want %q", got, "dw<Esc>x")
	}
}
