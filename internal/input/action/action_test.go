package action

import (
	"strings"
	"testing"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

const sample = "one two three\nfour five\nsix"

type fakeEditor struct {
	buf      *buffer.Memory
	modes    *mode.Machine
	inserts  []string
	ended    int
	messages []string
}

func (f *fakeEditor) ExecuteEx(string) error       { return nil }
func (f *fakeEditor) RepeatLastChange(int) error   { return nil }
func (f *fakeEditor) PlayRegister(rune, int) error { return nil }
func (f *fakeEditor) Message(msg string)           { f.messages = append(f.messages, msg) }
func (f *fakeEditor) InsertText(text string)       { f.buf.Insert(f.buf.Caret(), text) }

func (f *fakeEditor) EndInsert() {
	f.ended++
	f.modes.Pop()
}

func (f *fakeEditor) BeginInsert(cmd *vim.Command) {
	f.inserts = append(f.inserts, cmd.Name())
	f.modes.Push(mode.Insert, mode.SubNone)
}

type fixture struct {
	t    *testing.T
	trie *vim.Trie
	buf  *buffer.Memory
	ed   *fakeEditor
	ctx  *vim.Context
}

func newFixture(t *testing.T, text string, caret int) *fixture {
	t.Helper()
	tr := vim.NewTrie()
	if err := Register(tr); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	buf := buffer.NewMemory(text, "test.txt")
	buf.MoveCaret(caret)
	modes := mode.NewMachine()
	marks := mark.NewGroup()
	ed := &fakeEditor{buf: buf, modes: modes}
	return &fixture{
		t:    t,
		trie: tr,
		buf:  buf,
		ed:   ed,
		ctx: &vim.Context{
			Buffer:    buf,
			Modes:     modes,
			Registers: register.NewGroup(marks, nil),
			Marks:     marks,
			Editor:    ed,
			Search:    &vim.SearchState{},
			Visual:    &vim.VisualState{},
		},
	}
}

func (f *fixture) command(keys string, count int, arg *vim.Argument) *vim.Command {
	f.t.Helper()
	m := f.ctx.Modes.MappingMode()
	h := f.trie.Lookup(m, key.MustParseSequence(keys))
	if h == nil {
		f.t.Fatalf("no handler for %q in %v", keys, m)
	}
	return &vim.Command{RawCount: count, Handler: h, Type: h.Type, Flags: h.Flags, Argument: arg}
}

// run executes keys, with an optional motion for operators.
func (f *fixture) run(keys string, count int, arg *vim.Argument) bool {
	f.t.Helper()
	return vim.Execute(f.ctx, f.command(keys, count, arg))
}

// operate runs operator op over motion.
func (f *fixture) operate(op, motion string) bool {
	f.t.Helper()
	cmd := f.command(op, 0, nil)
	h := f.trie.Lookup(mode.MapOpPending, key.MustParseSequence(motion))
	if h == nil {
		f.t.Fatalf("no motion for %q", motion)
	}
	cmd.Argument = vim.MotionArgument(&vim.Command{Handler: h, Type: h.Type, Flags: h.Flags})
	return vim.Execute(f.ctx, cmd)
}

func (f *fixture) register(r rune) string {
	reg, _ := f.ctx.Registers.GetRegister(r)
	return reg.Text
}

func TestRegisterBuiltins(t *testing.T) {
	f := newFixture(t, "", 0)
	tests := []struct {
		m    mode.MappingMode
		keys string
		want string
	}{
		{mode.MapNormal, "x", "delete-char"},
		{mode.MapNormal, "d", NameDelete},
		{mode.MapNormal, "gg", "goto-first-line"},
		{mode.MapVisual, "iw", "inner-word"},
		{mode.MapVisual, "d", "visual-delete"},
		{mode.MapOpPending, "w", "word-next"},
		{mode.MapInsert, "<C-k>", NameInsertDigraph},
		{mode.MapInsert, "<Esc>", NameInsertExit},
		{mode.MapCmdLine, "<CR>", NameCmdLineEnter},
		{mode.MapSelect, "<Esc>", "exit-select"},
	}
	for _, tt := range tests {
		t.Run(tt.keys, func(t *testing.T) {
			h := f.trie.Lookup(tt.m, key.MustParseSequence(tt.keys))
			if h == nil {
				t.Fatalf("Lookup(%v, %q) = nil", tt.m, tt.keys)
			}
			if h.Name != tt.want {
				t.Errorf("Lookup(%v, %q) = %s, want %s", tt.m, tt.keys, h.Name, tt.want)
			}
		})
	}
	if h := f.trie.Lookup(mode.MapOpPending, key.MustParseSequence("x")); h != nil {
		t.Errorf("Lookup(op-pending, x) = %s, want nil", h.Name)
	}
}

func TestMotions(t *testing.T) {
	tests := []struct {
		name  string
		keys  string
		caret int
		count int
		arg   *vim.Argument
		want  int
	}{
		{"word", "w", 0, 0, nil, 4},
		{"word count", "w", 0, 2, nil, 8},
		{"word across line", "w", 8, 0, nil, 14},
		{"word back across line", "b", 14, 0, nil, 8},
		{"word end", "e", 0, 0, nil, 2},
		{"line end", "$", 0, 0, nil, 12},
		{"line start", "0", 5, 0, nil, 0},
		{"last line", "G", 0, 0, nil, 24},
		{"goto line", "gg", 0, 2, nil, 14},
		{"line down keeps column", "j", 5, 0, nil, 19},
		{"find char", "f", 0, 0, vim.CharArgument('t'), 4},
		{"till char", "t", 0, 0, vim.CharArgument('t'), 3},
		{"find char backward", "F", 12, 0, vim.CharArgument('o'), 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sample, tt.caret)
			if !f.run(tt.keys, tt.count, tt.arg) {
				t.Fatalf("%s failed", tt.keys)
			}
			if got := f.buf.Caret(); got != tt.want {
				t.Errorf("caret = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRepeatFind(t *testing.T) {
	f := newFixture(t, "a.b.c.d", 0)
	f.run("f", 0, vim.CharArgument('.'))
	f.run(";", 0, nil)
	if got := f.buf.Caret(); got != 3 {
		t.Errorf("after ; caret = %d, want 3", got)
	}
	f.run(",", 0, nil)
	if got := f.buf.Caret(); got != 1 {
		t.Errorf("after , caret = %d, want 1", got)
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		name      string
		caret     int
		op        string
		motion    string
		wantText  string
		wantCaret int
		wantReg   string
	}{
		{"dw", 0, "d", "w", "two three\nfour five\nsix", 0, "one "},
		{"d$", 4, "d", "$", "one \nfour five\nsix", 3, "two three"},
		{"dd", 5, "d", "_", "four five\nsix", 0, "one two three\n"},
		{"dd last line", 25, "d", "_", "one two three\nfour five", 14, "six\n"},
		{"dj", 0, "d", "j", "six", 0, "one two three\nfour five\n"},
		{"yy", 16, "y", "_", sample, 16, "four five\n"},
		{"yw", 4, "y", "w", sample, 4, "two "},
		{"shift right", 16, ">", "_", "one two three\n    four five\nsix", 18, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, sample, tt.caret)
			if !f.operate(tt.op, tt.motion) {
				t.Fatalf("%s%s failed", tt.op, tt.motion)
			}
			if got := f.buf.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.buf.Caret(); got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
			if got := f.register(register.Unnamed); got != tt.wantReg {
				t.Errorf("register = %q, want %q", got, tt.wantReg)
			}
		})
	}
}

func TestChangeWordActsLikeChangeEnd(t *testing.T) {
	f := newFixture(t, sample, 0)
	if !f.operate("c", "w") {
		t.Fatal("cw failed")
	}
	if got := f.buf.Text(); !strings.HasPrefix(got, " two") {
		t.Errorf("text = %q, want prefix %q", got, " two")
	}
	if f.ctx.Modes.Mode() != mode.Insert {
		t.Errorf("mode = %v, want INSERT", f.ctx.Modes.Mode())
	}
	if len(f.ed.inserts) != 1 || f.ed.inserts[0] != NameChange {
		t.Errorf("inserts = %v, want [change]", f.ed.inserts)
	}
}

func TestChangeLinewiseKeepsLine(t *testing.T) {
	f := newFixture(t, "one\n  two\nthree", 5)
	if !f.operate("c", "_") {
		t.Fatal("cc failed")
	}
	if got, want := f.buf.Text(), "one\n\nthree"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if got := f.register(register.Unnamed); got != "  two\n" {
		t.Errorf("register = %q, want %q", got, "  two\n")
	}
}

func TestShiftLeft(t *testing.T) {
	f := newFixture(t, "      x\n\ty", 0)
	f.operate("<lt>", "j")
	if got, want := f.buf.Text(), "  x\ny"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestPut(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		reg       string
		typ       register.SelectionType
		keys      string
		count     int
		wantText  string
		wantCaret int
	}{
		{"line after last line", "one\ntwo", 5, "x\n", register.LineWise, "p", 0, "one\ntwo\nx", 8},
		{"line after", "one\ntwo", 1, "x\n", register.LineWise, "p", 0, "one\nx\ntwo", 4},
		{"line before", "one\ntwo", 5, "x\n", register.LineWise, "P", 0, "one\nx\ntwo", 4},
		{"line into empty buffer", "", 0, "three\n", register.LineWise, "p", 0, "\nthree", 1},
		{"chars after", "one", 0, "XY", register.CharacterWise, "p", 0, "oXYne", 2},
		{"chars before", "one", 1, "XY", register.CharacterWise, "P", 0, "oXYne", 2},
		{"chars with count", "ab", 0, "-", register.CharacterWise, "p", 3, "a---b", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.caret)
			f.ctx.Registers.SetText('a', tt.reg, tt.typ)
			f.ctx.Registers.SelectRegister('a')
			if !f.run(tt.keys, tt.count, nil) {
				t.Fatalf("%s failed", tt.keys)
			}
			if got := f.buf.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.buf.Caret(); got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
		})
	}
}

func TestPutEmptyRegister(t *testing.T) {
	f := newFixture(t, "one", 0)
	f.ctx.Registers.SelectRegister('q')
	if f.run("p", 0, nil) {
		t.Fatal("p with empty register succeeded")
	}
	if len(f.ed.messages) != 1 || !strings.HasPrefix(f.ed.messages[0], "E353") {
		t.Errorf("messages = %v, want E353", f.ed.messages)
	}
}

func TestChanges(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		keys      string
		count     int
		arg       *vim.Argument
		wantText  string
		wantCaret int
	}{
		{"delete chars", "abcd", 1, "x", 2, nil, "ad", 1},
		{"delete last char", "abc", 2, "x", 0, nil, "ab", 1},
		{"delete char backward", "abcd", 2, "X", 0, nil, "acd", 1},
		{"delete to end", "abc\nd", 1, "D", 0, nil, "a\nd", 0},
		{"join", "one\n  two", 0, "J", 0, nil, "one two", 3},
		{"join empty line", "one\n\nx", 0, "J", 0, nil, "one\nx", 2},
		{"toggle case", "aBc", 0, "~", 3, nil, "AbC", 2},
		{"replace chars", "abc", 0, "r", 2, vim.CharArgument('z'), "zzc", 1},
		{"replace with newline", "abc", 1, "r", 0, vim.CharArgument('\n'), "a\nc", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.caret)
			if !f.run(tt.keys, tt.count, tt.arg) {
				t.Fatalf("%s failed", tt.keys)
			}
			if got := f.buf.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.buf.Caret(); got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
		})
	}
}

func TestChangesFail(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		keys  string
		count int
		arg   *vim.Argument
	}{
		{"delete on empty line", "", "x", 0, nil},
		{"replace past line end", "abc", "r", 5, vim.CharArgument('z')},
		{"join last line", "abc", "J", 0, nil},
		{"undo nothing", "abc", "u", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, 0)
			if f.run(tt.keys, tt.count, tt.arg) {
				t.Errorf("%s succeeded, want failure", tt.keys)
			}
			if got := f.buf.Text(); got != tt.text {
				t.Errorf("text = %q, want unchanged %q", got, tt.text)
			}
		})
	}
}

func TestSmallDeleteRegister(t *testing.T) {
	f := newFixture(t, "abcd", 0)
	f.run("x", 2, nil)
	if got := f.register(register.SmallDelete); got != "ab" {
		t.Errorf(`"- = %q, want "ab"`, got)
	}
}

func TestUndo(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.run("x", 0, nil)
	if !f.run("u", 0, nil) {
		t.Fatal("u failed")
	}
	if got := f.buf.Text(); got != "abc" {
		t.Errorf("text = %q, want %q", got, "abc")
	}
}

func TestInsertCommands(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		keys      string
		wantText  string
		wantCaret int
	}{
		{"insert", "abc", 1, "i", "abc", 1},
		{"append", "abc", 1, "a", "abc", 2},
		{"append at end", "abc", 2, "A", "abc", 3},
		{"insert at first non-blank", "  abc", 4, "I", "  abc", 2},
		{"open below", "  one\ntwo", 0, "o", "  one\n  \ntwo", 8},
		{"open above", "one\n two", 5, "O", "one\n \n two", 5},
		{"substitute", "abc", 0, "s", "bc", 0},
		{"change to end", "abc", 1, "C", "a", 1},
		{"substitute line", "one\ntwo", 0, "S", "\ntwo", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.caret)
			if !f.run(tt.keys, 0, nil) {
				t.Fatalf("%s failed", tt.keys)
			}
			if got := f.buf.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.buf.Caret(); got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
			if f.ctx.Modes.Mode() != mode.Insert {
				t.Errorf("mode = %v, want INSERT", f.ctx.Modes.Mode())
			}
		})
	}
}

func TestReplaceMode(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.run("R", 0, nil)
	if f.ctx.Modes.Mode() != mode.Replace {
		t.Errorf("mode = %v, want REPLACE", f.ctx.Modes.Mode())
	}
}

func TestSetMark(t *testing.T) {
	f := newFixture(t, sample, 16)
	if !f.run("m", 0, vim.CharArgument('a')) {
		t.Fatal("ma failed")
	}
	f.buf.MoveCaret(0)
	if !f.run("`", 0, vim.CharArgument('a')) {
		t.Fatal("`a failed")
	}
	if got := f.buf.Caret(); got != 16 {
		t.Errorf("caret = %d, want 16", got)
	}
}

func TestRecordingToggle(t *testing.T) {
	f := newFixture(t, "", 0)
	q := f.trie.Lookup(mode.MapNormal, key.MustParseSequence("q"))
	if got := q.ArgumentFor(f.ctx); got != vim.ArgCharacter {
		t.Errorf("q argument = %v, want character", got)
	}
	f.run("q", 0, vim.CharArgument('a'))
	if !f.ctx.Registers.IsRecording() {
		t.Fatal("not recording after qa")
	}
	if got := q.ArgumentFor(f.ctx); got != vim.ArgNone {
		t.Errorf("q argument while recording = %v, want none", got)
	}
	f.run("q", 0, nil)
	if f.ctx.Registers.IsRecording() {
		t.Error("still recording after q")
	}
}

func TestJumpList(t *testing.T) {
	f := newFixture(t, sample, 0)
	f.run("G", 0, nil)
	if !f.run("<C-o>", 0, nil) {
		t.Fatal("<C-o> failed")
	}
	if got := f.buf.Caret(); got != 0 {
		t.Errorf("after <C-o> caret = %d, want 0", got)
	}
	if !f.run("<Tab>", 0, nil) {
		t.Fatal("<Tab> failed")
	}
	if got := f.buf.Caret(); got != 24 {
		t.Errorf("after <Tab> caret = %d, want 24", got)
	}
}

func TestVisualDelete(t *testing.T) {
	f := newFixture(t, sample, 0)
	f.run("v", 0, nil)
	if f.ctx.Modes.Mode() != mode.Visual {
		t.Fatalf("mode = %v, want VISUAL", f.ctx.Modes.Mode())
	}
	f.run("e", 0, nil)
	if start, end, ok := f.buf.Selection(); !ok || start != 0 || end != 3 {
		t.Errorf("Selection() = %d, %d, %v, want 0, 3, true", start, end, ok)
	}
	if !f.run("d", 0, nil) {
		t.Fatal("visual d failed")
	}
	if got, want := f.buf.Text(), " two three\nfour five\nsix"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if f.ctx.Modes.Mode() != mode.Command {
		t.Errorf("mode = %v, want COMMAND", f.ctx.Modes.Mode())
	}
	if _, _, ok := f.buf.Selection(); ok {
		t.Error("selection kept after delete")
	}
}

func TestVisualLineYank(t *testing.T) {
	f := newFixture(t, sample, 5)
	f.run("V", 0, nil)
	f.run("j", 0, nil)
	if !f.run("y", 0, nil) {
		t.Fatal("visual y failed")
	}
	if got, want := f.register(register.Unnamed), "one two three\nfour five\n"; got != want {
		t.Errorf("register = %q, want %q", got, want)
	}
	if got := f.buf.Caret(); got != 0 {
		t.Errorf("caret = %d, want 0", got)
	}
	start, end, ok := f.ctx.Marks.VisualSelectionMarks(f.buf)
	if !ok || start != 0 || end != 24 {
		t.Errorf("VisualSelectionMarks() = %d, %d, %v, want 0, 24, true", start, end, ok)
	}
}

func TestVisualToggleKind(t *testing.T) {
	f := newFixture(t, sample, 0)
	f.run("v", 0, nil)
	f.run("V", 0, nil)
	if f.ctx.Modes.SubMode() != mode.LineWise {
		t.Errorf("submode = %v, want line", f.ctx.Modes.SubMode())
	}
	f.run("V", 0, nil)
	if f.ctx.Modes.Mode() != mode.Command {
		t.Errorf("mode = %v, want COMMAND", f.ctx.Modes.Mode())
	}
}

func TestInsertModeKeys(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		caret     int
		keys      string
		wantText  string
		wantCaret int
	}{
		{"backspace", "abc", 2, "<BS>", "ac", 1},
		{"backspace joins lines", "ab\ncd", 3, "<BS>", "abcd", 2},
		{"delete", "abc", 0, "<Del>", "bc", 0},
		{"delete word", "one two", 7, "<C-w>", "one ", 4},
		{"delete line", "x\none two", 6, "<C-u>", "x\ntwo", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.caret)
			f.ctx.Modes.Push(mode.Insert, mode.SubNone)
			if !f.run(tt.keys, 0, nil) {
				t.Fatalf("%s failed", tt.keys)
			}
			if got := f.buf.Text(); got != tt.wantText {
				t.Errorf("text = %q, want %q", got, tt.wantText)
			}
			if got := f.buf.Caret(); got != tt.wantCaret {
				t.Errorf("caret = %d, want %d", got, tt.wantCaret)
			}
		})
	}
}

func TestInsertDigraphAndExit(t *testing.T) {
	f := newFixture(t, "", 0)
	f.ctx.Modes.Push(mode.Insert, mode.SubNone)
	if !f.run("<C-k>", 0, vim.CharArgument('é')) {
		t.Fatal("<C-k> failed")
	}
	if got := f.buf.Text(); got != "é" {
		t.Errorf("text = %q, want %q", got, "é")
	}
	f.run("<Esc>", 0, nil)
	if f.ed.ended != 1 || f.ctx.Modes.Mode() != mode.Command {
		t.Errorf("ended = %d, mode = %v, want 1, COMMAND", f.ed.ended, f.ctx.Modes.Mode())
	}
}

func TestInsertSingleCommand(t *testing.T) {
	f := newFixture(t, "", 0)
	f.ctx.Modes.Push(mode.Insert, mode.SubNone)
	cmd := f.command("<C-o>", 0, nil)
	if !cmd.Flags.Has(vim.FlagExpectMore) {
		t.Error("<C-o> lacks FlagExpectMore")
	}
	vim.Execute(f.ctx, cmd)
	if f.ctx.Modes.Mode() != mode.InsertNormal {
		t.Errorf("mode = %v, want INSERT_NORMAL", f.ctx.Modes.Mode())
	}
}
