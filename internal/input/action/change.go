package action

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

func change(name string, typ vim.Type, flags vim.Flags, fn vim.ChangeFunc) *vim.Handler {
	return &vim.Handler{Name: name, Kind: vim.KindChange, Type: typ, Flags: flags, Change: fn}
}

func withArg(h *vim.Handler, a vim.ArgumentType) *vim.Handler {
	h.Argument = a
	return h
}

func changeBindings() []Binding {
	var out []Binding
	add := func(h *vim.Handler, keys ...string) {
		out = append(out, bind(mode.N, h, keys...)...)
	}

	add(change("delete-char", vim.TypeDelete, 0, deleteChars(true, false)), "x", "<Del>")
	add(change("delete-char-backward", vim.TypeDelete, 0, deleteChars(false, false)), "X")
	add(change("substitute-char", vim.TypeChange, 0, deleteChars(true, true)), "s")
	add(change("delete-to-end", vim.TypeDelete, 0, toLineEnd(false)), "D")
	add(change("change-to-end", vim.TypeChange, 0, toLineEnd(true)), "C")
	add(change("substitute-line", vim.TypeChange, 0, substituteLine), "S")
	add(change(NamePutAfter, vim.TypePaste, 0, put(true)), "p")
	add(change(NamePutBefore, vim.TypePaste, 0, put(false)), "P")

	add(change("insert-before", vim.TypeInsert, 0, insertAt(insertBefore)), "i", "<Insert>")
	add(change("insert-after", vim.TypeInsert, 0, insertAt(insertAfter)), "a")
	add(change("insert-line-start", vim.TypeInsert, 0, insertAt(insertLineStart)), "I")
	add(change("insert-line-end", vim.TypeInsert, 0, insertAt(insertLineEnd)), "A")
	add(change("open-line-below", vim.TypeInsert, 0, openLine(true)), "o")
	add(change("open-line-above", vim.TypeInsert, 0, openLine(false)), "O")
	add(change("replace-mode", vim.TypeInsert, 0, replaceMode), "R")

	add(withArg(change("replace-char", vim.TypeChange, 0, replaceChar), vim.ArgDigraph), "r")
	add(change("join-lines", vim.TypeOtherWritable, 0, joinLines), "J")
	add(change("toggle-case", vim.TypeOtherWritable, 0, toggleCase), "~")
	add(change("undo", vim.TypeOtherSelfSynchronized, vim.FlagNoRepeat, undo), "u")
	add(change(NameRepeatChange, vim.TypeOtherSelfSynchronized, vim.FlagNoRepeat, repeatChange), ".")

	add(withArg(change("set-mark", vim.TypeOtherReadonly, vim.FlagNoRepeat, setMark), vim.ArgCharacter), "m")
	record := change(NameRecord, vim.TypeOtherReadonly, vim.FlagNoRepeat, toggleRecording)
	record.DynamicArgument = recordingArgument
	add(record, "q")
	add(withArg(change(NamePlayRegister, vim.TypeOtherSelfSynchronized, vim.FlagNoRepeat, playRegister), vim.ArgCharacter), "@")
	add(withArg(change(NameExCommand, vim.TypeOtherSelfSynchronized, vim.FlagNoRepeat, exCommand), vim.ArgExString), ":")

	add(change("jump-older", vim.TypeOtherReadonly, vim.FlagNoRepeat, jump(-1)), "<C-o>")
	add(change("jump-newer", vim.TypeOtherReadonly, vim.FlagNoRepeat, jump(1)), "<C-i>", "<Tab>")
	return out
}

// charSpan returns the range of up to n characters from off, staying on
// off's line. Backward spans end at off.
func charSpan(buf buffer.Reader, off, n int, forward bool) (int, int) {
	start, end := off, off
	for i := 0; i < n; i++ {
		if forward {
			next := buf.NextCharOffset(end)
			if next == end {
				break
			}
			end = next
		} else {
			prev := buf.PrevCharOffset(start)
			if prev == start {
				break
			}
			start = prev
		}
	}
	return start, end
}

func deleteChars(forward, insert bool) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		start, end := charSpan(buf, buf.Caret(), cmd.Count(), forward)
		if start == end && !insert {
			return false
		}
		r := vim.Range{Start: start, End: end, Type: register.CharacterWise}
		if !deleteRange(ctx, r, "", insert) {
			return false
		}
		buf.MoveCaret(start)
		if insert {
			beginInsert(ctx, cmd)
			return true
		}
		vim.ClampCaret(buf, ctx.Modes.Mode())
		return true
	}
}

// toLineEnd covers the caret to the end of the line, count-1 lines
// further down.
func toLineEnd(insert bool) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		caret := buf.Caret()
		last := clampLine(buf, lineOf(buf, caret)+cmd.Count()-1)
		r := vim.Range{Start: caret, End: buf.LineEndOffset(last), Type: register.CharacterWise}
		if r.Start < r.End && !deleteRange(ctx, r, "", insert) {
			return false
		}
		buf.MoveCaret(caret)
		if insert {
			beginInsert(ctx, cmd)
			return true
		}
		vim.ClampCaret(buf, ctx.Modes.Mode())
		return true
	}
}

func substituteLine(ctx *vim.Context, cmd *vim.Command) bool {
	buf := ctx.Buffer
	line := lineOf(buf, buf.Caret())
	r := vim.LineRange(buf, line, clampLine(buf, line+cmd.Count()-1))
	return changeOp(ctx, cmd, r)
}

// put inserts the selected register count times. Linewise text goes on
// its own lines below or above the caret line.
func put(after bool) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		reg, ok := ctx.Registers.LastRegister()
		if !ok || reg.Text == "" {
			message(ctx, fmt.Sprintf("E353: Nothing in register %c", ctx.Registers.CurrentRegister()))
			return false
		}
		text := strings.Repeat(reg.Text, cmd.Count())
		caret := buf.Caret()
		line := lineOf(buf, caret)

		var start int
		if reg.Type == register.LineWise {
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			switch end := buf.LineEndOffset(line); {
			case !after:
				start = buf.LineStartOffset(line)
			case end < buf.Len():
				start = end + 1
			default:
				// the last line has no newline to insert after
				if !insertText(ctx, end, "\n"+strings.TrimSuffix(text, "\n")) {
					return false
				}
				start = end + 1
				ctx.Marks.SetChangeMarks(buf, start, buf.Len())
				buf.MoveCaret(vim.FirstNonBlank(buf, lineOf(buf, start)))
				return true
			}
			if !insertText(ctx, start, text) {
				return false
			}
			ctx.Marks.SetChangeMarks(buf, start, start+len(text))
			buf.MoveCaret(vim.FirstNonBlank(buf, lineOf(buf, start)))
			return true
		}

		start = caret
		if after && caret < buf.LineEndOffset(line) {
			start = buf.NextCharOffset(caret)
		}
		if !insertText(ctx, start, text) {
			return false
		}
		end := start + len(text)
		ctx.Marks.SetChangeMarks(buf, start, end)
		buf.MoveCaret(buf.PrevCharOffset(end))
		vim.ClampCaret(buf, ctx.Modes.Mode())
		return true
	}
}

type insertPosition int

const (
	insertBefore insertPosition = iota
	insertAfter
	insertLineStart
	insertLineEnd
)

func insertAt(pos insertPosition) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		caret := buf.Caret()
		line := lineOf(buf, caret)
		switch pos {
		case insertAfter:
			if caret < buf.LineEndOffset(line) {
				buf.MoveCaret(buf.NextCharOffset(caret))
			}
		case insertLineStart:
			buf.MoveCaret(vim.FirstNonBlank(buf, line))
		case insertLineEnd:
			buf.MoveCaret(buf.LineEndOffset(line))
		}
		beginInsert(ctx, cmd)
		return true
	}
}

// openLine starts a new line below or above the caret line, keeping the
// caret line's indent.
func openLine(below bool) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		line := lineOf(buf, buf.Caret())
		start := buf.LineStartOffset(line)
		indent := buf.TextRange(start, vim.FirstNonBlank(buf, line))
		if below {
			end := buf.LineEndOffset(line)
			if !insertText(ctx, end, "\n"+indent) {
				return false
			}
			buf.MoveCaret(end + 1 + len(indent))
		} else {
			if !insertText(ctx, start, indent+"\n") {
				return false
			}
			buf.MoveCaret(start + len(indent))
		}
		beginInsert(ctx, cmd)
		return true
	}
}

func replaceMode(ctx *vim.Context, cmd *vim.Command) bool {
	beginInsert(ctx, cmd)
	ctx.Modes.ToggleInsertOverwrite()
	return true
}

// replaceChar overwrites count characters. A newline replaces them all
// with a single line break.
func replaceChar(ctx *vim.Context, cmd *vim.Command) bool {
	if cmd.Argument == nil {
		return false
	}
	buf := ctx.Buffer
	caret := buf.Caret()
	start, end := charSpan(buf, caret, cmd.Count(), true)
	if end == start || utf8.RuneCountInString(buf.TextRange(start, end)) < cmd.Count() {
		return false
	}
	ch := cmd.Argument.Char
	if ch == '\n' || ch == '\r' {
		if err := buf.Replace(start, end, "\n"); err != nil {
			return false
		}
		buf.MoveCaret(start + 1)
		return true
	}
	text := strings.Repeat(string(ch), cmd.Count())
	if err := buf.Replace(start, end, text); err != nil {
		return false
	}
	ctx.Marks.SetChangeMarks(buf, start, start+len(text))
	buf.MoveCaret(buf.PrevCharOffset(start + len(text)))
	return true
}

// joinLines joins count lines, at least two, replacing each line break
// and the indent after it with one space.
func joinLines(ctx *vim.Context, cmd *vim.Command) bool {
	buf := ctx.Buffer
	line := lineOf(buf, buf.Caret())
	joins := cmd.Count() - 1
	if joins < 1 {
		joins = 1
	}
	if line+1 >= buf.LineCount() {
		return false
	}
	var at int
	for i := 0; i < joins && line+1 < buf.LineCount(); i++ {
		end := buf.LineEndOffset(line)
		next := vim.FirstNonBlank(buf, line+1)
		sep := " "
		nextEnd := buf.LineEndOffset(line + 1)
		switch {
		case next == nextEnd:
			sep = ""
		case end > buf.LineStartOffset(line) && buf.TextRange(end-1, end) == " ":
			sep = ""
		case buf.TextRange(next, next+1) == ")":
			sep = ""
		}
		if err := buf.Replace(end, next, sep); err != nil {
			return false
		}
		at = end
	}
	buf.MoveCaret(at)
	vim.ClampCaret(buf, ctx.Modes.Mode())
	return true
}

func toggleCase(ctx *vim.Context, cmd *vim.Command) bool {
	buf := ctx.Buffer
	start, end := charSpan(buf, buf.Caret(), cmd.Count(), true)
	if start == end {
		return false
	}
	if err := buf.Replace(start, end, swapCase(buf.TextRange(start, end))); err != nil {
		return false
	}
	buf.MoveCaret(end)
	vim.ClampCaret(buf, ctx.Modes.Mode())
	return true
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}

func undo(ctx *vim.Context, cmd *vim.Command) bool {
	done := false
	for i := 0; i < cmd.Count(); i++ {
		if !ctx.Buffer.Undo() {
			break
		}
		done = true
	}
	if !done {
		message(ctx, "Already at oldest change")
		return false
	}
	vim.ClampCaret(ctx.Buffer, ctx.Modes.Mode())
	return true
}

func repeatChange(ctx *vim.Context, cmd *vim.Command) bool {
	if ctx.Editor == nil {
		return false
	}
	if err := ctx.Editor.RepeatLastChange(cmd.RawCount); err != nil {
		message(ctx, err.Error())
		return false
	}
	return true
}

func setMark(ctx *vim.Context, cmd *vim.Command) bool {
	if cmd.Argument == nil || !mark.IsValidSet(cmd.Argument.Char) {
		return false
	}
	return ctx.Marks.SetMark(ctx.Buffer, cmd.Argument.Char, ctx.Buffer.Caret())
}

// recordingArgument makes q take a register name only when it starts a
// recording.
func recordingArgument(ctx *vim.Context) vim.ArgumentType {
	if ctx.Registers.IsRecording() {
		return vim.ArgNone
	}
	return vim.ArgCharacter
}

func toggleRecording(ctx *vim.Context, cmd *vim.Command) bool {
	if ctx.Registers.IsRecording() {
		ctx.Registers.FinishRecording()
		return true
	}
	if cmd.Argument == nil {
		return false
	}
	return ctx.Registers.StartRecording(cmd.Argument.Char)
}

func playRegister(ctx *vim.Context, cmd *vim.Command) bool {
	if ctx.Editor == nil || cmd.Argument == nil {
		return false
	}
	if err := ctx.Editor.PlayRegister(cmd.Argument.Char, cmd.Count()); err != nil {
		message(ctx, err.Error())
		return false
	}
	return true
}

func exCommand(ctx *vim.Context, cmd *vim.Command) bool {
	if ctx.Editor == nil || cmd.Argument == nil {
		return false
	}
	if err := ctx.Editor.ExecuteEx(cmd.Argument.Text); err != nil {
		message(ctx, err.Error())
		return false
	}
	return true
}

// jump moves through the jump list. Leaving the newest position records
// it so <C-i> can come back.
func jump(dir int) vim.ChangeFunc {
	return func(ctx *vim.Context, cmd *vim.Command) bool {
		buf := ctx.Buffer
		spot := ctx.Marks.JumpSpot()
		j, ok := ctx.Marks.GetJump(dir * cmd.Count())
		if !ok {
			return false
		}
		if dir < 0 && spot == -1 {
			ctx.Marks.AddJump(buf, buf.Caret(), false)
		}
		if j.Path != buf.Path() {
			message(ctx, "jump target is in "+j.Path)
			return false
		}
		line := clampLine(buf, j.Line)
		buf.MoveCaret(buf.PointToOffset(buffer.Point{Line: line, Column: j.Col}))
		vim.ClampCaret(buf, ctx.Modes.Mode())
		return true
	}
}
