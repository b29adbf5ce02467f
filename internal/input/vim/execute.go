package vim

import (
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
)

// Execute runs cmd. It returns false when the command could not be
// carried out; the buffer is left untouched in that case unless the
// handler already changed it.
func Execute(ctx *Context, cmd *Command) bool {
	h := cmd.Handler
	if h == nil {
		return true
	}
	switch h.Kind {
	case KindMotion:
		return executeMotion(ctx, cmd)
	case KindTextObject:
		r, ok := h.TextObject(ctx, cmd.Count())
		if !ok {
			return false
		}
		if ctx.Modes.Mode().InVisual() {
			SelectRange(ctx, r)
		}
		return true
	case KindChange:
		return h.Change(ctx, cmd)
	case KindOperator:
		r, ok := OperatorRange(ctx, cmd)
		if !ok {
			return false
		}
		return h.Operator(ctx, cmd, r)
	}
	return false
}

func executeMotion(ctx *Context, cmd *Command) bool {
	off, ok := cmd.Handler.Motion(ctx, cmd)
	if !ok {
		return false
	}
	if cmd.Flags.Has(FlagSaveJump) {
		ctx.Marks.SaveJumpLocation(ctx.Buffer)
	}
	ctx.Buffer.MoveCaret(off)
	if ctx.Modes.Mode().InVisual() {
		UpdateSelection(ctx)
		return true
	}
	ClampCaret(ctx.Buffer, ctx.Modes.Mode())
	return true
}

// OperatorRange computes the range cmd's argument covers from the caret.
func OperatorRange(ctx *Context, cmd *Command) (Range, bool) {
	arg := cmd.Argument
	if arg == nil {
		return Range{}, false
	}
	switch arg.Type {
	case ArgOffsets:
		return arg.Offsets, true
	case ArgMotion:
	default:
		return Range{}, false
	}

	m := arg.Motion
	if m == nil || m.Handler == nil {
		return Range{}, false
	}
	saved := ctx.Operator
	ctx.Operator = cmd
	defer func() { ctx.Operator = saved }()

	switch m.Handler.Kind {
	case KindTextObject:
		return m.Handler.TextObject(ctx, m.Count())
	case KindMotion:
		caret := ctx.Buffer.Caret()
		target, ok := m.Handler.Motion(ctx, m)
		if !ok {
			return Range{}, false
		}
		if m.Flags.Has(FlagSaveJump) {
			ctx.Marks.SaveJumpLocation(ctx.Buffer)
		}
		return MotionRange(ctx.Buffer, caret, target, m.Flags), true
	}
	return Range{}, false
}

// MotionRange turns a motion from caret to target into the range an
// operator acts on.
func MotionRange(buf buffer.Reader, caret, target int, flags Flags) Range {
	start, end := caret, target
	if start > end {
		start, end = end, start
	}
	if flags.Has(FlagMotionLinewise) {
		return LineRange(buf, buf.OffsetToPoint(start).Line, buf.OffsetToPoint(end).Line)
	}
	if flags.Has(FlagMotionInclusive) {
		if next := buf.NextCharOffset(end); next > end {
			end = next
		} else if end < buf.Len() {
			end++
		}
		return Range{Start: start, End: end, Type: register.CharacterWise}
	}

	// An exclusive motion that ends in column 0 stops at the end of the
	// line before; from at or before the first non-blank it covers whole
	// lines.
	sp, ep := buf.OffsetToPoint(start), buf.OffsetToPoint(end)
	if end > start && ep.Column == 0 && ep.Line > sp.Line {
		if start <= FirstNonBlank(buf, sp.Line) {
			return LineRange(buf, sp.Line, ep.Line-1)
		}
		end = buf.LineEndOffset(ep.Line - 1)
	}
	return Range{Start: start, End: end, Type: register.CharacterWise}
}

// LineRange covers lines first..last including the final newline, if any.
func LineRange(buf buffer.Reader, first, last int) Range {
	start := buf.LineStartOffset(first)
	end := buf.LineEndOffset(last)
	if end < buf.Len() {
		end++
	}
	return Range{Start: start, End: end, Type: register.LineWise}
}

// FirstNonBlank returns the offset of the first non-blank of line, or its
// end when the line is blank.
func FirstNonBlank(buf buffer.Reader, line int) int {
	start := buf.LineStartOffset(line)
	end := buf.LineEndOffset(line)
	text := buf.TextRange(start, end)
	for i := 0; i < len(text); i++ {
		if text[i] != ' ' && text[i] != '\t' {
			return start + i
		}
	}
	return end
}

// ClampCaret keeps the caret off the newline in modes where it sits on a
// character.
func ClampCaret(buf buffer.Adapter, m mode.Mode) {
	if m.InInsert() || m.InVisual() || m == mode.CmdLine {
		return
	}
	caret := buf.Caret()
	line := buf.OffsetToPoint(caret).Line
	start, end := buf.LineStartOffset(line), buf.LineEndOffset(line)
	if caret >= end && end > start {
		buf.MoveCaret(buf.PrevCharOffset(end))
	}
}

// SelectionRange returns the range the visual selection covers.
func SelectionRange(ctx *Context) Range {
	buf := ctx.Buffer
	a, c := ctx.Visual.Anchor, buf.Caret()
	if a > c {
		a, c = c, a
	}
	switch ctx.Modes.SubMode() {
	case mode.LineWise:
		return LineRange(buf, buf.OffsetToPoint(a).Line, buf.OffsetToPoint(c).Line)
	case mode.BlockWise:
		r := charRange(buf, a, c)
		r.Type = register.BlockWise
		return r
	}
	return charRange(buf, a, c)
}

func charRange(buf buffer.Reader, a, c int) Range {
	end := buf.NextCharOffset(c)
	if end == c && c < buf.Len() {
		end++
	}
	return Range{Start: a, End: end, Type: register.CharacterWise}
}

// UpdateSelection mirrors the visual selection onto the buffer.
func UpdateSelection(ctx *Context) {
	r := SelectionRange(ctx)
	ctx.Buffer.SetSelection(r.Start, r.End)
}

// SelectRange makes r the visual selection with the caret at its end.
func SelectRange(ctx *Context, r Range) {
	ctx.Visual.Anchor = r.Start
	end := r.End
	if end > r.Start {
		end = ctx.Buffer.PrevCharOffset(end)
		if end == r.End && end > r.Start {
			end--
		}
	}
	ctx.Buffer.MoveCaret(end)
	if r.Type == register.LineWise && ctx.Modes.SubMode() != mode.LineWise {
		ctx.Modes.SetSubMode(mode.LineWise)
	}
	UpdateSelection(ctx)
}
