package action

import (
	"strings"

	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

// shiftWidth is the indent > and < add or remove.
const shiftWidth = 4

func operator(name string, typ vim.Type, dup rune, fn vim.OperatorFunc) *vim.Handler {
	return &vim.Handler{
		Name:          name,
		Kind:          vim.KindOperator,
		Type:          typ,
		Argument:      vim.ArgMotion,
		DuplicateWith: dup,
		Operator:      fn,
	}
}

func operatorBindings() []Binding {
	var out []Binding
	out = append(out, bind(mode.N, operator(NameDelete, vim.TypeDelete, 'd', deleteOp), "d")...)
	out = append(out, bind(mode.N, operator(NameChange, vim.TypeChange, 'c', changeOp), "c")...)
	out = append(out, bind(mode.N, operator(NameYank, vim.TypeCopy, 'y', yankOp), "y")...)
	out = append(out, bind(mode.N, operator("shift-right", vim.TypeOtherWritable, '>', shiftOp(true)), ">")...)
	out = append(out, bind(mode.N, operator("shift-left", vim.TypeOtherWritable, '<', shiftOp(false)), "<lt>")...)
	return out
}

// motionName returns the name of the motion an operator was given.
func motionName(cmd *vim.Command) string {
	if cmd.Argument != nil && cmd.Argument.Type == vim.ArgMotion {
		return cmd.Argument.Motion.Name()
	}
	return ""
}

// deleteRange stores r in the selected register and removes it. Deleting
// whole lines at the end of the buffer also removes the newline before
// them.
func deleteRange(ctx *vim.Context, r vim.Range, motion string, isChange bool) bool {
	buf := ctx.Buffer
	ctx.Registers.StoreText(buf, register.Store{
		Start:  r.Start,
		End:    r.End,
		Type:   r.Type,
		Delete: true,
		Motion: motion,
	})
	start, end := r.Start, r.End
	if r.Type == register.LineWise && end == buf.Len() && start > 0 && !strings.HasSuffix(buf.TextRange(start, end), "\n") {
		start--
	}
	if start >= end {
		return true
	}
	ctx.Marks.UpdateMarkFromDelete(buf, start, end-start, isChange)
	return buf.Delete(start, end) == nil
}

// insertText inserts text at off, shifting the marks below it.
func insertText(ctx *vim.Context, off int, text string) bool {
	ctx.Marks.UpdateMarkFromInsert(ctx.Buffer, off, text)
	return ctx.Buffer.Insert(off, text) == nil
}

func beginInsert(ctx *vim.Context, cmd *vim.Command) {
	if ctx.Editor != nil {
		ctx.Editor.BeginInsert(cmd)
	}
}

func deleteOp(ctx *vim.Context, cmd *vim.Command, r vim.Range) bool {
	if !deleteRange(ctx, r, motionName(cmd), false) {
		return false
	}
	buf := ctx.Buffer
	off := r.Start
	if off > buf.Len() {
		off = buf.Len()
	}
	if r.Type == register.LineWise {
		off = vim.FirstNonBlank(buf, lineOf(buf, off))
	}
	buf.MoveCaret(off)
	vim.ClampCaret(buf, ctx.Modes.Mode())
	return true
}

// changeOp deletes r and starts insert mode. Changing whole lines keeps
// one empty line to type into.
func changeOp(ctx *vim.Context, cmd *vim.Command, r vim.Range) bool {
	buf := ctx.Buffer
	if r.Type == register.LineWise {
		ctx.Registers.StoreText(buf, register.Store{
			Start:  r.Start,
			End:    r.End,
			Type:   register.LineWise,
			Delete: true,
			Motion: motionName(cmd),
		})
		end := r.End
		if end > r.Start && buf.TextRange(end-1, end) == "\n" {
			end--
		}
		if end > r.Start {
			ctx.Marks.UpdateMarkFromDelete(buf, r.Start, end-r.Start, true)
			if err := buf.Delete(r.Start, end); err != nil {
				return false
			}
		}
	} else if !deleteRange(ctx, r, motionName(cmd), true) {
		return false
	}
	buf.MoveCaret(r.Start)
	beginInsert(ctx, cmd)
	return true
}

// yankOp copies r. The caret moves to the start of a characterwise range
// and up to the first line of a linewise one.
func yankOp(ctx *vim.Context, _ *vim.Command, r vim.Range) bool {
	buf := ctx.Buffer
	if !ctx.Registers.StoreText(buf, register.Store{Start: r.Start, End: r.End, Type: r.Type}) {
		return false
	}
	caret := buf.Caret()
	switch {
	case r.Type != register.LineWise:
		buf.MoveCaret(r.Start)
	case lineOf(buf, r.Start) < lineOf(buf, caret):
		p := buf.OffsetToPoint(caret)
		p.Line = lineOf(buf, r.Start)
		buf.MoveCaret(buf.PointToOffset(p))
	}
	vim.ClampCaret(buf, ctx.Modes.Mode())
	return true
}

func shiftOp(right bool) vim.OperatorFunc {
	return func(ctx *vim.Context, _ *vim.Command, r vim.Range) bool {
		shiftLines(ctx, r, right, 1)
		return true
	}
}

// shiftLines indents or dedents every line r touches times over. Empty
// lines are not indented.
func shiftLines(ctx *vim.Context, r vim.Range, right bool, times int) {
	buf := ctx.Buffer
	last := r.End
	if last > r.Start {
		last--
	}
	first, lastLine := lineOf(buf, r.Start), lineOf(buf, last)
	indent := strings.Repeat(" ", shiftWidth*times)
	for l := first; l <= lastLine; l++ {
		start, end := buf.LineStartOffset(l), buf.LineEndOffset(l)
		if right {
			if start < end {
				buf.Insert(start, indent)
			}
			continue
		}
		n := 0
		text := buf.TextRange(start, end)
		for n < len(text) && n < len(indent) {
			if text[n] == '\t' {
				n++
				break
			}
			if text[n] != ' ' {
				break
			}
			n++
		}
		if n > 0 {
			buf.Delete(start, start+n)
		}
	}
	buf.MoveCaret(vim.FirstNonBlank(buf, first))
}
