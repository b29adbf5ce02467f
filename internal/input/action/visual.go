package action

import (
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

func visualBindings() []Binding {
	var out []Binding
	n := func(h *vim.Handler, keys ...string) { out = append(out, bind(mode.N, h, keys...)...) }
	x := func(h *vim.Handler, keys ...string) { out = append(out, bind(mode.X, h, keys...)...) }

	n(change("visual-char", vim.TypeOtherReadonly, vim.FlagNoRepeat, startVisual(mode.CharacterWise)), "v")
	n(change("visual-line", vim.TypeOtherReadonly, vim.FlagNoRepeat, startVisual(mode.LineWise)), "V")
	n(change("visual-block", vim.TypeOtherReadonly, vim.FlagNoRepeat, startVisual(mode.BlockWise)), "<C-v>")
	n(change("visual-reselect", vim.TypeOtherReadonly, vim.FlagNoRepeat, reselect), "gv")
	n(change("select-char", vim.TypeOtherReadonly, vim.FlagNoRepeat, startSelect), "gh")

	x(change("visual-char", vim.TypeOtherReadonly, vim.FlagNoRepeat, switchVisual(mode.CharacterWise)), "v")
	x(change("visual-line", vim.TypeOtherReadonly, vim.FlagNoRepeat, switchVisual(mode.LineWise)), "V")
	x(change("visual-block", vim.TypeOtherReadonly, vim.FlagNoRepeat, switchVisual(mode.BlockWise)), "<C-v>")
	x(change("exit-visual", vim.TypeOtherReadonly, vim.FlagExitVisual|vim.FlagNoRepeat, exitVisualCmd), "<Esc>", "<C-c>")
	x(change("visual-swap-ends", vim.TypeOtherReadonly, vim.FlagNoRepeat, swapEnds), "o")
	x(visualOp("visual-delete", vim.TypeDelete, deleteOp), "d", "x", "<Del>")
	x(visualOp("visual-change", vim.TypeChange, changeOp), "c", "s")
	x(visualOp("visual-yank", vim.TypeCopy, yankOp), "y")
	x(visualOp("visual-shift-right", vim.TypeOtherWritable, visualShift(true)), ">")
	x(visualOp("visual-shift-left", vim.TypeOtherWritable, visualShift(false)), "<lt>")
	x(visualOp("visual-join", vim.TypeOtherWritable, visualJoin), "J")
	x(visualOp("visual-toggle-case", vim.TypeOtherWritable, visualToggleCase), "~")

	out = append(out, bind(mode.S, change("exit-select", vim.TypeOtherReadonly, vim.FlagExitVisual|vim.FlagNoRepeat, exitSelect), "<Esc>", "<C-c>")...)
	return out
}

// visualOp runs fn on the selection after leaving visual mode.
func visualOp(name string, typ vim.Type, fn vim.OperatorFunc) *vim.Handler {
	return change(name, typ, vim.FlagExitVisual|vim.FlagNoRepeat, func(ctx *vim.Context, cmd *vim.Command) bool {
		r := vim.SelectionRange(ctx)
		ExitVisual(ctx)
		ctx.Buffer.MoveCaret(r.Start)
		return fn(ctx, cmd, r)
	})
}

func startVisual(sub mode.SubMode) vim.ChangeFunc {
	return func(ctx *vim.Context, _ *vim.Command) bool {
		m := mode.Visual
		if ctx.Modes.Mode() == mode.InsertNormal {
			m = mode.InsertVisual
		}
		ctx.Modes.Push(m, sub)
		ctx.Visual.Anchor = ctx.Buffer.Caret()
		vim.UpdateSelection(ctx)
		return true
	}
}

// switchVisual changes the kind of selection; repeating the current kind
// leaves visual mode.
func switchVisual(sub mode.SubMode) vim.ChangeFunc {
	return func(ctx *vim.Context, _ *vim.Command) bool {
		if ctx.Modes.SubMode() == sub {
			ExitVisual(ctx)
			return true
		}
		ctx.Modes.SetSubMode(sub)
		vim.UpdateSelection(ctx)
		return true
	}
}

func reselect(ctx *vim.Context, _ *vim.Command) bool {
	start, end, ok := ctx.Marks.VisualSelectionMarks(ctx.Buffer)
	if !ok {
		return false
	}
	ctx.Modes.Push(mode.Visual, mode.CharacterWise)
	ctx.Visual.Anchor = start
	if end > start {
		end--
	}
	ctx.Buffer.MoveCaret(end)
	vim.UpdateSelection(ctx)
	return true
}

func startSelect(ctx *vim.Context, _ *vim.Command) bool {
	ctx.Modes.Push(mode.Select, mode.CharacterWise)
	ctx.Visual.Anchor = ctx.Buffer.Caret()
	vim.UpdateSelection(ctx)
	return true
}

// ExitVisual leaves visual or select mode, remembering the selection in
// the < and > marks.
func ExitVisual(ctx *vim.Context) {
	buf := ctx.Buffer
	r := vim.SelectionRange(ctx)
	ctx.Marks.SetVisualSelectionMarks(buf, r.Start, r.End)
	ctx.Modes.Pop()
	buf.RemoveSelection()
	vim.ClampCaret(buf, ctx.Modes.Mode())
}

func exitVisualCmd(ctx *vim.Context, _ *vim.Command) bool {
	ExitVisual(ctx)
	return true
}

func exitSelect(ctx *vim.Context, _ *vim.Command) bool {
	ExitVisual(ctx)
	return true
}

func swapEnds(ctx *vim.Context, _ *vim.Command) bool {
	caret := ctx.Buffer.Caret()
	ctx.Buffer.MoveCaret(ctx.Visual.Anchor)
	ctx.Visual.Anchor = caret
	vim.UpdateSelection(ctx)
	return true
}

func visualShift(right bool) vim.OperatorFunc {
	return func(ctx *vim.Context, cmd *vim.Command, r vim.Range) bool {
		shiftLines(ctx, r, right, cmd.Count())
		return true
	}
}

func visualJoin(ctx *vim.Context, cmd *vim.Command, r vim.Range) bool {
	buf := ctx.Buffer
	last := r.End
	if last > r.Start {
		last--
	}
	lines := lineOf(buf, last) - lineOf(buf, r.Start) + 1
	join := *cmd
	join.RawCount = lines
	return joinLines(ctx, &join)
}

func visualToggleCase(ctx *vim.Context, _ *vim.Command, r vim.Range) bool {
	buf := ctx.Buffer
	if err := buf.Replace(r.Start, r.End, swapCase(buf.TextRange(r.Start, r.End))); err != nil {
		return false
	}
	buf.MoveCaret(r.Start)
	if r.Type == register.LineWise {
		buf.MoveCaret(vim.FirstNonBlank(buf, lineOf(buf, r.Start)))
	}
	vim.ClampCaret(buf, ctx.Modes.Mode())
	return true
}
