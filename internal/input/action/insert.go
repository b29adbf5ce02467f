package action

import (
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

func insertBindings() []Binding {
	var out []Binding
	add := func(h *vim.Handler, keys ...string) {
		out = append(out, bind(mode.I, h, keys...)...)
	}
	edit := func(name string, fn vim.ChangeFunc) *vim.Handler {
		return change(name, vim.TypeOtherWritable, vim.FlagNoRepeat, fn)
	}
	move := func(name string, fn vim.ChangeFunc) *vim.Handler {
		return change(name, vim.TypeOtherReadonly, vim.FlagNoRepeat, fn)
	}

	add(change(NameInsertExit, vim.TypeOtherReadonly, vim.FlagNoRepeat, insertExit), "<Esc>", "<C-[>", "<C-c>")
	add(withArg(edit(NameInsertDigraph, insertArgument), vim.ArgDigraph), "<C-k>")
	add(withArg(edit(NameInsertLiteral, insertArgument), vim.ArgDigraph), "<C-v>", "<C-q>")
	add(withArg(edit("insert-register", insertRegister), vim.ArgCharacter), "<C-r>")
	add(change("insert-single-command", vim.TypeOtherReadonly, vim.FlagExpectMore|vim.FlagNoRepeat, singleCommand), "<C-o>")
	add(edit("insert-backspace", insertBackspace), "<BS>", "<C-h>")
	add(edit("insert-delete", insertDelete), "<Del>")
	add(edit("insert-delete-word", insertDeleteWord), "<C-w>")
	add(edit("insert-delete-line", insertDeleteLine), "<C-u>")
	add(move("insert-toggle-overwrite", toggleOverwrite), "<Insert>")
	add(move("insert-left", insertMove(-1, 0)), "<Left>")
	add(move("insert-right", insertMove(1, 0)), "<Right>")
	add(move("insert-up", insertMove(0, -1)), "<Up>")
	add(move("insert-down", insertMove(0, 1)), "<Down>")
	add(move("insert-home", insertLineEdge(false)), "<Home>")
	add(move("insert-end", insertLineEdge(true)), "<End>")
	return out
}

// cmdLineBindings covers the keys of the command line that finish an ex
// string. The rest of command-line editing happens in the key handler.
func cmdLineBindings() []Binding {
	enter := change(NameCmdLineEnter, vim.TypeOtherReadonly, vim.FlagCompleteEx|vim.FlagNoRepeat, func(*vim.Context, *vim.Command) bool {
		return true
	})
	return bind(mode.C, enter, "<CR>", "<C-j>", "<C-m>")
}

func insertExit(ctx *vim.Context, _ *vim.Command) bool {
	if ctx.Editor == nil {
		ctx.Modes.Pop()
		return true
	}
	ctx.Editor.EndInsert()
	return true
}

// insertArgument types the character a digraph or literal produced.
func insertArgument(ctx *vim.Context, cmd *vim.Command) bool {
	if cmd.Argument == nil || ctx.Editor == nil {
		return false
	}
	ctx.Editor.InsertText(string(cmd.Argument.Char))
	return true
}

func insertRegister(ctx *vim.Context, cmd *vim.Command) bool {
	if cmd.Argument == nil || ctx.Editor == nil {
		return false
	}
	if !register.IsValid(cmd.Argument.Char) {
		return false
	}
	reg, ok := ctx.Registers.GetRegister(cmd.Argument.Char)
	if !ok {
		return false
	}
	ctx.Editor.InsertText(reg.Text)
	return true
}

func singleCommand(ctx *vim.Context, _ *vim.Command) bool {
	ctx.Modes.Push(mode.InsertNormal, mode.SubNone)
	return true
}

func insertBackspace(ctx *vim.Context, _ *vim.Command) bool {
	buf := ctx.Buffer
	caret := buf.Caret()
	if caret == 0 {
		return false
	}
	start := buf.PrevCharOffset(caret)
	if start == caret {
		// at the line start: join with the line above
		start = caret - 1
	}
	return deleteSpan(ctx, start, caret)
}

func insertDelete(ctx *vim.Context, _ *vim.Command) bool {
	buf := ctx.Buffer
	caret := buf.Caret()
	if caret >= buf.Len() {
		return false
	}
	end := buf.NextCharOffset(caret)
	if end == caret {
		end = caret + 1
	}
	return deleteSpan(ctx, caret, end)
}

func insertDeleteWord(ctx *vim.Context, _ *vim.Command) bool {
	buf := ctx.Buffer
	caret := buf.Caret()
	lineStart := buf.LineStartOffset(lineOf(buf, caret))
	if caret == lineStart {
		return insertBackspace(ctx, nil)
	}
	start := prevWordStart(buf.Text(), caret, false)
	if start < lineStart {
		start = lineStart
	}
	return deleteSpan(ctx, start, caret)
}

func insertDeleteLine(ctx *vim.Context, _ *vim.Command) bool {
	buf := ctx.Buffer
	caret := buf.Caret()
	start := buf.LineStartOffset(lineOf(buf, caret))
	if start == caret {
		return false
	}
	return deleteSpan(ctx, start, caret)
}

// deleteSpan removes text typed in insert mode. It does not touch the
// registers.
func deleteSpan(ctx *vim.Context, start, end int) bool {
	buf := ctx.Buffer
	ctx.Marks.UpdateMarkFromDelete(buf, start, end-start, true)
	if err := buf.Delete(start, end); err != nil {
		return false
	}
	buf.MoveCaret(start)
	return true
}

func toggleOverwrite(ctx *vim.Context, _ *vim.Command) bool {
	ctx.Modes.ToggleInsertOverwrite()
	return true
}

func insertMove(dx, dy int) vim.ChangeFunc {
	return func(ctx *vim.Context, _ *vim.Command) bool {
		buf := ctx.Buffer
		caret := buf.Caret()
		switch {
		case dy != 0:
			off, ok := moveLines(ctx, dy)
			if !ok {
				return false
			}
			buf.MoveCaret(off)
		case dx < 0:
			buf.MoveCaret(buf.PrevCharOffset(caret))
		default:
			buf.MoveCaret(buf.NextCharOffset(caret))
		}
		return true
	}
}

func insertLineEdge(end bool) vim.ChangeFunc {
	return func(ctx *vim.Context, _ *vim.Command) bool {
		buf := ctx.Buffer
		line := lineOf(buf, buf.Caret())
		if end {
			buf.MoveCaret(buf.LineEndOffset(line))
		} else {
			buf.MoveCaret(buf.LineStartOffset(line))
		}
		return true
	}
}
