package input

import (
	"unicode"

	"github.com/go-errors/errors"

	"github.com/dshills/modal/internal/input/action"
	"github.com/dshills/modal/internal/input/digraph"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
	"github.com/dshills/modal/internal/logger"
)

// processKey feeds one unmapped key to the command builder.
func (h *Handler) processKey(e key.Event) {
	cur := h.modes.Mode()

	if cur == mode.CmdLine && !h.digraph.Active() && h.editCmdLine(e) {
		return
	}
	if h.digraph.Active() {
		h.processDigraph(e)
		return
	}
	if h.regPending {
		h.regPending = false
		if e.IsRune() && register.IsValid(e.Rune) {
			h.builder.PushRegister(e.Rune)
			h.builder.AddKey(e)
			return
		}
		h.bad()
		return
	}
	if cur.InSelect() && h.builder.IsAtDefaultState() && !h.builder.IsBuildingMultiKeyCommand() && isTypable(e) {
		h.replaceSelection(e)
		return
	}
	if h.isCountKey(cur, e) {
		h.builder.AddCountDigit(e)
		return
	}
	if e == key.Delete && h.builder.Count() > 0 && h.builder.IsExpectingCount() {
		h.builder.DeleteCountDigit()
		return
	}
	if e.IsClose() && h.shouldCancel(cur) {
		h.escape()
		return
	}
	if h.builder.IsAwaitingCharOrDigraphArgument() {
		h.charArgument(e)
		return
	}
	if cur.InInsert() && h.builder.IsAtDefaultState() && !h.builder.IsBuildingMultiKeyCommand() {
		if r := h.digraph.Process(e); r.Kind == digraph.Done {
			h.typeText(string(r.Char))
			return
		}
	}

	var n *vim.Node
	if cur == mode.OpPending && !h.builder.IsBuildingMultiKeyCommand() && h.builder.IsDuplicateOperator(e) {
		n = h.builder.Child(key.Rune('_'))
	} else {
		n = h.builder.Child(e)
	}
	if n != nil {
		if n.IsCommand() {
			h.handleCommandNode(e, n)
			return
		}
		h.builder.SetNode(n)
		h.builder.AddKey(e)
		return
	}

	if e == key.Rune('"') && (cur.InNormal() || cur.InVisual()) &&
		h.builder.Expected() == vim.ArgNone && !h.builder.IsBuildingMultiKeyCommand() {
		h.regPending = true
		h.builder.AddKey(e)
		return
	}
	if cur.InInsert() && h.builder.IsEmpty() && !h.builder.IsBuildingMultiKeyCommand() && isTypable(e) {
		h.typeText(string(e.Char()))
		return
	}
	h.bad()
}

func isTypable(e key.Event) bool {
	return e.IsRune() || e == key.Tab || e == key.Enter
}

func (h *Handler) isCountKey(cur mode.Mode, e key.Event) bool {
	if !cur.InNormal() && !cur.InVisual() && cur != mode.OpPending {
		return false
	}
	if !e.IsDigit() || !h.builder.IsExpectingCount() || h.builder.IsBuildingMultiKeyCommand() {
		return false
	}
	return e.Rune != '0' || h.builder.Count() > 0
}

func (h *Handler) shouldCancel(cur mode.Mode) bool {
	return !h.builder.IsAtDefaultState() ||
		h.builder.IsBuildingMultiKeyCommand() ||
		h.regPending ||
		cur == mode.OpPending ||
		cur.InNormal()
}

// bad drops the command being typed.
func (h *Handler) bad() {
	h.engine.metrics.RecordBadKey()
	h.lastErr = ErrUnknownCommand
	logger.Debug("unknown command", "editor", h.id, "keys", key.Format(h.builder.Keys()))
	h.cancel()
}

// cancel abandons the command being typed, leaving operator-pending and
// command-line modes. The rest of the mode stack is kept.
func (h *Handler) cancel() {
	h.digraph.Reset()
	h.regPending = false
	if h.modes.Mode() == mode.CmdLine {
		h.closeCmdLine()
	}
	h.modes.ResetOpPending()
	h.resetCommand()
}

// escape is cancel for an explicit <Esc>, which also ends a single
// command typed from Insert with <C-o>.
func (h *Handler) escape() {
	h.cancel()
	if h.modes.Mode() == mode.InsertNormal {
		h.modes.Pop()
	}
}

func (h *Handler) resetCommand() {
	h.builder.Reset(h.modes.MappingMode())
	h.ctx.Operator = nil
}

func (h *Handler) charArgument(e key.Event) {
	if h.builder.Expected() == vim.ArgDigraph {
		switch {
		case h.digraph.IsDigraphStart(e):
			h.digraph.StartDigraph()
			h.builder.AddKey(e)
			return
		case h.digraph.IsLiteralStart(e):
			h.digraph.StartLiteral()
			h.builder.AddKey(e)
			return
		}
	}
	ch := e.Char()
	if ch == 0 {
		h.bad()
		return
	}
	h.builder.AddKey(e)
	h.builder.CompleteCommandPart(vim.CharArgument(ch))
	h.executeCommand()
}

func (h *Handler) processDigraph(e key.Event) {
	r := h.digraph.Process(e)
	switch r.Kind {
	case digraph.Handled:
		if h.modes.Mode() != mode.CmdLine {
			h.builder.AddKey(e)
		}
	case digraph.Done:
		h.digraphChar(r.Char)
		if r.Replay {
			h.processKey(e)
		}
	case digraph.Bad:
		h.digraph.Reset()
		if h.modes.Mode() != mode.CmdLine {
			h.cancel()
		}
	default:
		h.digraph.Reset()
		h.processKey(e)
	}
}

// digraphChar delivers a character entered as a digraph or literal.
func (h *Handler) digraphChar(ch rune) {
	switch {
	case h.builder.IsAwaitingCharOrDigraphArgument():
		h.builder.CompleteCommandPart(vim.CharArgument(ch))
		h.executeCommand()
	case h.modes.Mode() == mode.CmdLine:
		h.cmdline = append(h.cmdline, ch)
	default:
		h.typeText(string(ch))
	}
}

// editCmdLine handles the editing keys of the command line. It reports
// false for keys the command-line trie binds, like <CR>.
func (h *Handler) editCmdLine(e key.Event) bool {
	switch {
	case e.IsClose():
		h.escape()
	case e == key.Backspace || e == key.Ctrl('h'):
		if len(h.cmdline) == 0 {
			h.escape()
			break
		}
		h.cmdline = h.cmdline[:len(h.cmdline)-1]
	case e == key.Ctrl('u'):
		h.cmdline = h.cmdline[:0]
	case e == key.Ctrl('w'):
		h.cmdline = deleteWord(h.cmdline)
	case h.digraph.IsDigraphStart(e):
		h.digraph.StartDigraph()
	case h.digraph.IsLiteralStart(e):
		h.digraph.StartLiteral()
	case h.builder.Child(e) != nil:
		return false
	case e.IsRune() || e == key.Tab:
		h.cmdline = append(h.cmdline, e.Char())
	}
	return true
}

func deleteWord(line []rune) []rune {
	i := len(line)
	for i > 0 && unicode.IsSpace(line[i-1]) {
		i--
	}
	if i == 0 {
		return line[:0]
	}
	word := isWordRune(line[i-1])
	for i > 0 && !unicode.IsSpace(line[i-1]) && isWordRune(line[i-1]) == word {
		i--
	}
	return line[:i]
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (h *Handler) openCmdLine(e key.Event) {
	h.prompt = e.Char()
	h.cmdline = h.cmdline[:0]
	h.modes.Push(mode.CmdLine, mode.SubNone)
}

func (h *Handler) closeCmdLine() {
	if h.modes.Mode() == mode.CmdLine {
		h.modes.Pop()
	}
	h.cmdline = nil
	h.prompt = 0
}

// handleCommandNode takes the key that completed a trie path.
func (h *Handler) handleCommandNode(e key.Event, n *vim.Node) {
	hd := n.Handler()
	h.builder.AddKey(e)

	if hd.Flags.Has(vim.FlagCompleteEx) {
		text := string(h.cmdline)
		h.closeCmdLine()
		h.builder.CompleteCommandPart(vim.ExStringArgument(text))
		h.executeCommand()
		return
	}

	h.builder.PushCommand(hd)
	if hd.DynamicArgument != nil {
		h.builder.SetExpected(hd.ArgumentFor(h.ctx))
	}
	switch h.builder.Expected() {
	case vim.ArgNone:
		h.builder.SetState(vim.StateReady)
		h.executeCommand()
		return
	case vim.ArgMotion:
		h.modes.Push(mode.OpPending, mode.SubNone)
	case vim.ArgCharacter, vim.ArgDigraph:
		switch hd.Name {
		case vim.InsertDigraphName:
			h.digraph.StartDigraph()
		case vim.InsertLiteralName:
			h.digraph.StartLiteral()
		}
	case vim.ArgExString:
		h.openCmdLine(e)
	}
	h.builder.ResetInProgress(h.modes.MappingMode())
}

// executeCommand builds and runs the finished command.
func (h *Handler) executeCommand() {
	cmd := h.builder.Build()
	h.modes.ResetOpPending()
	if cmd == nil {
		h.resetCommand()
		return
	}
	h.engine.metrics.RecordCommand()

	if cmd.Type.IsWrite() && !h.buf.IsWritable() {
		h.fail(ErrReadOnlyBuffer)
		h.resetCommand()
		return
	}
	regs := h.engine.regs
	if cmd.Register != 0 {
		regs.SelectRegister(cmd.Register)
	}

	h.executing++
	ok := h.run(cmd)
	h.executing--

	if !cmd.Flags.Has(vim.FlagKeepRegister) {
		regs.ResetRegister()
	}
	if ok && !h.repeating && !cmd.Flags.Has(vim.FlagNoRepeat) && cmd.Type.IsWrite() {
		h.lastChange = cmd.Clone()
		h.repeatMu.Lock()
		h.repeatFn = nil
		h.repeatMu.Unlock()
	}
	if h.modes.Mode() == mode.InsertNormal && !cmd.Flags.Has(vim.FlagExpectMore) {
		h.modes.Pop()
	}
	h.resetCommand()
	if h.executing == 0 {
		h.runDeferred()
	}
}

// run executes cmd as one undo step. A panic in the command is logged and
// reported as a failed command.
func (h *Handler) run(cmd *vim.Command) (ok bool) {
	h.buf.BeginUndoGroup()
	defer h.buf.EndUndoGroup()
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrap(r, 2)
			logger.Error("command panic", "editor", h.id, "command", cmd.Name(), "panic", err.Error(), "stack", err.ErrorStack())
			h.engine.metrics.RecordPanic()
			h.fail(err)
			ok = false
		}
	}()

	ok = vim.Execute(h.ctx, cmd)
	if !ok {
		logger.Debug("command failed", "editor", h.id, "command", cmd.String())
	}
	return ok
}

func (h *Handler) runDeferred() {
	for len(h.deferred) > 0 && !h.aborted {
		fn := h.deferred[0]
		h.deferred = h.deferred[1:]
		fn()
	}
	if h.aborted {
		h.deferred = nil
	}
}

// replaceSelection deletes the Select mode selection and starts inserting
// with e.
func (h *Handler) replaceSelection(e key.Event) {
	if !h.buf.IsWritable() {
		h.fail(ErrReadOnlyBuffer)
		return
	}
	r := vim.SelectionRange(h.ctx)
	action.ExitVisual(h.ctx)

	h.buf.BeginUndoGroup()
	defer h.buf.EndUndoGroup()
	h.engine.marks.UpdateMarkFromDelete(h.buf, r.Start, r.Len(), true)
	if err := h.buf.Delete(r.Start, r.End); err != nil {
		h.fail(err)
		h.cancel()
		return
	}
	h.buf.MoveCaret(r.Start)
	h.beginInsert(&vim.Command{Type: vim.TypeOtherWritable, Flags: vim.FlagNoRepeat})
	h.typeText(string(e.Char()))
}
