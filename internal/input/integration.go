package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/action"
	"github.com/dshills/modal/internal/input/ex"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
	"github.com/dshills/modal/internal/logger"
)

// editorAdapter is what commands see of the handler. Its methods run with
// the handler lock held.
type editorAdapter struct {
	h *Handler
}

var (
	_ vim.Editor = (*editorAdapter)(nil)
	_ ex.Host    = (*editorAdapter)(nil)
)

func (a *editorAdapter) ExecuteEx(text string) error          { return a.h.executeEx(text) }
func (a *editorAdapter) BeginInsert(cmd *vim.Command)         { a.h.beginInsert(cmd) }
func (a *editorAdapter) EndInsert()                           { a.h.endInsert() }
func (a *editorAdapter) InsertText(text string)               { a.h.typeText(text) }
func (a *editorAdapter) RepeatLastChange(count int) error     { return a.h.repeatLastChange(count) }
func (a *editorAdapter) PlayRegister(r rune, count int) error { return a.h.playRegister(r, count) }
func (a *editorAdapter) Message(msg string)                   { a.h.message = msg }

func (a *editorAdapter) Buffer() buffer.Adapter     { return a.h.buf }
func (a *editorAdapter) Registers() *register.Group { return a.h.engine.regs }
func (a *editorAdapter) Marks() *mark.Group         { return a.h.engine.marks }
func (a *editorAdapter) Mappings() *keymap.Registry { return a.h.engine.maps }

func (a *editorAdapter) Normal(keys []key.Event, remap bool) error {
	a.h.normal(keys, remap)
	return nil
}

func (a *editorAdapter) Option(name string) (string, bool) {
	return a.h.engine.Option(name)
}

func (a *editorAdapter) SetOption(name, value string) error {
	if err := a.h.engine.SetOption(name, value); err != nil {
		return err
	}
	a.h.opts = a.h.engine.settings()
	a.h.digraph.SetBackspaceDigraphs(a.h.opts.Digraph)
	return nil
}

func (a *editorAdapter) Script() ex.Script {
	if s := a.h.engine.getScript(); s != nil {
		return s
	}
	return nil
}

func (h *Handler) executeEx(text string) error {
	h.engine.regs.StoreTextSpecial(register.LastCommand, text)
	h.engine.history.Add(text)
	err := h.engine.commands.Execute(h.adapter, text)
	if err != nil {
		logger.Debug("ex command failed", "editor", h.id, "line", text, "error", err)
	}
	return err
}

// insertSession is the Insert mode entered by one command.
type insertSession struct {
	cmd   *vim.Command
	start int
}

func (h *Handler) beginInsert(cmd *vim.Command) {
	if h.repeating {
		h.replayInsert(cmd)
		return
	}
	if h.modes.Mode() == mode.InsertNormal {
		// Back from a <C-o> excursion into the session that started it.
		h.modes.Pop()
		if h.insert != nil {
			h.insert.start = h.buf.Caret()
		}
		return
	}
	h.buf.BeginUndoGroup()
	h.insert = &insertSession{cmd: cmd, start: h.buf.Caret()}
	h.modes.Push(mode.Insert, mode.SubNone)
}

// typeText puts text at the caret, overwriting in Replace mode.
func (h *Handler) typeText(text string) {
	if text == "" {
		return
	}
	if !h.buf.IsWritable() {
		h.fail(ErrReadOnlyBuffer)
		return
	}
	caret := h.buf.Caret()
	var err error
	if h.modes.Mode() == mode.Replace && text != "\n" {
		err = h.buf.Replace(caret, h.overwriteEnd(caret, text), text)
	} else {
		h.engine.marks.UpdateMarkFromInsert(h.buf, caret, text)
		err = h.buf.Insert(caret, text)
	}
	if err != nil {
		h.fail(err)
		return
	}
	h.buf.MoveCaret(caret + len(text))
}

// overwriteEnd returns the end of the text text replaces at offset,
// stopping at the end of the line.
func (h *Handler) overwriteEnd(offset int, text string) int {
	line := h.buf.OffsetToPoint(offset).Line
	lineEnd := h.buf.LineEndOffset(line)
	end := offset
	for range utf8.RuneCountInString(text) {
		if end >= lineEnd {
			break
		}
		end = h.buf.NextCharOffset(end)
	}
	return end
}

func (h *Handler) endInsert() {
	s := h.insert
	h.insert = nil
	if s == nil {
		if h.modes.Mode().InInsert() {
			h.modes.Pop()
		}
		return
	}

	caret := h.buf.Caret()
	var text string
	if caret > s.start {
		text = h.buf.TextRange(s.start, caret)
	}
	end := caret
	if s.cmd != nil && s.cmd.Type == vim.TypeInsert && s.cmd.Count() > 1 && text != "" {
		more := strings.Repeat(text, s.cmd.Count()-1)
		h.engine.marks.UpdateMarkFromInsert(h.buf, caret, more)
		if err := h.buf.Insert(caret, more); err == nil {
			end = caret + len(more)
			h.buf.MoveCaret(end)
		}
	}
	h.lastInserted = text
	h.engine.regs.StoreTextSpecial(register.LastInserted, text)
	h.engine.marks.SetChangeMarks(h.buf, s.start, end)
	h.buf.EndUndoGroup()

	if h.modes.Mode().InInsert() {
		h.modes.Pop()
	}
	h.stepBack()
}

// replayInsert types the last inserted text again for a repeated insert
// or change command.
func (h *Handler) replayInsert(cmd *vim.Command) {
	text := h.lastInserted
	if cmd.Type == vim.TypeInsert && cmd.Count() > 1 {
		text = strings.Repeat(text, cmd.Count())
	}
	if text == "" {
		return
	}
	caret := h.buf.Caret()
	var err error
	if cmd.Name() == "replace-mode" {
		err = h.buf.Replace(caret, h.overwriteEnd(caret, text), text)
	} else {
		h.engine.marks.UpdateMarkFromInsert(h.buf, caret, text)
		err = h.buf.Insert(caret, text)
	}
	if err != nil {
		h.fail(err)
		return
	}
	h.buf.MoveCaret(caret + len(text))
	h.engine.marks.SetChangeMarks(h.buf, caret, caret+len(text))
	h.stepBack()
}

// stepBack moves the caret one character left unless it is at the start
// of its line, as leaving Insert mode does.
func (h *Handler) stepBack() {
	caret := h.buf.Caret()
	line := h.buf.OffsetToPoint(caret).Line
	if caret > h.buf.LineStartOffset(line) {
		h.buf.MoveCaret(h.buf.PrevCharOffset(caret))
	}
	vim.ClampCaret(h.buf, h.modes.Mode())
}

func (h *Handler) repeatLastChange(count int) error {
	h.repeatMu.Lock()
	fn := h.repeatFn
	h.repeatMu.Unlock()
	if fn != nil {
		return h.callHandler(fn, keymap.NewHandlerContext(h.buf, count, false, nil, nil))
	}
	if h.lastChange == nil || h.repeating {
		return nil
	}

	cmd := h.lastChange.Clone()
	if count > 0 {
		if arg := cmd.Argument; arg != nil && arg.Type == vim.ArgMotion && arg.Motion != nil {
			arg.Motion.RawCount = count
			cmd.RawCount = 0
		} else {
			cmd.RawCount = count
		}
	}
	// "1p... walks through the numbered registers.
	if r := h.lastChange.Register; r >= '1' && r < '9' {
		h.lastChange.Register = r + 1
		cmd.Register = r + 1
	}

	h.repeating = true
	defer func() { h.repeating = false }()
	if cmd.Register != 0 {
		h.engine.regs.SelectRegister(cmd.Register)
	}
	h.run(cmd)
	return nil
}

func (h *Handler) playRegister(r rune, count int) error {
	if r == '@' {
		if h.lastPlayed == 0 {
			return ErrNoPreviousRegister
		}
		r = h.lastPlayed
	}
	count = max(count, 1)

	if r == register.LastCommand {
		reg, ok := h.engine.regs.GetRegister(r)
		if !ok || reg.Text == "" {
			return ErrNoPreviousCommand
		}
		h.lastPlayed = r
		for range count {
			if err := h.executeEx(reg.Text); err != nil {
				return err
			}
		}
		return nil
	}

	reg, ok := h.engine.regs.PlaybackRegister(r)
	if !ok {
		return fmt.Errorf("E354: invalid register name: '%c'", r)
	}
	h.lastPlayed = r
	keys := reg.KeySequence()
	seq := make([]key.Event, 0, len(keys)*count)
	for range count {
		seq = append(seq, keys...)
	}
	h.feed(seq, true)
	return nil
}

// feed replays keys as a mapping expansion. While a command executes the
// keys wait until it has finished.
func (h *Handler) feed(keys []key.Event, remap bool) {
	if len(keys) == 0 {
		return
	}
	keys = key.Clone(keys)
	if h.executing > 0 {
		h.deferred = append(h.deferred, func() { h.replay(keys, remap, false) })
		return
	}
	h.replay(keys, remap, false)
}

// normal runs keys for :normal. A command left incomplete is cancelled and
// an Insert mode it entered is ended.
func (h *Handler) normal(keys []key.Event, remap bool) {
	keys = key.Clone(keys)
	run := func() {
		h.replay(keys, remap, false)
		if h.aborted {
			return
		}
		h.state.ResetSequence()
		cur := h.modes.Mode()
		if !h.builder.IsAtDefaultState() || h.builder.IsBuildingMultiKeyCommand() || h.regPending ||
			h.digraph.Active() || cur == mode.CmdLine || cur == mode.OpPending {
			h.cancel()
		}
		if h.modes.Mode().InInsert() {
			h.endInsert()
		}
		if h.modes.Mode().InVisual() || h.modes.Mode().InSelect() {
			action.ExitVisual(h.ctx)
		}
	}
	if h.executing > 0 {
		h.deferred = append(h.deferred, run)
		return
	}
	run()
}

// scriptOp is a request a script made while the engine was busy.
type scriptOp struct {
	keys  []key.Event
	remap bool
	msg   string
}

// queueScript queues op for the focused editor.
func (e *Engine) queueScript(op scriptOp) {
	h := e.active.Load()
	if h == nil {
		h = e.def
	}
	e.scriptMu.Lock()
	defer e.scriptMu.Unlock()
	e.scriptQueue[h.id] = append(e.scriptQueue[h.id], op)
}

func (e *Engine) takeScript(id uuid.UUID) []scriptOp {
	e.scriptMu.Lock()
	defer e.scriptMu.Unlock()
	ops := e.scriptQueue[id]
	delete(e.scriptQueue, id)
	return ops
}

// drainScript carries out what scripts queued for this editor while the
// last key was processed.
func (h *Handler) drainScript() {
	for !h.aborted {
		ops := h.engine.takeScript(h.id)
		if len(ops) == 0 {
			return
		}
		for _, op := range ops {
			if op.msg != "" {
				h.message = op.msg
			}
			h.replay(op.keys, op.remap, false)
		}
	}
}

// ScriptHost is the engine as seen from scripts. It only touches state
// with its own locking, so scripts may call it while a key is being
// processed; keys it feeds run after that key.
type ScriptHost struct {
	e *Engine
}

// ScriptHost returns the host to bind into a script interpreter.
func (e *Engine) ScriptHost() *ScriptHost {
	return &ScriptHost{e: e}
}

// FeedKeys queues keys in key notation for the focused editor.
func (s *ScriptHost) FeedKeys(keys string, remap bool) error {
	seq, err := key.ParseSequence(keys)
	if err != nil {
		return err
	}
	s.e.queueScript(scriptOp{keys: seq, remap: remap})
	return nil
}

// Mode returns the mode token of the focused editor.
func (s *ScriptHost) Mode() string {
	h := s.e.active.Load()
	if h == nil {
		h = s.e.def
	}
	return h.modes.Current().Token()
}

// Register returns the text of register name.
func (s *ScriptHost) Register(name rune) (string, bool) {
	reg, ok := s.e.regs.GetRegister(name)
	return reg.Text, ok
}

// SetRegister writes text into register name.
func (s *ScriptHost) SetRegister(name rune, text string) bool {
	typ := register.CharacterWise
	if strings.HasSuffix(text, "\n") {
		typ = register.LineWise
	}
	return s.e.regs.SetText(name, text, typ)
}

// Map adds a mapping owned by scripts.
func (s *ScriptHost) Map(modes, lhs, rhs string, noremap bool) error {
	return s.e.PutKeyMapping(modes, lhs, rhs, s.e.scriptOwner, !noremap)
}

// MapFunc maps lhs to fn, owned by scripts. fn gets the count typed
// before the mapping.
func (s *ScriptHost) MapFunc(modes, lhs string, fn func(count int) error) error {
	set, err := keymap.ParseModes(modes)
	if err != nil {
		return err
	}
	from, err := key.ParseSequence(lhs)
	if err != nil {
		return err
	}
	handler := func(ctx *keymap.HandlerContext) error { return fn(ctx.Count) }
	return s.e.maps.Put(set, from, s.e.scriptOwner, keymap.ToHandler(handler), false)
}

// Unmap removes a mapping in modes.
func (s *ScriptHost) Unmap(modes, lhs string) error {
	set, err := keymap.ParseModes(modes)
	if err != nil {
		return err
	}
	from, err := key.ParseSequence(lhs)
	if err != nil {
		return err
	}
	return s.e.maps.Remove(set, from)
}

// Option returns an option value as text.
func (s *ScriptHost) Option(name string) (string, bool) {
	return s.e.Option(name)
}

// SetOption sets an option from text.
func (s *ScriptHost) SetOption(name, value string) error {
	return s.e.SetOption(name, value)
}

// Message shows msg in the focused editor after the current key.
func (s *ScriptHost) Message(msg string) {
	s.e.queueScript(scriptOp{msg: msg})
}
