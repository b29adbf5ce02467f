package input

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/digraph"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
	"github.com/dshills/modal/internal/logger"
)

// Handler processes the keys of one editor.
//
// All methods are safe for concurrent use. Mapping handlers and hooks
// must not call back into the Handler that invoked them.
type Handler struct {
	mu sync.Mutex

	id     uuid.UUID
	engine *Engine
	buf    buffer.Adapter

	modes   *mode.Machine
	builder *vim.Builder
	state   *keymap.State
	keys    keymap.KeyStack
	digraph *digraph.Sequence
	ctx     *vim.Context
	adapter *editorAdapter

	// opts is refreshed from the engine once per key.
	opts config.Options

	cmdline    []rune
	prompt     rune
	regPending bool

	insert       *insertSession
	lastChange   *vim.Command
	lastInserted string
	repeating    bool
	lastPlayed   rune

	// suspended is set while an async mapping handler runs; typed keys
	// are queued until it completes.
	suspended bool
	queued    []key.Event

	executing int
	deferred  []func()
	aborted   bool

	message string
	lastErr error
	closed  bool

	repeatMu sync.Mutex
	repeatFn keymap.HandlerFunc
}

func newHandler(e *Engine, id uuid.UUID, buf buffer.Adapter) *Handler {
	h := &Handler{
		id:      id,
		engine:  e,
		buf:     buf,
		modes:   mode.NewMachine(),
		builder: vim.NewBuilder(e.trie),
		state:   keymap.NewState(e.sched),
		digraph: digraph.NewSequence(e.digraphs),
		opts:    config.DefaultOptions(),
	}
	h.adapter = &editorAdapter{h: h}
	h.ctx = &vim.Context{
		Buffer:    buf,
		Modes:     h.modes,
		Registers: e.regs,
		Marks:     e.marks,
		Editor:    h.adapter,
		Search:    &vim.SearchState{},
		Visual:    &vim.VisualState{},
	}
	h.builder.Reset(mode.MapNormal)
	return h
}

// ID returns the editor id.
func (h *Handler) ID() uuid.UUID { return h.id }

// Buffer returns the buffer the handler edits.
func (h *Handler) Buffer() buffer.Adapter { return h.buf }

// Modes returns the mode stack.
func (h *Handler) Modes() *mode.Machine { return h.modes }

// Mode returns the top of the mode stack.
func (h *Handler) Mode() mode.State { return h.modes.Current() }

// HandleKey processes one typed key. Problems with the key are reported
// through Status; the only error returned is ErrStateClosed.
func (h *Handler) HandleKey(e key.Event) error {
	start := time.Now()
	if h.engine.hooks.RunPreKey(h.id, e) {
		h.engine.metrics.RecordHookConsumption()
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrStateClosed
	}
	defer h.recoverKey()
	h.engine.focus(h)
	if h.suspended {
		h.queued = append(h.queued, e)
		return nil
	}
	h.typeKey(e)
	h.drainScript()
	h.engine.metrics.RecordKey(time.Since(start))
	return nil
}

// HandleKeys processes keys in order.
func (h *Handler) HandleKeys(keys []key.Event) error {
	for _, e := range keys {
		if err := h.HandleKey(e); err != nil {
			return err
		}
	}
	return nil
}

// Feed processes keys as if they came from a mapping: they are not
// recorded into a macro and remap selects whether mappings apply.
func (h *Handler) Feed(keys []key.Event, remap bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrStateClosed
	}
	if h.suspended {
		h.queued = append(h.queued, keys...)
		return nil
	}
	defer h.recoverKey()
	h.begin()
	h.feed(keys, remap)
	h.drainScript()
	return nil
}

// Execute runs an ex command line, without the leading ':'.
func (h *Handler) Execute(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrStateClosed
	}
	h.begin()
	err := h.executeEx(line)
	h.runDeferred()
	if err != nil {
		h.fail(err)
	}
	h.drainScript()
	return err
}

// Status returns what the host should show in its status line.
func (h *Handler) Status() Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	opts := h.engine.settings()
	cur := h.modes.Current()
	var rec rune
	if h.engine.regs.IsRecording() {
		rec = h.engine.regs.RecordingRegister()
	}
	shown := append(key.Clone(h.builder.Keys()), h.state.Keys()...)
	st := Status{
		Mode:      cur,
		Token:     cur.Token(),
		ShowMode:  mode.StatusLine(cur, opts.ShowMode, rec),
		ShowCmd:   key.Format(shown),
		Recording: rec,
		Message:   h.message,
		Error:     h.lastErr,
	}
	if cur.Mode == mode.CmdLine {
		st.ShowCmd = ""
		st.CmdLine = string(h.prompt) + string(h.cmdline)
	}
	return st
}

// Pending returns the keys held while a longer mapping may still match.
func (h *Handler) Pending() []key.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Keys()
}

// Reset abandons everything in progress and returns to Normal mode.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetAll()
}

// Close stops the mapping timer. Keys sent afterwards are refused.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.resetAll()
	h.closed = true
}

func (h *Handler) resetAll() {
	h.state.Reset()
	h.keys.Reset()
	h.cancel()
	if h.insert != nil {
		h.insert = nil
		h.buf.EndUndoGroup()
	}
	h.modes.Reset()
	h.buf.RemoveSelection()
	h.suspended = false
	h.queued = nil
	h.deferred = nil
}

// begin prepares for a new top level key.
func (h *Handler) begin() {
	h.aborted = false
	h.opts = h.engine.settings()
	h.digraph.SetBackspaceDigraphs(h.opts.Digraph)
}

func (h *Handler) typeKey(e key.Event) {
	h.begin()
	h.lastErr = nil
	h.message = ""
	recording := h.engine.regs.IsRecording()
	h.handleKey(e, true)
	if recording {
		h.engine.regs.RecordKey(e)
	}
}

func (h *Handler) handleKey(e key.Event, allowMap bool) {
	if h.aborted {
		return
	}
	if h.state.Depth() > h.opts.MaxMapDepth {
		h.abort(ErrRecursiveMapping)
		return
	}
	if allowMap && h.handleMapping(e) {
		return
	}
	h.processKey(e)
}

func (h *Handler) fail(err error) {
	h.lastErr = err
	h.message = err.Error()
}

// abort drops every pending key and mapping expansion.
func (h *Handler) abort(err error) {
	logger.Warn("key processing aborted", "editor", h.id, "error", err)
	h.fail(err)
	h.cancel()
	h.state.Reset()
	h.keys.Reset()
	h.deferred = nil
	h.aborted = true
}

// handleMapping resolves e against the mapping registry. It reports false
// when e is not part of any mapping.
func (h *Handler) handleMapping(e key.Event) bool {
	if h.builder.IsAwaitingCharOrDigraphArgument() || h.digraph.Active() || h.regPending {
		return false
	}
	pending := h.state.HasKeys()
	if !pending {
		if h.builder.IsBuildingMultiKeyCommand() {
			return false
		}
		if e == key.Rune('0') && h.builder.Count() > 0 {
			return false
		}
	}

	mm := h.modes.MappingMode()
	h.state.StopTimer()
	keys := append(h.state.Keys(), e)

	if h.engine.maps.HasPrefix(mm, keys) {
		h.state.AddKey(e)
		switch {
		case h.state.InMapping() && !h.keys.HasKey():
			h.resolvePending()
		case !h.state.InMapping() && h.opts.Timeout:
			h.state.StartTimer(h.opts.TimeoutDuration(), h.onTimeout)
		}
		return true
	}
	if m := h.engine.maps.Lookup(mm, keys); m != nil {
		h.state.ResetSequence()
		h.runMapping(m, keys)
		return true
	}
	if pending {
		h.resolveKeys(h.state.DetachKeys())
		h.handleKey(e, true)
		return true
	}
	return false
}

func (h *Handler) onTimeout(token uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || !h.state.IsCurrent(token) {
		return
	}
	h.engine.metrics.RecordTimeout()
	h.begin()
	h.resolvePending()
	h.drainScript()
}

func (h *Handler) resolvePending() {
	h.state.StopTimer()
	h.resolveKeys(h.state.DetachKeys())
}

// resolveKeys handles keys that were held for a longer mapping that did
// not come. The longest mapped prefix runs; otherwise the first key is
// taken literally. The remaining keys are looked at again.
func (h *Handler) resolveKeys(keys []key.Event) {
	if len(keys) == 0 || keys[0] == key.Plug {
		return
	}
	mm := h.modes.MappingMode()
	for n := len(keys); n > 0; n-- {
		if m := h.engine.maps.Lookup(mm, keys[:n]); m != nil {
			h.runMapping(m, keys[:n])
			for _, e := range keys[n:] {
				h.handleKey(e, true)
			}
			return
		}
	}
	h.processKey(keys[0])
	for _, e := range keys[1:] {
		h.handleKey(e, true)
	}
}

func (h *Handler) runMapping(m *keymap.Mapping, keys []key.Event) {
	h.engine.metrics.RecordMapping()
	logger.Debug("mapping", "editor", h.id, "from", key.Format(m.From), "to", m.Info.String())

	switch m.Info.Kind {
	case keymap.KindKeys:
		h.replay(m.Info.Keys, m.Recursive, m.FromIsPrefix())
	case keymap.KindExpression:
		h.runExpression(m)
	case keymap.KindHandler:
		h.runHandler(m.Info.Handler, m.Info.Async, keys)
	case keymap.KindAction:
		fn, ok := h.engine.action(m.Info.Action)
		if !ok {
			h.fail(fmt.Errorf("%w: %s", ErrUnknownAction, m.Info.Action))
			return
		}
		h.runHandler(fn, false, keys)
	}
}

// replay handles keys as one mapping expansion. With skipFirst the first
// key is not remapped, so :map x xy does not loop.
func (h *Handler) replay(keys []key.Event, remap, skipFirst bool) {
	if len(keys) == 0 {
		return
	}
	h.state.Enter()
	h.keys.Push(keys)
	first := true
	for !h.aborted {
		e, ok := h.keys.Next()
		if !ok {
			break
		}
		h.handleKey(e, remap && !(first && skipFirst))
		first = false
	}
	if h.aborted {
		return
	}
	h.keys.Pop()
	h.state.Exit()
}

func (h *Handler) runExpression(m *keymap.Mapping) {
	s := h.engine.getScript()
	if s == nil {
		h.fail(ErrNoScript)
		return
	}
	out, err := s.Evaluate(m.Info.Expr)
	if err != nil {
		logger.Warn("mapping expression failed", "expr", m.Info.Expr, "error", err)
		h.fail(err)
		return
	}
	seq, err := key.ParseSequence(out)
	if err != nil {
		seq = key.FromString(out)
	}
	h.replay(seq, m.Recursive, key.HasPrefix(seq, m.From))
}

// runHandler calls an extension function. A mapping typed after an
// operator completes the operator over the text between the caret before
// and after the call, or over the selection the function made.
func (h *Handler) runHandler(fn keymap.HandlerFunc, async bool, keys []key.Event) {
	count := h.builder.Count()
	opPending := h.modes.Mode() == mode.OpPending
	caret := h.buf.Caret()
	h.state.Enter()

	// 0 running, 1 done before returning, 2 returned while still running,
	// 3 finished.
	var phase atomic.Int32
	finish := func() { h.finishHandler(opPending, caret) }
	var done func()
	if async {
		done = func() {
			if phase.CompareAndSwap(0, 1) {
				return
			}
			if phase.CompareAndSwap(2, 3) {
				h.completeAsync(finish)
			}
		}
	}

	ctx := keymap.NewHandlerContext(h.buf, count, opPending, key.Clone(keys), done)
	if err := h.callHandler(fn, ctx); err != nil {
		h.fail(err)
		phase.Store(3)
	}
	if async && phase.CompareAndSwap(0, 2) {
		h.suspended = true
		return
	}
	finish()
}

// recoverKey stops a panic raised while processing input, reports it and
// drops the command state. h.mu must be held.
func (h *Handler) recoverKey() {
	r := recover()
	if r == nil {
		return
	}
	werr := errors.Wrap(r, 2)
	logger.Error("key processing panic", "editor", h.id, "panic", werr.Error(), "stack", werr.ErrorStack())
	h.engine.metrics.RecordPanic()
	h.resetAll()
	h.fail(werr)
}

func (h *Handler) callHandler(fn keymap.HandlerFunc, ctx *keymap.HandlerContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			werr := errors.Wrap(r, 2)
			logger.Error("mapping handler panic", "editor", h.id, "panic", werr.Error(), "stack", werr.ErrorStack())
			h.engine.metrics.RecordPanic()
			err = werr
		}
	}()
	return fn(ctx)
}

func (h *Handler) finishHandler(opPending bool, caret int) {
	h.state.Exit()
	if !opPending {
		// The handler consumed the count.
		h.resetCommand()
		return
	}
	if h.modes.Mode() != mode.OpPending {
		return
	}
	var r vim.Range
	if start, end, ok := h.buf.Selection(); ok {
		r = vim.Range{Start: start, End: end, Type: register.CharacterWise}
	} else {
		r = vim.Range{Start: min(caret, h.buf.Caret()), End: max(caret, h.buf.Caret()), Type: register.CharacterWise}
	}
	h.builder.CompleteCommandPart(vim.OffsetsArgument(r))
	h.executeCommand()
}

// completeAsync runs when an async handler calls Done after returning. The
// keys typed meanwhile are processed now.
func (h *Handler) completeAsync(finish func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	defer h.recoverKey()
	h.suspended = false
	h.begin()
	finish()

	queued := h.queued
	h.queued = nil
	for i, e := range queued {
		if h.suspended {
			h.queued = append(h.queued, queued[i:]...)
			break
		}
		h.typeKey(e)
	}
	h.drainScript()
}
