package input

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/action"
	"github.com/dshills/modal/internal/input/digraph"
	"github.com/dshills/modal/internal/input/ex"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
	"github.com/dshills/modal/internal/logger"
)

// Engine is the state shared by every editor: the key trie, mappings,
// registers, marks, ex commands and options.
//
// Lock order is Handler.mu before Engine.mu. Engine methods never call
// into a handler while holding Engine.mu.
type Engine struct {
	mu sync.RWMutex

	options  config.Options
	trie     *vim.Trie
	maps     *keymap.Registry
	regs     *register.Group
	marks    *mark.Group
	digraphs *digraph.Table
	commands *ex.Table
	history  *ex.History
	script   Script
	sched    keymap.Scheduler
	actions  map[string]keymap.HandlerFunc

	editors map[uuid.UUID]*Handler
	def     *Handler
	active  atomic.Pointer[Handler]

	scriptOwner keymap.Owner
	scriptMu    sync.Mutex
	scriptQueue map[uuid.UUID][]scriptOp

	metrics *Metrics
	hooks   *HookManager
}

// NewEngine creates an engine with the built-in commands and the
// mappings of cfg.Options.
func NewEngine(cfg Config) *Engine {
	opts := cfg.Options.Clone()
	if opts.MaxMapDepth <= 0 {
		opts = config.DefaultOptions()
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if cfg.Digraphs == nil {
		cfg.Digraphs = digraph.NewTable()
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = register.DefaultClipboard()
	}

	trie := vim.NewTrie()
	if err := action.Register(trie); err != nil {
		// The built-in bindings are static; a conflict is a programming
		// error.
		panic(err)
	}

	marks := mark.NewGroup()
	e := &Engine{
		options:     opts,
		trie:        trie,
		maps:        keymap.NewRegistry(),
		regs:        register.NewGroup(marks, cfg.Clipboard),
		marks:       marks,
		digraphs:    cfg.Digraphs,
		commands:    ex.Default(),
		history:     ex.NewHistory(cfg.HistorySize),
		script:      cfg.Script,
		sched:       cfg.Scheduler,
		actions:     make(map[string]keymap.HandlerFunc),
		editors:     make(map[uuid.UUID]*Handler),
		scriptQueue: make(map[uuid.UUID][]scriptOp),
		scriptOwner: keymap.NewOwner("script"),
		metrics:     NewMetrics(),
		hooks:       NewHookManager(),
	}
	e.regs.SetClipboardOption(opts.Clipboard)
	if err := keymap.Load(e.maps, keymap.Config, opts.Mappings); err != nil {
		logger.Warn("config mappings", "error", err)
	}
	e.def = newHandler(e, uuid.Nil, buffer.NewMemory("", ""))
	return e
}

// NewEditor creates a handler for buf under a fresh id.
func (e *Engine) NewEditor(buf buffer.Adapter) *Handler {
	h := newHandler(e, uuid.New(), buf)
	e.mu.Lock()
	e.editors[h.id] = h
	e.mu.Unlock()
	logger.Debug("editor created", "id", h.id, "path", buf.Path())
	return h
}

// Editor returns the handler registered under id, creating one for buf
// when there is none.
func (e *Engine) Editor(id uuid.UUID, buf buffer.Adapter) *Handler {
	e.mu.Lock()
	defer e.mu.Unlock()
	if h, ok := e.editors[id]; ok {
		return h
	}
	h := newHandler(e, id, buf)
	e.editors[id] = h
	return h
}

// Lookup returns the handler registered under id.
func (e *Engine) Lookup(id uuid.UUID) (*Handler, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	h, ok := e.editors[id]
	return h, ok
}

// Default returns the handler used when no editor is focused. It works on
// an empty scratch buffer.
func (e *Engine) Default() *Handler {
	return e.def
}

// Editors returns the ids of all open editors.
func (e *Engine) Editors() []uuid.UUID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(e.editors))
	for id := range e.editors {
		ids = append(ids, id)
	}
	return ids
}

// Close drops the handler for id, cancelling its pending timer.
func (e *Engine) Close(id uuid.UUID) {
	e.mu.Lock()
	h, ok := e.editors[id]
	delete(e.editors, id)
	e.mu.Unlock()
	if !ok {
		return
	}
	e.active.CompareAndSwap(h, nil)
	e.scriptMu.Lock()
	delete(e.scriptQueue, id)
	e.scriptMu.Unlock()
	h.Close()
}

// Registers returns the register group.
func (e *Engine) Registers() *register.Group { return e.regs }

// Marks returns the mark group.
func (e *Engine) Marks() *mark.Group { return e.marks }

// Mappings returns the mapping registry.
func (e *Engine) Mappings() *keymap.Registry { return e.maps }

// Commands returns the ex command table.
func (e *Engine) Commands() *ex.Table { return e.commands }

// History returns the ex command history.
func (e *Engine) History() *ex.History { return e.history }

// Digraphs returns the digraph table.
func (e *Engine) Digraphs() *digraph.Table { return e.digraphs }

// Metrics returns the key processing metrics.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Hooks returns the pre-key hooks.
func (e *Engine) Hooks() *HookManager { return e.hooks }

// SetScript sets the interpreter used for <expr> mappings and :lua.
func (e *Engine) SetScript(s Script) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script = s
}

func (e *Engine) getScript() Script {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.script
}

// PutMapping maps from to info in modes.
func (e *Engine) PutMapping(modes mode.MappingModeSet, from []key.Event, owner keymap.Owner, info keymap.Info, recursive bool) error {
	return e.maps.Put(modes, from, owner, info, recursive)
}

// PutKeyMapping maps lhs to rhs, both in key notation. modes is a string
// of mode letters as for the mappings option, like "nv".
func (e *Engine) PutKeyMapping(modes, lhs, rhs string, owner keymap.Owner, recursive bool) error {
	set, err := keymap.ParseModes(modes)
	if err != nil {
		return err
	}
	from, err := key.ParseSequence(lhs)
	if err != nil {
		return err
	}
	info, err := keymap.ParseInfo(rhs, false)
	if err != nil {
		return err
	}
	return e.maps.Put(set, from, owner, info, recursive)
}

// RemoveMappings removes every mapping of owner and returns how many were
// removed.
func (e *Engine) RemoveMappings(owner keymap.Owner) int {
	return e.maps.RemoveByOwner(owner)
}

// RegisterAction makes fn available to <Action>(name) mappings.
func (e *Engine) RegisterAction(name string, fn keymap.HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.actions[name] = fn
}

func (e *Engine) action(name string) (keymap.HandlerFunc, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.actions[name]
	return fn, ok
}

// RecordRepeat makes the next '.' in the focused editor call fn instead
// of repeating the last change. It is meant to be called from a mapping
// handler. A later change clears it.
func (e *Engine) RecordRepeat(fn keymap.HandlerFunc) {
	h := e.active.Load()
	if h == nil {
		h = e.def
	}
	h.repeatMu.Lock()
	h.repeatFn = fn
	h.repeatMu.Unlock()
}

// ExecuteEx runs an ex command line in the default editor.
func (e *Engine) ExecuteEx(line string) error {
	return e.def.Execute(line)
}

// Options returns a copy of the current options.
func (e *Engine) Options() config.Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.options.Clone()
}

// Option returns the value of name as text.
func (e *Engine) Option(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.options.Get(name)
}

// SetOption sets one option from text.
func (e *Engine) SetOption(name, value string) error {
	e.mu.Lock()
	err := e.options.Set(name, value)
	cb := e.options.Clipboard
	e.mu.Unlock()
	if err != nil {
		return err
	}
	e.regs.SetClipboardOption(cb)
	return nil
}

// ApplyOptions replaces the options, as after a config reload. The
// mappings of the previous options are replaced by the new ones.
func (e *Engine) ApplyOptions(opts config.Options) {
	if opts.MaxMapDepth <= 0 {
		opts.MaxMapDepth = config.DefaultOptions().MaxMapDepth
	}
	e.mu.Lock()
	e.options = opts.Clone()
	e.mu.Unlock()

	e.regs.SetClipboardOption(opts.Clipboard)
	removed := e.maps.RemoveByOwner(keymap.Config)
	if err := keymap.Load(e.maps, keymap.Config, opts.Mappings); err != nil {
		logger.Warn("config mappings", "error", err)
	}
	logger.Info("options applied", "mappings", len(opts.Mappings), "replaced", removed)
}

// settings returns the options without their mappings. Handlers take one
// snapshot per key.
func (e *Engine) settings() config.Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o := e.options
	o.Mappings = nil
	return o
}

func (e *Engine) focus(h *Handler) {
	e.active.Store(h)
}
