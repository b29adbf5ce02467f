package action

import (
	"fmt"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/vim"
)

// Handler names other packages refer to.
const (
	NameDelete        = "delete"
	NameChange        = "change"
	NameYank          = "yank"
	NamePutAfter      = "put-after"
	NamePutBefore     = "put-before"
	NameRepeatChange  = "repeat-change"
	NameRecord        = "toggle-recording"
	NamePlayRegister  = "play-register"
	NameExCommand     = "ex-command"
	NameCmdLineEnter  = "cmdline-enter"
	NameInsertExit    = "insert-exit"
	NameInsertDigraph = "insert-digraph"
	NameInsertLiteral = "insert-literal"
	NameSearchForward = "search-forward"
	NameSearchBack    = "search-backward"
	NameCurrentLine   = "current-line"
)

// Binding places a handler under keys in modes.
type Binding struct {
	Modes   mode.MappingModeSet
	Keys    string
	Handler *vim.Handler
}

// Builtins returns every built-in binding.
func Builtins() []Binding {
	var out []Binding
	out = append(out, motionBindings()...)
	out = append(out, textObjectBindings()...)
	out = append(out, operatorBindings()...)
	out = append(out, changeBindings()...)
	out = append(out, visualBindings()...)
	out = append(out, insertBindings()...)
	out = append(out, cmdLineBindings()...)
	return out
}

// Register adds the built-in bindings to t.
func Register(t *vim.Trie) error {
	for _, b := range Builtins() {
		keys, err := key.ParseSequence(b.Keys)
		if err != nil {
			return fmt.Errorf("builtin %s: %w", b.Handler.Name, err)
		}
		if err := t.Add(b.Modes, keys, b.Handler); err != nil {
			return err
		}
	}
	return nil
}

// bind is shorthand for a list of bindings sharing one handler.
func bind(modes mode.MappingModeSet, h *vim.Handler, keys ...string) []Binding {
	out := make([]Binding, 0, len(keys))
	for _, k := range keys {
		out = append(out, Binding{Modes: modes, Keys: k, Handler: h})
	}
	return out
}
