package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// Kind selects what a mapping does when its keys are typed.
type Kind uint8

const (
	// KindKeys replays a key sequence.
	KindKeys Kind = iota

	// KindExpression evaluates a script expression and replays the
	// result as keys.
	KindExpression

	// KindHandler calls an extension function.
	KindHandler

	// KindAction runs a named host action.
	KindAction
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindKeys:
		return "keys"
	case KindExpression:
		return "expression"
	case KindHandler:
		return "handler"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// HandlerFunc is an extension callback bound with ToHandler.
type HandlerFunc func(ctx *HandlerContext) error

// HandlerContext is passed to a HandlerFunc.
type HandlerContext struct {
	// Buffer is the buffer of the editor the keys were typed in.
	Buffer buffer.Adapter

	// Count is the count typed before the mapping, or 0.
	Count int

	// OperatorPending is true when the mapping was typed after an
	// operator, as in d<mapped>.
	OperatorPending bool

	// Keys are the keys that triggered the mapping.
	Keys []key.Event

	done func()
}

// NewHandlerContext returns a context whose Done calls done once.
func NewHandlerContext(buf buffer.Adapter, count int, opPending bool, keys []key.Event, done func()) *HandlerContext {
	return &HandlerContext{
		Buffer:          buf,
		Count:           count,
		OperatorPending: opPending,
		Keys:            keys,
		done:            done,
	}
}

// Done reports that an asynchronous handler has finished. Calls after the
// first are ignored.
func (c *HandlerContext) Done() {
	if c.done == nil {
		return
	}
	done := c.done
	c.done = nil
	done()
}

// Info is the right hand side of a mapping. Exactly the fields for Kind
// are set.
type Info struct {
	Kind Kind

	// Keys is set for KindKeys.
	Keys []key.Event

	// Expr is set for KindExpression.
	Expr string

	// Handler is set for KindHandler. Async handlers call Done on their
	// context when finished; no new key sequence starts before that.
	Handler HandlerFunc
	Async   bool

	// Action is set for KindAction.
	Action string
}

// ToKeys returns a mapping that replays keys.
func ToKeys(keys []key.Event) Info {
	return Info{Kind: KindKeys, Keys: key.Clone(keys)}
}

// ToExpression returns a mapping that replays the value of expr.
func ToExpression(expr string) Info {
	return Info{Kind: KindExpression, Expr: expr}
}

// ToHandler returns a mapping that calls fn and completes when it
// returns.
func ToHandler(fn HandlerFunc) Info {
	return Info{Kind: KindHandler, Handler: fn}
}

// ToAsyncHandler returns a mapping that calls fn and completes when fn
// calls Done on its context.
func ToAsyncHandler(fn HandlerFunc) Info {
	return Info{Kind: KindHandler, Handler: fn, Async: true}
}

// ToAction returns a mapping that runs the host action name.
func ToAction(name string) Info {
	return Info{Kind: KindAction, Action: name}
}

// String renders the right hand side the way :map lists it.
func (i Info) String() string {
	switch i.Kind {
	case KindKeys:
		return key.Format(i.Keys)
	case KindExpression:
		return i.Expr
	case KindHandler:
		return "<handler>"
	case KindAction:
		return actionPrefix + i.Action + ")"
	}
	return ""
}

// Mapping is one entry of a Registry.
type Mapping struct {
	Mode      mode.MappingMode
	From      []key.Event
	Info      Info
	Recursive bool
	Owner     Owner
}

// FromIsPrefix reports whether the replacement keys start with the mapped
// keys, as in :map x xy. Replaying the first key of such a mapping does
// not trigger it again.
func (m *Mapping) FromIsPrefix() bool {
	return m.Info.Kind == KindKeys && key.HasPrefix(m.Info.Keys, m.From)
}

// String renders the mapping as one :map listing line.
func (m *Mapping) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-3s%-12s", modeLetter(m.Mode), key.Format(m.From))
	if !m.Recursive {
		sb.WriteByte('*')
	} else {
		sb.WriteByte(' ')
	}
	sb.WriteByte(' ')
	sb.WriteString(m.Info.String())
	return sb.String()
}

func modeLetter(m mode.MappingMode) string {
	switch m {
	case mode.MapNormal:
		return "n"
	case mode.MapVisual:
		return "x"
	case mode.MapSelect:
		return "s"
	case mode.MapOpPending:
		return "o"
	case mode.MapInsert:
		return "i"
	case mode.MapCmdLine:
		return "c"
	}
	return " "
}
