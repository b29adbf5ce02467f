package vim

import (
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
)

// HandlerKind selects which function of a Handler runs the command.
type HandlerKind uint8

const (
	// KindMotion computes a new caret offset.
	KindMotion HandlerKind = iota

	// KindTextObject computes a range around the caret.
	KindTextObject

	// KindChange performs the command directly.
	KindChange

	// KindOperator acts on the range of its motion argument.
	KindOperator
)

// String returns a string representation of the kind.
func (k HandlerKind) String() string {
	switch k {
	case KindMotion:
		return "motion"
	case KindTextObject:
		return "text-object"
	case KindChange:
		return "change"
	case KindOperator:
		return "operator"
	default:
		return "unknown"
	}
}

// MotionFunc returns the offset the caret moves to.
type MotionFunc func(ctx *Context, cmd *Command) (int, bool)

// TextObjectFunc returns the range a text object covers.
type TextObjectFunc func(ctx *Context, count int) (Range, bool)

// ChangeFunc performs a command and reports success.
type ChangeFunc func(ctx *Context, cmd *Command) bool

// OperatorFunc applies an operator to r.
type OperatorFunc func(ctx *Context, cmd *Command, r Range) bool

// Handler describes a command bound in the key trie.
type Handler struct {
	// Name identifies the handler in logs, dot-repeat and register routing.
	Name string

	// Kind selects which of the functions below is called.
	Kind HandlerKind

	// Type and Flags are copied onto every command built from the handler.
	Type  Type
	Flags Flags

	// Argument is the argument the handler wants after its keys.
	Argument ArgumentType

	// DynamicArgument, when set, replaces Argument with a value that
	// depends on editor state, as q wants a register only when not
	// recording.
	DynamicArgument func(ctx *Context) ArgumentType

	// DuplicateWith is the key that, typed again, applies an operator to
	// whole lines (d for dd).
	DuplicateWith rune

	Motion     MotionFunc
	TextObject TextObjectFunc
	Change     ChangeFunc
	Operator   OperatorFunc
}

// ArgumentFor returns the argument h wants in ctx.
func (h *Handler) ArgumentFor(ctx *Context) ArgumentType {
	if h.DynamicArgument != nil {
		return h.DynamicArgument(ctx)
	}
	return h.Argument
}

// Editor is the part of the engine that handlers call back into.
type Editor interface {
	// ExecuteEx runs an ex command line without the leading ':'.
	ExecuteEx(text string) error

	// BeginInsert starts an insert session for cmd; EndInsert closes it.
	BeginInsert(cmd *Command)
	EndInsert()

	// InsertText types text at the caret as part of the insert session.
	InsertText(text string)

	// RepeatLastChange runs the dot-repeat command; count 0 keeps its count.
	RepeatLastChange(count int) error

	// PlayRegister feeds the keys stored in r count times.
	PlayRegister(r rune, count int) error

	// Message shows text on the status line.
	Message(msg string)
}

// SearchState holds the last search and the last f/t/F/T command.
type SearchState struct {
	Pattern  string
	Backward bool

	FindChar rune
	FindName string
}

// VisualState is the fixed end of the visual selection.
type VisualState struct {
	Anchor int
}

// Context is everything a handler may touch.
type Context struct {
	Buffer    buffer.Adapter
	Modes     *mode.Machine
	Registers *register.Group
	Marks     *mark.Group
	Editor    Editor
	Search    *SearchState
	Visual    *VisualState

	// Operator is the command whose motion argument is being evaluated,
	// nil otherwise.
	Operator *Command
}
