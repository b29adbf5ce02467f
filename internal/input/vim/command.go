package vim

import (
	"fmt"
	"strings"

	"github.com/dshills/modal/internal/input/register"
)

// Type classifies what a command does to the buffer.
type Type uint8

const (
	// TypeMotion moves the caret.
	TypeMotion Type = iota

	// TypeInsert enters text.
	TypeInsert

	// TypeDelete removes text.
	TypeDelete

	// TypeChange removes text and starts insert mode.
	TypeChange

	// TypeCopy copies text into a register.
	TypeCopy

	// TypePaste puts register text into the buffer.
	TypePaste

	// TypeSelectRegister is the "x prefix of a command.
	TypeSelectRegister

	// TypeOtherReadonly does not modify the buffer.
	TypeOtherReadonly

	// TypeOtherWritable may modify the buffer.
	TypeOtherWritable

	// TypeOtherSelfSynchronized manages its own buffer access.
	TypeOtherSelfSynchronized
)

// String returns a string representation of the type.
func (t Type) String() string {
	switch t {
	case TypeMotion:
		return "motion"
	case TypeInsert:
		return "insert"
	case TypeDelete:
		return "delete"
	case TypeChange:
		return "change"
	case TypeCopy:
		return "copy"
	case TypePaste:
		return "paste"
	case TypeSelectRegister:
		return "select-register"
	case TypeOtherReadonly:
		return "other-readonly"
	case TypeOtherWritable:
		return "other-writable"
	case TypeOtherSelfSynchronized:
		return "other-self-synchronized"
	default:
		return "unknown"
	}
}

// IsRead reports whether commands of this type only read the buffer.
func (t Type) IsRead() bool {
	return t == TypeMotion || t == TypeCopy || t == TypeOtherReadonly
}

// IsWrite reports whether commands of this type need a writable buffer.
func (t Type) IsWrite() bool {
	switch t {
	case TypeInsert, TypeDelete, TypeChange, TypePaste, TypeOtherWritable:
		return true
	}
	return false
}

// Flags modify how a command is built and executed.
type Flags uint32

const (
	// FlagMotionLinewise makes a motion select whole lines.
	FlagMotionLinewise Flags = 1 << iota

	// FlagMotionInclusive includes the character under the motion target.
	FlagMotionInclusive

	// FlagSaveJump records the caret in the jump list before moving.
	FlagSaveJump

	// FlagExpectMore keeps a single-command excursion (<C-o> from insert)
	// alive after the command.
	FlagExpectMore

	// FlagCompleteEx ends an ex string argument.
	FlagCompleteEx

	// FlagExitVisual leaves visual mode after the command.
	FlagExitVisual

	// FlagNoRepeat keeps a change out of dot-repeat.
	FlagNoRepeat

	// FlagKeepRegister keeps the selected register for the next command.
	FlagKeepRegister
)

// Has reports whether all of other are set.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// ArgumentType is the kind of argument a handler wants.
type ArgumentType uint8

const (
	// ArgNone means the command is complete once its keys are typed.
	ArgNone ArgumentType = iota

	// ArgMotion wants a motion or text-object command.
	ArgMotion

	// ArgCharacter wants one character.
	ArgCharacter

	// ArgDigraph wants a character that may be entered as a digraph or a
	// literal.
	ArgDigraph

	// ArgExString wants a line of text ended by <CR>.
	ArgExString

	// ArgOffsets carries a range captured by an extension handler.
	ArgOffsets
)

// String returns a string representation of the argument type.
func (a ArgumentType) String() string {
	switch a {
	case ArgNone:
		return "none"
	case ArgMotion:
		return "motion"
	case ArgCharacter:
		return "character"
	case ArgDigraph:
		return "digraph"
	case ArgExString:
		return "ex-string"
	case ArgOffsets:
		return "offsets"
	default:
		return "unknown"
	}
}

// Range is a half-open span of the buffer with its selection shape.
type Range struct {
	Start int
	End   int
	Type  register.SelectionType
}

// Len returns the number of bytes covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Argument is the tagged union of command arguments. Only the field
// matching Type is meaningful.
type Argument struct {
	Type    ArgumentType
	Motion  *Command
	Char    rune
	Text    string
	Offsets Range
}

// MotionArgument wraps a motion or text-object command.
func MotionArgument(cmd *Command) *Argument {
	return &Argument{Type: ArgMotion, Motion: cmd}
}

// CharArgument wraps a typed character.
func CharArgument(r rune) *Argument {
	return &Argument{Type: ArgCharacter, Char: r}
}

// ExStringArgument wraps a completed command line.
func ExStringArgument(text string) *Argument {
	return &Argument{Type: ArgExString, Text: text}
}

// OffsetsArgument wraps a range captured by an extension handler.
func OffsetsArgument(r Range) *Argument {
	return &Argument{Type: ArgOffsets, Offsets: r}
}

func (a *Argument) clone() *Argument {
	if a == nil {
		return nil
	}
	c := *a
	c.Motion = a.Motion.Clone()
	return &c
}

func (a *Argument) String() string {
	switch a.Type {
	case ArgMotion:
		return a.Motion.String()
	case ArgCharacter, ArgDigraph:
		return string(a.Char)
	case ArgExString:
		return a.Text
	case ArgOffsets:
		return fmt.Sprintf("%d-%d", a.Offsets.Start, a.Offsets.End)
	}
	return ""
}

// Command is a fully or partly built command.
type Command struct {
	// RawCount is the typed count, 0 when none was typed.
	RawCount int

	// Handler performs the command. It is nil for register selections.
	Handler *Handler

	// Type and Flags start as the handler's and may be adjusted while
	// building.
	Type  Type
	Flags Flags

	// Argument is set for handlers that want one.
	Argument *Argument

	// Register is the register typed with "x, or 0.
	Register rune
}

func newCommand(count int, h *Handler) *Command {
	return &Command{
		RawCount: count,
		Handler:  h,
		Type:     h.Type,
		Flags:    h.Flags,
	}
}

// Count returns the count, treating an absent count as 1.
func (c *Command) Count() int {
	if c.RawCount <= 0 {
		return 1
	}
	return c.RawCount
}

// Name returns the handler name, or "" for a register selection.
func (c *Command) Name() string {
	if c == nil || c.Handler == nil {
		return ""
	}
	return c.Handler.Name
}

// Clone returns a deep copy of c.
func (c *Command) Clone() *Command {
	if c == nil {
		return nil
	}
	out := *c
	out.Argument = c.Argument.clone()
	return &out
}

// String renders the command for logs.
func (c *Command) String() string {
	if c == nil {
		return "<nil>"
	}
	var sb strings.Builder
	if c.RawCount > 0 {
		fmt.Fprintf(&sb, "%d", c.RawCount)
	}
	if c.Register != 0 {
		sb.WriteByte('"')
		sb.WriteRune(c.Register)
	}
	if c.Handler != nil {
		sb.WriteString(c.Handler.Name)
	}
	if c.Argument != nil {
		sb.WriteByte('(')
		sb.WriteString(c.Argument.String())
		sb.WriteByte(')')
	}
	return sb.String()
}
