package vim

import (
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// State is the outcome of the keys given to a Builder so far.
type State uint8

const (
	// StateNew means more keys are needed.
	StateNew State = iota

	// StateReady means Build returns a complete command.
	StateReady

	// StateBad means the keys do not form a command.
	StateBad
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateBad:
		return "bad"
	default:
		return "unknown"
	}
}

// Names of handlers the builder treats specially.
const (
	InsertDigraphName = "insert-digraph"
	InsertLiteralName = "insert-literal"
)

// Builder accumulates the keys of one command.
//
// The command is kept as a list of parts: an optional register selection,
// an operator or command, and the motion argument of an operator. Each part
// carries the count typed before it.
type Builder struct {
	trie *Trie
	node *Node

	parts    []*Command
	keys     []key.Event
	count    int
	state    State
	expected ArgumentType
	previous ArgumentType
}

// NewBuilder returns a builder walking t.
func NewBuilder(t *Trie) *Builder {
	b := &Builder{trie: t}
	b.Reset(mode.MapNormal)
	return b
}

// Trie returns the trie the builder walks.
func (b *Builder) Trie() *Trie {
	return b.trie
}

// Reset discards everything and restarts at the root for m.
func (b *Builder) Reset(m mode.MappingMode) {
	b.ResetInProgress(m)
	b.state = StateNew
	b.parts = b.parts[:0]
	b.keys = b.keys[:0]
	b.expected = ArgNone
	b.previous = ArgNone
}

// ResetInProgress restarts the current part at the root for m, keeping
// the parts already pushed.
func (b *Builder) ResetInProgress(m mode.MappingMode) {
	b.count = 0
	b.node = b.trie.Root(m)
}

// State returns the builder state.
func (b *Builder) State() State {
	return b.state
}

// SetState overrides the builder state.
func (b *Builder) SetState(s State) {
	b.state = s
}

// IsReady reports whether a command is complete.
func (b *Builder) IsReady() bool {
	return b.state == StateReady
}

// IsBad reports whether the keys failed to form a command.
func (b *Builder) IsBad() bool {
	return b.state == StateBad
}

// IsEmpty reports whether no part has been pushed.
func (b *Builder) IsEmpty() bool {
	return len(b.parts) == 0
}

// IsAtDefaultState reports whether nothing at all has been typed.
func (b *Builder) IsAtDefaultState() bool {
	return b.IsEmpty() && b.count == 0 && b.expected == ArgNone
}

// IsExpectingCount reports whether a digit would be part of a count.
func (b *Builder) IsExpectingCount() bool {
	return b.state == StateNew && b.expected != ArgCharacter && b.expected != ArgDigraph
}

// Count returns the count typed for the current part.
func (b *Builder) Count() int {
	return b.count
}

// Keys returns the keys typed for the command, for showcmd.
func (b *Builder) Keys() []key.Event {
	return key.Clone(b.keys)
}

// Expected returns the argument the last pushed part wants.
func (b *Builder) Expected() ArgumentType {
	return b.expected
}

// AddKey records e as part of the command.
func (b *Builder) AddKey(e key.Event) {
	b.keys = append(b.keys, e)
}

// AddCountDigit adds the digit e types to the count.
func (b *Builder) AddCountDigit(e key.Event) {
	b.count = appendDigit(b.count, e.Rune)
	b.AddKey(e)
}

// DeleteCountDigit removes the last count digit.
func (b *Builder) DeleteCountDigit() {
	b.count = dropDigit(b.count)
	if len(b.keys) > 0 {
		b.keys = b.keys[:len(b.keys)-1]
	}
}

// Child returns the trie node e leads to from the current node.
func (b *Builder) Child(e key.Event) *Node {
	return b.node.Child(e)
}

// SetNode moves to a prefix node.
func (b *Builder) SetNode(n *Node) {
	b.node = n
}

// IsBuildingMultiKeyCommand reports whether a prefix such as g or [ has
// been typed.
func (b *Builder) IsBuildingMultiKeyCommand() bool {
	return !b.node.IsRoot()
}

// PushCommand appends a part for h, consuming the current count.
func (b *Builder) PushCommand(h *Handler) {
	b.parts = append(b.parts, newCommand(b.count, h))
	b.expected = h.Argument
	b.count = 0
}

// PushRegister appends a register selection. It is never executed but
// keeps counts on both sides of "x: 2"a3dw deletes six words.
func (b *Builder) PushRegister(r rune) {
	b.parts = append(b.parts, &Command{RawCount: b.count, Type: TypeSelectRegister, Register: r})
	b.expected = ArgNone
	b.count = 0
}

// PopCommand removes and returns the last part.
func (b *Builder) PopCommand() *Command {
	if len(b.parts) == 0 {
		return nil
	}
	last := b.parts[len(b.parts)-1]
	b.parts = b.parts[:len(b.parts)-1]
	b.expected = ArgNone
	if n := len(b.parts); n > 0 && b.parts[n-1].Handler != nil {
		b.expected = b.parts[n-1].Handler.Argument
	}
	return last
}

// Last returns the last pushed part, or nil.
func (b *Builder) Last() *Command {
	if len(b.parts) == 0 {
		return nil
	}
	return b.parts[len(b.parts)-1]
}

// FallbackToCharacterArgument turns a digraph argument into a plain
// character argument.
func (b *Builder) FallbackToCharacterArgument() {
	b.previous = b.expected
	b.expected = ArgCharacter
}

// CompleteCommandPart sets the argument of the last part and marks the
// command ready.
func (b *Builder) CompleteCommandPart(arg *Argument) {
	if last := b.Last(); last != nil {
		last.Argument = arg
	}
	b.state = StateReady
}

// IsAwaitingCharOrDigraphArgument reports whether the last part wants a
// character.
func (b *Builder) IsAwaitingCharOrDigraphArgument() bool {
	return b.state == StateNew && (b.expected == ArgCharacter || b.expected == ArgDigraph)
}

// SetExpected overrides the argument the last part wants.
func (b *Builder) SetExpected(a ArgumentType) {
	b.expected = a
}

// IsPuttingLiteral reports whether <C-v> entry is in progress in insert or
// command-line mode.
func (b *Builder) IsPuttingLiteral() bool {
	return b.Last().Name() == InsertLiteralName
}

// IsDuplicateOperator reports whether e repeats the pending operator, as
// the second d of dd does.
func (b *Builder) IsDuplicateOperator(e key.Event) bool {
	last := b.Last()
	if last == nil || last.Handler == nil || last.Handler.DuplicateWith == 0 {
		return false
	}
	return e.IsRune() && e.Rune == last.Handler.DuplicateWith
}

// Build folds the parts into one command. Counts multiply; a register
// selection moves onto the command after it; a motion becomes the argument
// of the operator before it.
func (b *Builder) Build() *Command {
	if len(b.parts) == 0 {
		return nil
	}
	cmd := b.parts[0]
	for _, next := range b.parts[1:] {
		next.RawCount = CombineCounts(cmd.RawCount, next.RawCount)
		cmd.RawCount = 0
		if cmd.Type == TypeSelectRegister {
			next.Register = cmd.Register
			cmd = next
			continue
		}
		cmd.Argument = MotionArgument(next)
	}
	b.parts = b.parts[:0]
	b.expected = ArgNone
	return cmd
}
