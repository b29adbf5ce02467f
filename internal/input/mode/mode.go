package mode

import "fmt"

// Mode is the active editing discipline.
type Mode uint8

const (
	Command Mode = iota
	Visual
	Select
	Insert
	Replace
	CmdLine
	OpPending

	// InsertNormal is a single Normal command typed from Insert with <C-o>.
	InsertNormal
	// InsertVisual is a Visual selection started from InsertNormal.
	InsertVisual
	// InsertSelect is a Select selection started from Insert.
	InsertSelect
)

var modeNames = [...]string{
	Command:      "COMMAND",
	Visual:       "VISUAL",
	Select:       "SELECT",
	Insert:       "INSERT",
	Replace:      "REPLACE",
	CmdLine:      "CMD_LINE",
	OpPending:    "OP_PENDING",
	InsertNormal: "INSERT_NORMAL",
	InsertVisual: "INSERT_VISUAL",
	InsertSelect: "INSERT_SELECT",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// InNormal reports whether m interprets keys as Normal commands.
func (m Mode) InNormal() bool { return m == Command || m == InsertNormal }

// InVisual reports whether m has a Visual selection.
func (m Mode) InVisual() bool { return m == Visual || m == InsertVisual }

// InSelect reports whether m has a Select selection.
func (m Mode) InSelect() bool { return m == Select || m == InsertSelect }

// InInsert reports whether typed characters go into the buffer.
func (m Mode) InInsert() bool { return m == Insert || m == Replace }

// IsSingleCommand reports whether m is an excursion from Insert that ends
// after one command.
func (m Mode) IsSingleCommand() bool {
	return m == InsertNormal || m == InsertVisual || m == InsertSelect
}

// SubMode qualifies Visual and Select modes.
type SubMode uint8

const (
	SubNone SubMode = iota
	CharacterWise
	LineWise
	BlockWise
)

func (s SubMode) String() string {
	switch s {
	case SubNone:
		return "NONE"
	case CharacterWise:
		return "VISUAL_CHARACTER"
	case LineWise:
		return "VISUAL_LINE"
	case BlockWise:
		return "VISUAL_BLOCK"
	}
	return fmt.Sprintf("SubMode(%d)", s)
}

// State is one entry of the mode stack.
type State struct {
	Mode    Mode
	SubMode SubMode
}

// Default is the bottom of every mode stack.
var Default = State{Mode: Command, SubMode: SubNone}

func (s State) String() string {
	return s.Mode.String() + ":" + s.SubMode.String()
}

// MappingMode selects the key trie and mapping table for the next key.
type MappingMode uint8

const (
	MapNormal MappingMode = iota
	MapVisual
	MapSelect
	MapOpPending
	MapInsert
	MapCmdLine
)

var mappingModeNames = [...]string{
	MapNormal:    "NORMAL",
	MapVisual:    "VISUAL",
	MapSelect:    "SELECT",
	MapOpPending: "OP_PENDING",
	MapInsert:    "INSERT",
	MapCmdLine:   "CMD_LINE",
}

func (m MappingMode) String() string {
	if int(m) < len(mappingModeNames) {
		return mappingModeNames[m]
	}
	return fmt.Sprintf("MappingMode(%d)", m)
}

// MappingModeFor derives the mapping mode from a mode.
func MappingModeFor(m Mode) MappingMode {
	switch m {
	case Command, InsertNormal:
		return MapNormal
	case Insert, Replace:
		return MapInsert
	case Visual, InsertVisual:
		return MapVisual
	case Select, InsertSelect:
		return MapSelect
	case CmdLine:
		return MapCmdLine
	case OpPending:
		return MapOpPending
	}
	return MapNormal
}

// MappingModeSet is a set of mapping modes, as taken by :map variants.
type MappingModeSet uint8

// Common mapping mode sets, named after the commands that use them.
const (
	NVO MappingModeSet = 1<<MapNormal | 1<<MapVisual | 1<<MapSelect | 1<<MapOpPending
	N   MappingModeSet = 1 << MapNormal
	X   MappingModeSet = 1 << MapVisual
	S   MappingModeSet = 1 << MapSelect
	V   MappingModeSet = X | S
	O   MappingModeSet = 1 << MapOpPending
	I   MappingModeSet = 1 << MapInsert
	C   MappingModeSet = 1 << MapCmdLine
	IC  MappingModeSet = I | C
	All MappingModeSet = NVO | IC
)

// SetOf returns the set holding modes.
func SetOf(modes ...MappingMode) MappingModeSet {
	var s MappingModeSet
	for _, m := range modes {
		s |= 1 << m
	}
	return s
}

// Has reports whether m is in the set.
func (s MappingModeSet) Has(m MappingMode) bool {
	return s&(1<<m) != 0
}

// Modes lists the members of the set in declaration order.
func (s MappingModeSet) Modes() []MappingMode {
	var out []MappingMode
	for m := MapNormal; m <= MapCmdLine; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}
