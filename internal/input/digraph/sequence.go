package digraph

import (
	"sort"
	"strconv"
	"unicode"

	"github.com/dshills/modal/internal/input/key"
)

// Kind classifies the outcome of feeding a key to a Sequence.
type Kind int

const (
	// Unhandled means the key is not part of a digraph and should be
	// processed normally.
	Unhandled Kind = iota
	// Handled means the key was consumed and more keys are needed.
	Handled
	// Done means a character was produced.
	Done
	// Bad means the sequence was cancelled.
	Bad
)

func (k Kind) String() string {
	switch k {
	case Handled:
		return "handled"
	case Done:
		return "done"
	case Bad:
		return "bad"
	default:
		return "unhandled"
	}
}

// Result is returned by Sequence.Process.
type Result struct {
	Kind Kind
	// Char is the produced character when Kind is Done.
	Char rune
	// Replay is set when the key that ended a numeric code must be handled
	// again after Char.
	Replay bool
}

type state int

const (
	statePending state = iota
	stateBackspace
	stateFirst
	stateSecond
	stateCodeStart
	stateCodeChar
)

// Sequence is the digraph sub-machine of one editor.
type Sequence struct {
	table     *Table
	backspace bool

	state state
	first rune
	code  []rune
	base  int
	max   int
}

// NewSequence returns an idle sequence reading digraphs from t.
func NewSequence(t *Table) *Sequence {
	return &Sequence{table: t}
}

// SetBackspaceDigraphs enables {a}<BS>{b} entry.
func (s *Sequence) SetBackspaceDigraphs(on bool) {
	s.backspace = on
}

// IsDigraphStart reports whether e begins a <C-k> digraph.
func (s *Sequence) IsDigraphStart(e key.Event) bool {
	return s.state == statePending && e == key.Ctrl('k')
}

// IsLiteralStart reports whether e begins literal entry.
func (s *Sequence) IsLiteralStart(e key.Event) bool {
	return s.state == statePending && (e == key.Ctrl('v') || e == key.Ctrl('q'))
}

// StartDigraph expects the two digraph keys next.
func (s *Sequence) StartDigraph() {
	s.state = stateFirst
}

// StartLiteral expects a literal key or a numeric code next.
func (s *Sequence) StartLiteral() {
	s.state = stateCodeStart
	s.code = s.code[:0]
}

// Active reports whether the sequence is in the middle of an entry.
func (s *Sequence) Active() bool {
	return s.state != statePending
}

// IsPuttingLiteral reports whether a <C-v> entry is in progress.
func (s *Sequence) IsPuttingLiteral() bool {
	return s.state == stateCodeStart || s.state == stateCodeChar
}

// Reset abandons any entry in progress.
func (s *Sequence) Reset() {
	s.state = statePending
	s.first = 0
	s.code = s.code[:0]
}

// Process feeds e to the sequence.
func (s *Sequence) Process(e key.Event) Result {
	switch s.state {
	case statePending:
		if s.backspace && e == key.Backspace && s.first != 0 {
			s.state = stateBackspace
		} else if e.IsRune() {
			s.first = e.Rune
		}
		return Result{Kind: Unhandled}

	case stateBackspace:
		s.state = statePending
		if e.IsRune() {
			ch := s.table.Get(s.first, e.Rune)
			s.first = 0
			return Result{Kind: Done, Char: ch}
		}
		return Result{Kind: Unhandled}

	case stateFirst:
		if ch := e.Char(); ch != 0 && !e.IsClose() {
			s.first = ch
			s.state = stateSecond
			return Result{Kind: Handled}
		}
		s.Reset()
		return Result{Kind: Bad}

	case stateSecond:
		s.state = statePending
		if ch := e.Char(); ch != 0 && !e.IsClose() {
			out := s.table.Get(s.first, ch)
			s.first = 0
			return Result{Kind: Done, Char: out}
		}
		s.first = 0
		return Result{Kind: Bad}

	case stateCodeStart:
		return s.codeStart(e)

	case stateCodeChar:
		return s.codeChar(e)
	}
	return Result{Kind: Unhandled}
}

func (s *Sequence) codeStart(e key.Event) Result {
	if e.IsRune() {
		switch e.Rune {
		case 'o', 'O':
			return s.beginCode(8, 3)
		case 'x', 'X':
			return s.beginCode(16, 2)
		case 'u':
			return s.beginCode(16, 4)
		case 'U':
			return s.beginCode(16, 8)
		}
		if e.Rune >= '0' && e.Rune <= '9' {
			s.beginCode(10, 3)
			s.code = append(s.code, e.Rune)
			return Result{Kind: Handled}
		}
	}
	s.state = statePending
	if ch := literalChar(e); ch != 0 {
		return Result{Kind: Done, Char: ch}
	}
	return Result{Kind: Bad}
}

func (s *Sequence) beginCode(base, digits int) Result {
	s.base = base
	s.max = digits
	s.code = s.code[:0]
	s.state = stateCodeChar
	return Result{Kind: Handled}
}

func (s *Sequence) codeChar(e key.Event) Result {
	if e.IsRune() && isCodeDigit(e.Rune, s.base) {
		s.code = append(s.code, e.Rune)
		if len(s.code) == s.max {
			s.state = statePending
			return Result{Kind: Done, Char: s.codeValue()}
		}
		return Result{Kind: Handled}
	}

	s.state = statePending
	if len(s.code) == 0 {
		// <C-v>x followed by a non-digit inserts the x itself.
		return Result{Kind: Done, Char: s.prefixChar(), Replay: true}
	}
	return Result{Kind: Done, Char: s.codeValue(), Replay: true}
}

func (s *Sequence) prefixChar() rune {
	switch {
	case s.base == 8:
		return 'o'
	case s.max == 2:
		return 'x'
	case s.max == 4:
		return 'u'
	}
	return 'U'
}

func (s *Sequence) codeValue() rune {
	n, err := strconv.ParseInt(string(s.code), s.base, 64)
	if err != nil || n > unicode.MaxRune {
		return unicode.ReplacementChar
	}
	return rune(n)
}

func isCodeDigit(r rune, base int) bool {
	switch base {
	case 8:
		return r >= '0' && r <= '7'
	case 10:
		return r >= '0' && r <= '9'
	}
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// literalChar is the character <C-v> inserts for e.
func literalChar(e key.Event) rune {
	switch e {
	case key.Enter:
		return '\r'
	case key.Escape:
		return 0x1b
	case key.Backspace:
		return 0x08
	case key.Delete:
		return 0x7f
	}
	return e.Char()
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Keys < entries[j].Keys })
}
