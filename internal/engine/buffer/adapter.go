package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrReadOnly         = errors.New("buffer is read-only")
)

// Point is a line and column position.
type Point struct {
	Line   int
	Column int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Reader is the query half of an Adapter.
type Reader interface {
	Text() string
	Len() int
	TextRange(start, end int) string
	LineCount() int
	// LineStartOffset returns the offset of the first byte of line.
	LineStartOffset(line int) int
	// LineEndOffset returns the offset of the line's newline, or Len for the
	// last line.
	LineEndOffset(line int) int
	OffsetToPoint(offset int) Point
	PointToOffset(p Point) int
	// NextCharOffset and PrevCharOffset step over one user-perceived
	// character, never crossing a line break.
	NextCharOffset(offset int) int
	PrevCharOffset(offset int) int
	Path() string
	IsWritable() bool
}

// Adapter is everything the engine needs from a host editor.
type Adapter interface {
	Reader

	Caret() int
	MoveCaret(offset int)
	// Selection returns the selection as a half-open range.
	Selection() (start, end int, ok bool)
	SetSelection(start, end int)
	RemoveSelection()

	Insert(offset int, text string) error
	Delete(start, end int) error
	Replace(start, end int, text string) error

	// BeginUndoGroup and EndUndoGroup bracket edits that undo as one step.
	BeginUndoGroup()
	EndUndoGroup()
	// Undo reverts the last group, reporting false when there is none.
	Undo() bool
}
