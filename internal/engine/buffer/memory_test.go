package buffer

import (
	"errors"
	"testing"
)

func TestMemoryLines(t *testing.T) {
	m := NewMemory("one\ntwo\n\nfour", "a.txt")

	if got := m.LineCount(); got != 4 {
		t.Fatalf("LineCount() = %d, want 4", got)
	}
	tests := []struct {
		line       int
		start, end int
	}{
		{0, 0, 3},
		{1, 4, 7},
		{2, 8, 8},
		{3, 9, 13},
	}
	for _, tt := range tests {
		if got := m.LineStartOffset(tt.line); got != tt.start {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.start)
		}
		if got := m.LineEndOffset(tt.line); got != tt.end {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.end)
		}
	}
}

func TestMemoryPoints(t *testing.T) {
	m := NewMemory("ab\ncde\n", "")
	tests := []struct {
		offset int
		point  Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{7, Point{2, 0}},
	}
	for _, tt := range tests {
		if got := m.OffsetToPoint(tt.offset); got != tt.point {
			t.Errorf("OffsetToPoint(%d) = %v, want %v", tt.offset, got, tt.point)
		}
		if got := m.PointToOffset(tt.point); got != tt.offset {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.offset)
		}
	}
	if got := m.PointToOffset(Point{0, 99}); got != 2 {
		t.Errorf("PointToOffset past line end = %d, want 2", got)
	}
}

func TestMemoryEditsMoveCaret(t *testing.T) {
	m := NewMemory("hello world", "")
	m.MoveCaret(8)

	if err := m.Delete(0, 6); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if m.Text() != "world" {
		t.Errorf("Text() = %q, want %q", m.Text(), "world")
	}
	if m.Caret() != 2 {
		t.Errorf("Caret() = %d, want 2", m.Caret())
	}

	if err := m.Insert(0, "big "); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if m.Text() != "big world" || m.Caret() != 6 {
		t.Errorf("after Insert: %q caret %d", m.Text(), m.Caret())
	}
}

func TestMemoryErrors(t *testing.T) {
	m := NewMemory("abc", "")
	if err := m.Delete(2, 9); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("Delete out of range error = %v", err)
	}
	if err := m.Delete(2, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("Delete reversed error = %v", err)
	}
	m.SetReadOnly(true)
	if err := m.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert read-only error = %v", err)
	}
}

func TestMemoryUndoGroups(t *testing.T) {
	m := NewMemory("abc", "")

	m.BeginUndoGroup()
	_ = m.Insert(3, "d")
	_ = m.Insert(4, "e")
	m.EndUndoGroup()

	_ = m.Delete(0, 1)

	if !m.Undo() || m.Text() != "abcde" {
		t.Fatalf("first Undo() text = %q, want abcde", m.Text())
	}
	if !m.Undo() || m.Text() != "abc" {
		t.Fatalf("second Undo() text = %q, want abc", m.Text())
	}
	if m.Undo() {
		t.Error("Undo() on empty history = true")
	}
}

func TestMemoryGraphemeStepping(t *testing.T) {
	// "e" + combining acute is one character.
	m := NewMemory("ae\u0301b\nx", "")

	if got := m.NextCharOffset(1); got != 4 {
		t.Errorf("NextCharOffset(1) = %d, want 4", got)
	}
	if got := m.PrevCharOffset(4); got != 1 {
		t.Errorf("PrevCharOffset(4) = %d, want 1", got)
	}
	if got := m.NextCharOffset(5); got != 5 {
		t.Errorf("NextCharOffset at line end = %d, want 5", got)
	}
	if got := m.PrevCharOffset(6); got != 6 {
		t.Errorf("PrevCharOffset at line start = %d, want 6", got)
	}
}

func TestMemorySelection(t *testing.T) {
	m := NewMemory("abcdef", "")
	m.SetSelection(4, 1)
	s, e, ok := m.Selection()
	if !ok || s != 1 || e != 4 {
		t.Errorf("Selection() = %d,%d,%v", s, e, ok)
	}
	m.RemoveSelection()
	if _, _, ok := m.Selection(); ok {
		t.Error("selection still active")
	}
}

func TestFindParagraph(t *testing.T) {
	m := NewMemory("one\ntwo\n\nthree\nfour\n\nfive", "p.txt")
	tests := []struct {
		name   string
		offset int
		dir    int
		want   int
	}{
		{"forward from first line", 0, 1, 8},
		{"forward from blank", 8, 1, 20},
		{"forward past last", 21, 1, m.Len()},
		{"backward from fourth line", 15, -1, 8},
		{"backward to start", 5, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindParagraph(m, tt.offset, tt.dir); got != tt.want {
				t.Errorf("FindParagraph(%d, %d) = %d, want %d", tt.offset, tt.dir, got, tt.want)
			}
		})
	}
}

func TestFindSentenceStart(t *testing.T) {
	m := NewMemory("Hello there. How are you? Fine.", "s.txt")
	if got := FindSentenceStart(m, 0, 1); got != 13 {
		t.Errorf("FindSentenceStart(0, 1) = %d, want 13", got)
	}
	if got := FindSentenceStart(m, 14, 1); got != 26 {
		t.Errorf("FindSentenceStart(14, 1) = %d, want 26", got)
	}
	if got := FindSentenceStart(m, 20, -1); got != 13 {
		t.Errorf("FindSentenceStart(20, -1) = %d, want 13", got)
	}
	if got := FindSentenceStart(m, 13, -1); got != 0 {
		t.Errorf("FindSentenceStart(13, -1) = %d, want 0", got)
	}
}
