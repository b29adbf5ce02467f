package buffer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// Memory is an in-memory Adapter.
type Memory struct {
	mu sync.RWMutex

	text      string
	lineStart []int
	path      string
	readOnly  bool

	caret     int
	selStart  int
	selEnd    int
	selection bool

	undo      []snapshot
	groupOpen int
	groupMark bool
}

type snapshot struct {
	text  string
	caret int
}

// NewMemory returns a buffer holding text, reported as living at path.
func NewMemory(text, path string) *Memory {
	m := &Memory{text: text, path: path}
	m.index()
	return m
}

// SetReadOnly toggles write protection.
func (m *Memory) SetReadOnly(ro bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = ro
}

func (m *Memory) index() {
	m.lineStart = m.lineStart[:0]
	m.lineStart = append(m.lineStart, 0)
	for i := 0; i < len(m.text); i++ {
		if m.text[i] == '\n' {
			m.lineStart = append(m.lineStart, i+1)
		}
	}
}

func (m *Memory) Text() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.text)
}

func (m *Memory) TextRange(start, end int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start, end = m.clampRange(start, end)
	return m.text[start:end]
}

func (m *Memory) LineCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.lineStart)
}

func (m *Memory) LineStartOffset(line int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lineStartLocked(line)
}

func (m *Memory) lineStartLocked(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(m.lineStart) {
		return len(m.text)
	}
	return m.lineStart[line]
}

func (m *Memory) LineEndOffset(line int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lineEndLocked(line)
}

func (m *Memory) lineEndLocked(line int) int {
	if line < 0 {
		line = 0
	}
	if line+1 >= len(m.lineStart) {
		return len(m.text)
	}
	return m.lineStart[line+1] - 1
}

func (m *Memory) OffsetToPoint(offset int) Point {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.offsetToPointLocked(offset)
}

func (m *Memory) offsetToPointLocked(offset int) Point {
	offset = m.clamp(offset)
	lo, hi := 0, len(m.lineStart)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.lineStart[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: lo, Column: offset - m.lineStart[lo]}
}

func (m *Memory) PointToOffset(p Point) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p.Line >= len(m.lineStart) {
		return len(m.text)
	}
	start := m.lineStartLocked(p.Line)
	end := m.lineEndLocked(p.Line)
	if p.Column < 0 {
		return start
	}
	if start+p.Column > end {
		return end
	}
	return start + p.Column
}

func (m *Memory) NextCharOffset(offset int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offset = m.clamp(offset)
	end := m.lineEndLocked(m.offsetToPointLocked(offset).Line)
	if offset >= end {
		return offset
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(m.text[offset:end], -1)
	return offset + len(cluster)
}

func (m *Memory) PrevCharOffset(offset int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	offset = m.clamp(offset)
	start := m.lineStartLocked(m.offsetToPointLocked(offset).Line)
	if offset <= start {
		return offset
	}
	prev := start
	g := uniseg.NewGraphemes(m.text[start:offset])
	for g.Next() {
		from, _ := g.Positions()
		prev = start + from
	}
	return prev
}

func (m *Memory) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

func (m *Memory) IsWritable() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.readOnly
}

func (m *Memory) Caret() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caret
}

func (m *Memory) MoveCaret(offset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.caret = m.clamp(offset)
}

func (m *Memory) Selection() (int, int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selStart, m.selEnd, m.selection
}

func (m *Memory) SetSelection(start, end int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if start > end {
		start, end = end, start
	}
	m.selStart, m.selEnd = m.clampRange(start, end)
	m.selection = true
}

func (m *Memory) RemoveSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = false
	m.selStart, m.selEnd = 0, 0
}

func (m *Memory) Insert(offset int, text string) error {
	return m.Replace(offset, offset, text)
}

func (m *Memory) Delete(start, end int) error {
	return m.Replace(start, end, "")
}

func (m *Memory) Replace(start, end int, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	if start < 0 || end > len(m.text) {
		return fmt.Errorf("%w: [%d,%d) in %d bytes", ErrOffsetOutOfRange, start, end, len(m.text))
	}
	if start > end {
		return fmt.Errorf("%w: start %d > end %d", ErrRangeInvalid, start, end)
	}

	m.recordLocked()
	var b strings.Builder
	b.Grow(len(m.text) - (end - start) + len(text))
	b.WriteString(m.text[:start])
	b.WriteString(text)
	b.WriteString(m.text[end:])
	m.text = b.String()
	m.index()

	switch {
	case m.caret >= end:
		m.caret += len(text) - (end - start)
	case m.caret > start:
		m.caret = start
	}
	m.caret = m.clamp(m.caret)
	return nil
}

// BeginUndoGroup opens a group. Nested groups join the outermost one.
func (m *Memory) BeginUndoGroup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groupOpen == 0 {
		m.groupMark = false
	}
	m.groupOpen++
}

func (m *Memory) EndUndoGroup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.groupOpen > 0 {
		m.groupOpen--
	}
}

// recordLocked snapshots the text before the first edit of a group, or
// before every edit made outside a group.
func (m *Memory) recordLocked() {
	if m.groupOpen > 0 {
		if m.groupMark {
			return
		}
		m.groupMark = true
	}
	m.undo = append(m.undo, snapshot{text: m.text, caret: m.caret})
}

func (m *Memory) Undo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undo) == 0 {
		return false
	}
	s := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.text = s.text
	m.index()
	m.caret = m.clamp(s.caret)
	m.selection = false
	return true
}

func (m *Memory) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(m.text) {
		return len(m.text)
	}
	return offset
}

func (m *Memory) clampRange(start, end int) (int, int) {
	start, end = m.clamp(start), m.clamp(end)
	if start > end {
		start = end
	}
	return start, end
}

var _ Adapter = (*Memory)(nil)
