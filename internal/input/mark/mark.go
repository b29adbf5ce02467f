package mark

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/modal/internal/engine/buffer"
)

// Mark names used by the engine itself.
const (
	LastJump      = '\''
	ChangeStart   = '['
	ChangeEnd     = ']'
	VisualStart   = '<'
	VisualEnd     = '>'
	LastInsert    = '^'
	LastChange    = '.'
	ParagraphPrev = '{'
	ParagraphNext = '}'
	SentencePrev  = '('
	SentenceNext  = ')'
)

const (
	validSet   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789'`[]<>^."
	validGet   = validSet + "{}()"
	fileMarks  = "abcdefghijklmnopqrstuvwxyz'`[]<>^.{}()"
	globalMark = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Mark is a named position in a file.
type Mark struct {
	Key  rune
	Line int
	Col  int
	Path string
}

// IsValidSet reports whether ch can be assigned with m.
func IsValidSet(ch rune) bool { return strings.ContainsRune(validSet, ch) }

// IsValidGet reports whether ch names a readable mark.
func IsValidGet(ch rune) bool { return strings.ContainsRune(validGet, ch) }

// IsFileMark reports whether ch is scoped to a single file.
func IsFileMark(ch rune) bool { return strings.ContainsRune(fileMarks, ch) }

// IsGlobalMark reports whether ch is visible from every file.
func IsGlobalMark(ch rune) bool { return strings.ContainsRune(globalMark, ch) }

func normalize(ch rune) rune {
	if ch == '`' {
		return '\''
	}
	return ch
}

// Group holds every mark and the jump list. It is safe for concurrent use.
type Group struct {
	mu       sync.Mutex
	files    map[string]map[rune]*Mark
	globals  map[rune]*Mark
	jumps    []Jump
	jumpSpot int
}

// NewGroup returns an empty Group.
func NewGroup() *Group {
	return &Group{
		files:    make(map[string]map[rune]*Mark),
		globals:  make(map[rune]*Mark),
		jumpSpot: -1,
	}
}

func (g *Group) fileMarksLocked(path string) map[rune]*Mark {
	m, ok := g.files[path]
	if !ok {
		m = make(map[rune]*Mark)
		g.files[path] = m
	}
	return m
}

// SetMark records ch at offset in buf. It returns false for an invalid mark
// name or a buffer without a path.
func (g *Group) SetMark(buf buffer.Reader, ch rune, offset int) bool {
	ch = normalize(ch)
	if !IsValidSet(ch) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.setLocked(buf, ch, offset)
}

func (g *Group) setLocked(buf buffer.Reader, ch rune, offset int) bool {
	path := buf.Path()
	if path == "" {
		return false
	}
	p := buf.OffsetToPoint(offset)
	m := &Mark{Key: ch, Line: p.Line, Col: p.Column, Path: path}
	switch {
	case IsFileMark(ch):
		g.fileMarksLocked(path)[ch] = m
	case IsGlobalMark(ch):
		if old, ok := g.globals[ch]; ok {
			delete(g.fileMarksLocked(old.Path), ch)
		}
		g.fileMarksLocked(path)[ch] = m
		g.globals[ch] = m
	default:
		return false
	}
	return true
}

// GetMark returns the mark named ch as seen from buf. The paragraph and
// sentence marks are computed from the caret and never stored.
func (g *Group) GetMark(buf buffer.Adapter, ch rune) (Mark, bool) {
	ch = normalize(ch)
	if !IsValidGet(ch) {
		return Mark{}, false
	}
	path := buf.Path()
	switch ch {
	case ParagraphPrev, ParagraphNext, SentencePrev, SentenceNext:
		if path == "" {
			return Mark{}, false
		}
		var off int
		switch ch {
		case ParagraphPrev:
			off = buffer.FindParagraph(buf, buf.Caret(), -1)
		case ParagraphNext:
			off = buffer.FindParagraph(buf, buf.Caret(), 1)
		case SentencePrev:
			off = buffer.FindSentenceStart(buf, buf.Caret(), -1)
		default:
			off = buffer.FindSentenceStart(buf, buf.Caret(), 1)
		}
		p := buf.OffsetToPoint(off)
		return Mark{Key: ch, Line: p.Line, Col: p.Column, Path: path}, true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if IsFileMark(ch) {
		if path == "" {
			return Mark{}, false
		}
		m, ok := g.files[path][ch]
		if !ok {
			return Mark{}, false
		}
		return *m, true
	}
	m, ok := g.globals[ch]
	if !ok {
		return Mark{}, false
	}
	return *m, true
}

// Offset resolves m against buf, clamping the column to the line.
func Offset(buf buffer.Reader, m Mark) int {
	line := m.Line
	if line >= buf.LineCount() {
		line = buf.LineCount() - 1
	}
	start := buf.LineStartOffset(line)
	end := buf.LineEndOffset(line)
	off := start + m.Col
	if off > end {
		off = end
	}
	return off
}

// RemoveMark deletes ch for path. Global marks are removed everywhere.
func (g *Group) RemoveMark(path string, ch rune) {
	ch = normalize(ch)
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeLocked(path, ch)
}

func (g *Group) removeLocked(path string, ch rune) {
	switch {
	case IsFileMark(ch):
		delete(g.files[path], ch)
	case IsGlobalMark(ch):
		if m, ok := g.globals[ch]; ok {
			delete(g.files[m.Path], ch)
			delete(g.globals, ch)
		}
	}
}

// Marks returns the file marks of path together with every global mark,
// sorted by name.
func (g *Group) Marks(path string) []Mark {
	g.mu.Lock()
	defer g.mu.Unlock()
	seen := make(map[*Mark]bool)
	var out []Mark
	for _, m := range g.files[path] {
		seen[m] = true
		out = append(out, *m)
	}
	for _, m := range g.globals {
		if !seen[m] {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return keyLess(out[i].Key, out[j].Key) })
	return out
}

// keyLess orders lowercase marks first, then uppercase, digits and the rest.
func keyLess(a, b rune) bool {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

func keyRank(r rune) int {
	switch {
	case r >= 'a' && r <= 'z':
		return 0
	case r >= 'A' && r <= 'Z':
		return 1
	case r >= '0' && r <= '9':
		return 2
	}
	return 3
}

// ResetAllMarks forgets every mark and jump.
func (g *Group) ResetAllMarks() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files = make(map[string]map[rune]*Mark)
	g.globals = make(map[rune]*Mark)
	g.jumps = nil
	g.jumpSpot = -1
}

// SetChangeMarks sets '[ and '] around the half-open range start..end.
func (g *Group) SetChangeMarks(buf buffer.Reader, start, end int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setLocked(buf, ChangeStart, start)
	if end > start {
		end--
	}
	g.setLocked(buf, ChangeEnd, end)
}

// SetVisualSelectionMarks sets '< and '> around the half-open range
// start..end.
func (g *Group) SetVisualSelectionMarks(buf buffer.Reader, start, end int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setLocked(buf, VisualStart, start)
	if end > start {
		end--
	}
	g.setLocked(buf, VisualEnd, end)
}

// ChangeMarks returns the half-open range between '[ and '].
func (g *Group) ChangeMarks(buf buffer.Adapter) (start, end int, ok bool) {
	return g.marksRange(buf, ChangeStart, ChangeEnd)
}

// VisualSelectionMarks returns the half-open range between '< and '>.
func (g *Group) VisualSelectionMarks(buf buffer.Adapter) (start, end int, ok bool) {
	return g.marksRange(buf, VisualStart, VisualEnd)
}

func (g *Group) marksRange(buf buffer.Adapter, a, b rune) (int, int, bool) {
	s, ok := g.GetMark(buf, a)
	if !ok {
		return 0, 0, false
	}
	e, ok := g.GetMark(buf, b)
	if !ok {
		return 0, 0, false
	}
	return Offset(buf, s), Offset(buf, e) + 1, true
}

// UpdateMarkFromDelete adjusts the marks of buf for a deletion of length
// bytes at start. It must run before the text is removed. isChange reports
// whether the running command is a change, which keeps a mark whose line is
// being replaced from its first byte.
func (g *Group) UpdateMarkFromDelete(buf buffer.Reader, start, length int, isChange bool) {
	if length <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	marks := g.files[buf.Path()]
	if len(marks) == 0 {
		return
	}
	endOff := start + length - 1
	delStart := buf.OffsetToPoint(start)
	delEnd := buf.OffsetToPoint(endOff + 1)

	for ch, m := range marks {
		switch {
		case delEnd.Line < m.Line:
			m.Line -= delEnd.Line - delStart.Line
		case delStart.Line <= m.Line:
			lineStart := buf.LineStartOffset(m.Line)
			lineEnd := buf.LineEndOffset(m.Line)
			fromLineStart := isChange && start == lineStart
			if start <= lineStart && endOff >= lineEnd && !fromLineStart {
				g.removeLocked(m.Path, ch)
			} else if delStart.Line < m.Line {
				m.Line = delStart.Line
			}
		}
	}
}

// UpdateMarkFromInsert shifts marks below the insertion point by the number
// of lines in text.
func (g *Group) UpdateMarkFromInsert(buf buffer.Reader, start int, text string) {
	lines := strings.Count(text, "\n")
	if lines == 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	marks := g.files[buf.Path()]
	if len(marks) == 0 {
		return
	}
	insLine := buf.OffsetToPoint(start).Line
	for _, m := range marks {
		if insLine < m.Line {
			m.Line += lines
		}
	}
}
