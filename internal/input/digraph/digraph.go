package digraph

import (
	"strings"
	"sync"
)

// Table maps two-key digraphs to characters.
type Table struct {
	mu      sync.RWMutex
	entries map[[2]rune]rune
}

// NewTable returns a table holding the built-in digraphs.
func NewTable() *Table {
	t := &Table{entries: make(map[[2]rune]rune)}
	for _, e := range strings.Fields(rfc1345) {
		r := []rune(e)
		t.entries[[2]rune{r[0], r[1]}] = r[2]
	}
	return t
}

// Add defines or replaces a digraph.
func (t *Table) Add(a, b, ch rune) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[[2]rune{a, b}] = ch
}

// Lookup returns the character for a and b, trying both orders.
func (t *Table) Lookup(a, b rune) (rune, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if ch, ok := t.entries[[2]rune{a, b}]; ok {
		return ch, true
	}
	ch, ok := t.entries[[2]rune{b, a}]
	return ch, ok
}

// Get is Lookup that falls back to b when no digraph matches.
func (t *Table) Get(a, b rune) rune {
	if ch, ok := t.Lookup(a, b); ok {
		return ch
	}
	return b
}

// Entry is one digraph definition.
type Entry struct {
	Keys string
	Char rune
}

// Entries returns every digraph, ordered by its keys.
func (t *Table) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.entries))
	for k, ch := range t.entries {
		out = append(out, Entry{Keys: string(k[:]), Char: ch})
	}
	sortEntries(out)
	return out
}
