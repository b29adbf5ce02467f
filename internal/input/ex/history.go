package ex

import "sync"

// History keeps the command lines entered most recently, newest first.
type History struct {
	mu       sync.Mutex
	items    []string
	maxItems int
}

// NewHistory returns a history holding at most maxItems lines.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = 100
	}
	return &History{
		items:    make([]string, 0, maxItems),
		maxItems: maxItems,
	}
}

// Add records line. A line already present moves to the front.
func (h *History) Add(line string) {
	if line == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, item := range h.items {
		if item == line {
			h.items = append(h.items[:i], h.items[i+1:]...)
			break
		}
	}
	h.items = append([]string{line}, h.items...)
	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
}

// Recent returns up to limit lines, newest first. A limit of 0 returns all.
func (h *History) Recent(limit int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit <= 0 || limit > len(h.items) {
		limit = len(h.items)
	}
	out := make([]string, limit)
	copy(out, h.items[:limit])
	return out
}

// Last returns the newest line.
func (h *History) Last() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.items) == 0 {
		return "", false
	}
	return h.items[0], true
}

// Len returns the number of lines kept.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}
