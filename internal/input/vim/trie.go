package vim

import (
	"errors"
	"fmt"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// ErrKeyConflict is returned when a command's keys would shadow, or be
// shadowed by, another command in the same mode.
var ErrKeyConflict = errors.New("key sequence conflicts with an existing command")

// Node is a node of the key trie. A node either holds a handler (a
// command) or has children (a command prefix), never both.
type Node struct {
	parent   *Node
	children map[key.Event]*Node
	handler  *Handler
}

func newNode(parent *Node) *Node {
	return &Node{parent: parent, children: make(map[key.Event]*Node)}
}

// Child returns the node reached by e, or nil.
func (n *Node) Child(e key.Event) *Node {
	if n == nil {
		return nil
	}
	return n.children[e]
}

// Handler returns the command bound at n, or nil for a prefix node.
func (n *Node) Handler() *Handler {
	return n.handler
}

// IsCommand reports whether n completes a command.
func (n *Node) IsCommand() bool {
	return n != nil && n.handler != nil
}

// IsRoot reports whether n is the root of its trie.
func (n *Node) IsRoot() bool {
	return n != nil && n.parent == nil
}

// Trie holds one key tree per mapping mode.
type Trie struct {
	roots map[mode.MappingMode]*Node
}

// NewTrie returns an empty trie.
func NewTrie() *Trie {
	t := &Trie{roots: make(map[mode.MappingMode]*Node)}
	for _, m := range mode.All.Modes() {
		t.roots[m] = newNode(nil)
	}
	return t
}

// Root returns the root node for m.
func (t *Trie) Root(m mode.MappingMode) *Node {
	return t.roots[m]
}

// Add binds keys to h in every mode of modes.
func (t *Trie) Add(modes mode.MappingModeSet, keys []key.Event, h *Handler) error {
	if len(keys) == 0 {
		return fmt.Errorf("add %s: %w", h.Name, key.ErrEmptySpec)
	}
	for _, m := range modes.Modes() {
		if err := t.add(t.roots[m], keys, h); err != nil {
			return fmt.Errorf("add %s %q: %w", h.Name, key.Format(keys), err)
		}
	}
	return nil
}

func (t *Trie) add(n *Node, keys []key.Event, h *Handler) error {
	for i, e := range keys {
		if n.handler != nil {
			return ErrKeyConflict
		}
		child, ok := n.children[e]
		if !ok {
			child = newNode(n)
			n.children[e] = child
		}
		if i == len(keys)-1 {
			if len(child.children) > 0 {
				return ErrKeyConflict
			}
			child.handler = h
		}
		n = child
	}
	return nil
}

// Lookup returns the handler bound to keys in m.
func (t *Trie) Lookup(m mode.MappingMode, keys []key.Event) *Handler {
	n := t.roots[m]
	for _, e := range keys {
		n = n.Child(e)
		if n == nil {
			return nil
		}
	}
	return n.handler
}
