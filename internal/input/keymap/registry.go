package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// ErrNoMapping is returned when removing keys that are not mapped.
var ErrNoMapping = errors.New("no such mapping")

// Registry holds the mappings of every mapping mode.
type Registry struct {
	mu    sync.RWMutex
	trees map[mode.MappingMode]*PrefixTree
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{trees: make(map[mode.MappingMode]*PrefixTree)}
	for _, m := range mode.All.Modes() {
		r.trees[m] = NewPrefixTree()
	}
	return r
}

// Put maps from to info in every mode of modes, replacing what was there.
func (r *Registry) Put(modes mode.MappingModeSet, from []key.Event, owner Owner, info Info, recursive bool) error {
	if len(from) == 0 {
		return fmt.Errorf("put mapping: %w", key.ErrEmptySpec)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range modes.Modes() {
		r.trees[m].Insert(&Mapping{
			Mode:      m,
			From:      key.Clone(from),
			Info:      info,
			Recursive: recursive,
			Owner:     owner,
		})
	}
	return nil
}

// Remove deletes the mapping of from in every mode of modes. It fails
// with ErrNoMapping when none of the modes had one.
func (r *Registry) Remove(modes mode.MappingModeSet, from []key.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := false
	for _, m := range modes.Modes() {
		if r.trees[m].Remove(from) {
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("%s: %w", key.Format(from), ErrNoMapping)
	}
	return nil
}

// RemoveByOwner deletes every mapping of owner and returns how many were
// removed.
func (r *Registry) RemoveByOwner(owner Owner) int {
	return r.removeIf(mode.All, func(m *Mapping) bool { return m.Owner == owner })
}

// Clear deletes the mappings of owner in modes, as :mapclear does for
// user mappings.
func (r *Registry) Clear(modes mode.MappingModeSet, owner Owner) int {
	return r.removeIf(modes, func(m *Mapping) bool { return m.Owner == owner })
}

func (r *Registry) removeIf(modes mode.MappingModeSet, match func(*Mapping) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range modes.Modes() {
		t := r.trees[m]
		for _, mapping := range t.All() {
			if match(mapping) && t.Remove(mapping.From) {
				n++
			}
		}
	}
	return n
}

// Lookup returns the mapping of exactly keys in m, or nil.
func (r *Registry) Lookup(m mode.MappingMode, keys []key.Event) *Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trees[m].Lookup(keys)
}

// HasPrefix reports whether some mapping in m is longer than keys and
// starts with them.
func (r *Registry) HasPrefix(m mode.MappingMode, keys []key.Event) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trees[m].HasPrefix(keys)
}

// Mappings lists the mappings of modes whose keys start with prefix,
// ordered by mode then keys.
func (r *Registry) Mappings(modes mode.MappingModeSet, prefix []key.Event) []*Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Mapping
	for _, m := range modes.Modes() {
		for _, mapping := range r.trees[m].All() {
			if key.HasPrefix(mapping.From, prefix) {
				out = append(out, mapping)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return key.Format(out[i].From) < key.Format(out[j].From)
	})
	return out
}

// PrefixTree indexes the mappings of one mapping mode by key.
type PrefixTree struct {
	root *prefixNode
}

type prefixNode struct {
	children map[key.Event]*prefixNode
	mapping  *Mapping
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[key.Event]*prefixNode)}
}

// NewPrefixTree creates a new prefix tree.
func NewPrefixTree() *PrefixTree {
	return &PrefixTree{root: newPrefixNode()}
}

// Insert adds m, replacing any mapping of the same keys.
func (t *PrefixTree) Insert(m *Mapping) {
	node := t.root
	for _, e := range m.From {
		child, ok := node.children[e]
		if !ok {
			child = newPrefixNode()
			node.children[e] = child
		}
		node = child
	}
	node.mapping = m
}

// Remove deletes the mapping of keys and reports whether there was one.
func (t *PrefixTree) Remove(keys []key.Event) bool {
	if len(keys) == 0 {
		return false
	}

	// Track path for pruning
	path := make([]*prefixNode, 0, len(keys)+1)
	path = append(path, t.root)
	node := t.root
	for _, e := range keys {
		child, ok := node.children[e]
		if !ok {
			return false
		}
		path = append(path, child)
		node = child
	}
	if node.mapping == nil {
		return false
	}
	node.mapping = nil

	// Prune empty nodes from leaf to root
	for i := len(path) - 1; i > 0; i-- {
		current := path[i]
		if current.mapping != nil || len(current.children) > 0 {
			break
		}
		delete(path[i-1].children, keys[i-1])
	}
	return true
}

func (t *PrefixTree) find(keys []key.Event) *prefixNode {
	node := t.root
	for _, e := range keys {
		child, ok := node.children[e]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// Lookup finds the mapping of exactly keys.
func (t *PrefixTree) Lookup(keys []key.Event) *Mapping {
	if node := t.find(keys); node != nil {
		return node.mapping
	}
	return nil
}

// HasPrefix reports whether a longer mapping starts with keys.
func (t *PrefixTree) HasPrefix(keys []key.Event) bool {
	node := t.find(keys)
	return node != nil && len(node.children) > 0
}

// All returns every mapping in the tree.
func (t *PrefixTree) All() []*Mapping {
	var out []*Mapping
	var walk func(n *prefixNode)
	walk = func(n *prefixNode) {
		if n.mapping != nil {
			out = append(out, n.mapping)
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(t.root)
	return out
}
