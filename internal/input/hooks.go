package input

import (
	"sort"
	"sync"

	"github.com/dshills/modal/internal/input/key"
	"github.com/google/uuid"
)

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// Hook sees every key before the engine does.
type Hook interface {
	// PreKey is called with the editor the key was typed in. Returning
	// true swallows the key.
	PreKey(editor uuid.UUID, e key.Event) bool
}

// HookFunc adapts a function to Hook.
type HookFunc func(editor uuid.UUID, e key.Event) bool

// PreKey calls f.
func (f HookFunc) PreKey(editor uuid.UUID, e key.Event) bool {
	return f(editor, e)
}

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager keeps hooks ordered by priority.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{sorted: true, enabled: true}
}

// Register adds a hook with default priority.
func (m *HookManager) Register(name string, hook Hook) HookID {
	return m.RegisterWithPriority(name, hook, HookPriorityNormal)
}

// RegisterWithPriority adds a hook with the given priority. Hooks of equal
// priority run in registration order.
func (m *HookManager) RegisterWithPriority(name string, hook Hook, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hooks {
		if m.hooks[i].ID == id {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// UnregisterByName removes every hook registered under name.
func (m *HookManager) UnregisterByName(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.hooks[:0]
	for _, h := range m.hooks {
		if h.Name != name {
			kept = append(kept, h)
		}
	}
	n := len(m.hooks) - len(kept)
	m.hooks = kept
	return n
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSorted()

	result := make([]HookRegistration, len(m.hooks))
	copy(result, m.hooks)
	return result
}

func (m *HookManager) ensureSorted() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	m.sorted = true
}

// RunPreKey runs the hooks in priority order and reports whether one of
// them swallowed the key. Hooks run without the manager lock held.
func (m *HookManager) RunPreKey(editor uuid.UUID, e key.Event) bool {
	m.mu.Lock()
	if !m.enabled || len(m.hooks) == 0 {
		m.mu.Unlock()
		return false
	}
	m.ensureSorted()
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	m.mu.Unlock()

	for _, hook := range hooks {
		if hook.PreKey(editor, e) {
			return true
		}
	}
	return false
}
