package mode

import "sync"

// ChangeCallback is called after the top of the stack changes.
type ChangeCallback func(from, to State)

// Machine is a per-editor stack of mode states. The stack is never empty.
type Machine struct {
	mu        sync.RWMutex
	stack     []State
	callbacks []ChangeCallback
}

// NewMachine returns a machine in (Command, None).
func NewMachine() *Machine {
	m := &Machine{stack: make([]State, 1, 4)}
	m.stack[0] = Default
	return m
}

// Current returns the top of the stack.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.topLocked()
}

func (m *Machine) topLocked() State {
	if len(m.stack) == 0 {
		return Default
	}
	return m.stack[len(m.stack)-1]
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode {
	return m.Current().Mode
}

// SubMode returns the current submode.
func (m *Machine) SubMode() SubMode {
	return m.Current().SubMode
}

// MappingMode returns the mapping mode of the current mode.
func (m *Machine) MappingMode() MappingMode {
	return MappingModeFor(m.Mode())
}

// Depth returns the number of states on the stack, including the bottom.
func (m *Machine) Depth() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stack)
}

// Stack returns a copy of the stack, bottom first.
func (m *Machine) Stack() []State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]State, len(m.stack))
	copy(out, m.stack)
	return out
}

// Push pushes a new state. Callbacks fire only if the top changed.
func (m *Machine) Push(mode Mode, sub SubMode) {
	m.mu.Lock()
	from := m.topLocked()
	to := State{Mode: mode, SubMode: sub}
	m.stack = append(m.stack, to)
	m.mu.Unlock()

	m.notify(from, to)
}

// Pop removes the top state. The bottom state is never removed.
func (m *Machine) Pop() {
	m.mu.Lock()
	if len(m.stack) <= 1 {
		m.mu.Unlock()
		return
	}
	from := m.topLocked()
	m.stack = m.stack[:len(m.stack)-1]
	to := m.topLocked()
	m.mu.Unlock()

	m.notify(from, to)
}

// ResetOpPending pops the top state if it is OpPending.
func (m *Machine) ResetOpPending() {
	if m.Mode() == OpPending {
		m.Pop()
	}
}

// ToggleInsertOverwrite swaps Insert and Replace in place.
func (m *Machine) ToggleInsertOverwrite() {
	m.mu.Lock()
	from := m.topLocked()
	to := from
	switch from.Mode {
	case Insert:
		to.Mode = Replace
	case Replace:
		to.Mode = Insert
	default:
		m.mu.Unlock()
		return
	}
	m.stack[len(m.stack)-1] = to
	m.mu.Unlock()

	m.notify(from, to)
}

// SetSubMode replaces the submode of the top state, keeping its mode.
func (m *Machine) SetSubMode(sub SubMode) {
	m.mu.Lock()
	from := m.topLocked()
	if from.SubMode == sub {
		m.mu.Unlock()
		return
	}
	to := State{Mode: from.Mode, SubMode: sub}
	if len(m.stack) == 1 {
		// the bottom state stays (Command, None)
		m.stack = append(m.stack, to)
	} else {
		m.stack[len(m.stack)-1] = to
	}
	m.mu.Unlock()

	m.notify(from, to)
}

// Reset collapses the stack to (Command, None).
func (m *Machine) Reset() {
	m.mu.Lock()
	from := m.topLocked()
	m.stack = m.stack[:1]
	m.stack[0] = Default
	m.mu.Unlock()

	m.notify(from, Default)
}

// OnChange registers a callback for mode changes.
// Returns a function to unregister the callback.
func (m *Machine) OnChange(callback ChangeCallback) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}

// notify runs callbacks outside the lock when the state changed.
func (m *Machine) notify(from, to State) {
	if from == to {
		return
	}
	m.mu.RLock()
	callbacks := make([]ChangeCallback, len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}
