package keymap

import (
	"time"

	"github.com/dshills/modal/internal/input/key"
)

// Timer is a scheduled call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d. Tests replace it to fire timers by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules with time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

// State is the mapping resolution state of one editor.
//
// State is not safe for concurrent use; the key handler owns it and the
// timer callback takes the handler's lock before touching it.
type State struct {
	depth int
	keys  []key.Event
	sched Scheduler
	timer Timer
	token uint64
}

// NewState returns a state scheduling its timer with s. A nil s uses
// RealScheduler.
func NewState(s Scheduler) *State {
	if s == nil {
		s = RealScheduler
	}
	return &State{sched: s}
}

// Depth returns how many mapping expansions are in progress.
func (s *State) Depth() int {
	return s.depth
}

// Enter records the start of a mapping expansion.
func (s *State) Enter() {
	s.depth++
}

// Exit records the end of a mapping expansion.
func (s *State) Exit() {
	if s.depth > 0 {
		s.depth--
	}
}

// InMapping reports whether keys are being replayed from a mapping.
func (s *State) InMapping() bool {
	return s.depth > 0
}

// Keys returns the keys typed since the last resolution.
func (s *State) Keys() []key.Event {
	return key.Clone(s.keys)
}

// HasKeys reports whether keys are waiting for resolution.
func (s *State) HasKeys() bool {
	return len(s.keys) > 0
}

// AddKey appends e to the pending keys.
func (s *State) AddKey(e key.Event) {
	s.keys = append(s.keys, e)
}

// DetachKeys returns the pending keys and clears them.
func (s *State) DetachKeys() []key.Event {
	keys := s.keys
	s.keys = nil
	return keys
}

// StartTimer cancels any running timer and schedules fire after d. The
// token passed to fire is current until the timer is stopped or another
// is started.
func (s *State) StartTimer(d time.Duration, fire func(token uint64)) uint64 {
	s.StopTimer()
	token := s.token
	s.timer = s.sched.AfterFunc(d, func() { fire(token) })
	return token
}

// StopTimer cancels the running timer. A callback already running sees
// its token is no longer current.
func (s *State) StopTimer() {
	s.token++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// IsCurrent reports whether token belongs to the running timer.
func (s *State) IsCurrent(token uint64) bool {
	return s.timer != nil && token == s.token
}

// ResetSequence drops the pending keys and cancels the timer.
func (s *State) ResetSequence() {
	s.keys = nil
	s.StopTimer()
}

// Reset restores the initial state.
func (s *State) Reset() {
	s.ResetSequence()
	s.depth = 0
}
