package keymap

import "github.com/dshills/modal/internal/input/key"

// KeyStack holds the replacement keys of the mappings being replayed.
// Each expansion pushes a frame, drains it with Next and pops it, so a
// mapping triggered while another replays finishes first.
type KeyStack struct {
	frames [][]key.Event
}

// Push adds a frame of keys.
func (s *KeyStack) Push(keys []key.Event) {
	s.frames = append(s.frames, key.Clone(keys))
}

// HasKey reports whether the newest frame has a key left.
func (s *KeyStack) HasKey() bool {
	return len(s.frames) > 0 && len(s.frames[len(s.frames)-1]) > 0
}

// Next removes and returns the next key of the newest frame.
func (s *KeyStack) Next() (key.Event, bool) {
	if !s.HasKey() {
		return key.Event{}, false
	}
	top := len(s.frames) - 1
	e := s.frames[top][0]
	s.frames[top] = s.frames[top][1:]
	return e, true
}

// Pop drops the newest frame.
func (s *KeyStack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of frames.
func (s *KeyStack) Depth() int {
	return len(s.frames)
}

// Reset drops every frame.
func (s *KeyStack) Reset() {
	s.frames = nil
}
