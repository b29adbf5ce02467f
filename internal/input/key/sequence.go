package key

// HasPrefix reports whether prefix is a prefix of seq.
func HasPrefix(seq, prefix []Event) bool {
	if len(prefix) > len(seq) {
		return false
	}
	for i := range prefix {
		if seq[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are the same keystrokes in the same order.
func Equal(a, b []Event) bool {
	return len(a) == len(b) && HasPrefix(a, b)
}

// Clone returns a copy of events.
func Clone(events []Event) []Event {
	if events == nil {
		return nil
	}
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// FromString returns one unmodified rune event per character of s, without
// interpreting notation. It is how typed text becomes keys.
func FromString(s string) []Event {
	events := make([]Event, 0, len(s))
	for _, r := range s {
		switch r {
		case '\n':
			events = append(events, Enter)
		case '\t':
			events = append(events, Tab)
		default:
			events = append(events, Rune(r))
		}
	}
	return events
}
