package key

import "unicode"

// Event is a single keystroke. Events are comparable.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// Rune returns the event for typing r with no modifiers.
func Rune(r rune) Event {
	return Event{Key: KeyRune, Rune: r}
}

// Ctrl returns the control chord for r, e.g. Ctrl('w') is <C-w>.
func Ctrl(r rune) Event {
	return Event{Key: KeyRune, Rune: unicode.ToLower(r), Modifiers: ModCtrl}
}

// Special returns the event for a named key.
func Special(k Key) Event {
	return Event{Key: k}
}

// Common events.
var (
	Escape    = Special(KeyEscape)
	Enter     = Special(KeyEnter)
	Tab       = Special(KeyTab)
	Backspace = Special(KeyBackspace)
	Delete    = Special(KeyDelete)
	Plug      = Special(KeyPlug)
)

// IsRune reports whether e is a printable key without Ctrl/Alt/Meta.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Modifiers&(ModCtrl|ModAlt|ModMeta) == 0
}

// Char returns the character e types, or 0 when it types none.
// <Tab> and <CR> type '\t' and '\n'.
func (e Event) Char() rune {
	switch {
	case e.IsRune():
		return e.Rune
	case e == Tab:
		return '\t'
	case e == Enter:
		return '\n'
	case e.Key == KeyRune && e.Modifiers == ModCtrl:
		return controlChar(e.Rune)
	}
	return 0
}

// IsDigit reports whether e is an unmodified ASCII digit.
func (e Event) IsDigit() bool {
	return e.IsRune() && e.Rune >= '0' && e.Rune <= '9'
}

// IsClose reports whether e cancels the current input: <Esc>, <C-[> or <C-c>.
func (e Event) IsClose() bool {
	if e == Escape {
		return true
	}
	return e.Key == KeyRune && e.Modifiers == ModCtrl && (e.Rune == '[' || e.Rune == 'c')
}

// String returns the Vim notation of e.
func (e Event) String() string {
	return Format([]Event{e})
}

// controlChar maps a letter to its ASCII control code, as Ctrl-V inserts it.
func controlChar(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r - 'a' + 1
	case r >= '@' && r <= '_':
		return r - '@'
	}
	return 0
}
