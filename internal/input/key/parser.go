package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single keystroke: one character or one <...> term.
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}
	events, err := ParseSequence(spec)
	if err != nil {
		return Event{}, err
	}
	if len(events) != 1 {
		return Event{}, fmt.Errorf("%w: %q is %d keys", ErrInvalidSpec, spec, len(events))
	}
	return events[0], nil
}

// MustParseSequence is ParseSequence for literals known to be valid.
func MustParseSequence(spec string) []Event {
	events, err := ParseSequence(spec)
	if err != nil {
		panic("invalid key sequence " + spec + ": " + err.Error())
	}
	return events
}

// ParseSequence parses Vim key notation into events. A '<' that does not
// open a recognised term is taken literally, as Vim does.
func ParseSequence(spec string) ([]Event, error) {
	if spec == "" {
		return nil, ErrEmptySpec
	}
	events := make([]Event, 0, len(spec))
	for i := 0; i < len(spec); {
		if spec[i] == '<' {
			if end := strings.IndexByte(spec[i+1:], '>'); end > 0 {
				if ev, ok := parseTerm(spec[i+1 : i+1+end]); ok {
					events = append(events, ev)
					i += end + 2
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(spec[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: bad UTF-8 at byte %d", ErrInvalidSpec, i)
		}
		events = append(events, Rune(r))
		i += size
	}
	return events, nil
}

// parseTerm parses the inside of a <...> term.
func parseTerm(term string) (Event, bool) {
	var mods Modifier
	for len(term) > 2 && term[1] == '-' {
		mod, ok := modifierFromLetter(term[0])
		if !ok {
			return Event{}, false
		}
		mods = mods.With(mod)
		term = term[2:]
	}

	if k, r, ok := lookupName(term); ok {
		if k == KeyRune {
			return chord(r, mods), true
		}
		return Event{Key: k, Modifiers: mods}, true
	}

	r, size := utf8.DecodeRuneInString(term)
	if mods == ModNone || size != len(term) {
		return Event{}, false
	}
	return chord(r, mods), true
}

// chord normalises a modified printable key. Shift folds into the rune and
// control chords use the lower-case letter.
func chord(r rune, mods Modifier) Event {
	if mods.Has(ModShift) && unicode.IsLetter(r) {
		r = unicode.ToUpper(r)
		mods &^= ModShift
	}
	if mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Format renders events in Vim notation.
func Format(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		if e.Key == KeyRune && e.Modifiers == ModNone {
			switch e.Rune {
			case '<':
				b.WriteString("<lt>")
			case ' ':
				b.WriteString("<Space>")
			case '|':
				b.WriteString("<Bar>")
			default:
				b.WriteRune(e.Rune)
			}
			continue
		}
		b.WriteByte('<')
		b.WriteString(e.Modifiers.notation())
		if e.Key == KeyRune {
			switch e.Rune {
			case ' ':
				b.WriteString("Space")
			case '<':
				b.WriteString("lt")
			default:
				b.WriteRune(e.Rune)
			}
		} else {
			b.WriteString(e.Key.String())
		}
		b.WriteByte('>')
	}
	return b.String()
}
