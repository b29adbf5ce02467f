package register

import (
	"strings"

	"github.com/dshills/modal/internal/input/key"
)

// SelectionType describes the shape of register text.
type SelectionType int

const (
	CharacterWise SelectionType = iota
	LineWise
	BlockWise
)

func (t SelectionType) String() string {
	switch t {
	case LineWise:
		return "line"
	case BlockWise:
		return "block"
	default:
		return "char"
	}
}

// Register names with special meaning.
const (
	Unnamed       = '"'
	BlackHole     = '_'
	SmallDelete   = '-'
	LastYank      = '0'
	LastInserted  = '.'
	LastCommand   = ':'
	CurrentFile   = '%'
	LastSearch    = '/'
	ClipboardStar = '*'
	ClipboardPlus = '+'
)

const (
	letters       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits        = "0123456789"
	clipboardRegs = "*+"
	readOnly      = ".:%/"

	valid      = letters + digits + clipboardRegs + readOnly + `"-_`
	writable   = letters + digits + clipboardRegs + `"-_/`
	recordable = letters + digits + `"`
	playback   = recordable + clipboardRegs + ".:/"
)

// IsValid reports whether r names a register.
func IsValid(r rune) bool { return strings.ContainsRune(valid, r) }

// IsReadOnly reports whether yanks and deletes may not target r. "/ is
// written only by searches.
func IsReadOnly(r rune) bool { return strings.ContainsRune(readOnly, r) }

// IsClipboard reports whether r is mirrored to the host clipboard.
func IsClipboard(r rune) bool { return strings.ContainsRune(clipboardRegs, r) }

// IsRecordable reports whether a macro can be recorded into r.
func IsRecordable(r rune) bool { return strings.ContainsRune(recordable, r) }

// IsPlayback reports whether r can be executed with @.
func IsPlayback(r rune) bool { return strings.ContainsRune(playback, r) }

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

func toLower(r rune) rune {
	if isUpper(r) {
		return r + 'a' - 'A'
	}
	return r
}

// Register is the content of one register. Keys is set when the register
// was filled by recording a macro.
type Register struct {
	Name rune
	Type SelectionType
	Text string
	Keys []key.Event
}

// KeySequence returns the register as keystrokes for playback.
func (r Register) KeySequence() []key.Event {
	if r.Keys != nil {
		return key.Clone(r.Keys)
	}
	return key.FromString(r.Text)
}

func (r *Register) appendText(text string) {
	r.Text += text
	if r.Keys != nil {
		r.Keys = append(r.Keys, key.FromString(text)...)
	}
}

func (r *Register) appendKeys(keys []key.Event) {
	if r.Keys == nil {
		r.Keys = key.FromString(r.Text)
	}
	r.Keys = append(r.Keys, keys...)
	r.Text = keysText(r.Keys)
}

// keysText renders recorded keys as register text: plain characters as
// themselves, everything else in key notation.
func keysText(keys []key.Event) string {
	var sb strings.Builder
	for _, e := range keys {
		switch {
		case e.IsRune() && e.Modifiers == key.ModNone:
			sb.WriteRune(e.Rune)
		case e == key.Enter:
			sb.WriteByte('\n')
		case e == key.Tab:
			sb.WriteByte('\t')
		default:
			sb.WriteString(key.Format([]key.Event{e}))
		}
	}
	return sb.String()
}

// guessType treats text ending in a newline as linewise.
func guessType(text string) SelectionType {
	if strings.HasSuffix(text, "\n") {
		return LineWise
	}
	return CharacterWise
}
