package key

// Modifier is a set of chord modifiers.
type Modifier uint8

const (
	ModNone Modifier = 0

	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// notation returns the Vim chord prefix, e.g. "C-S-".
func (m Modifier) notation() string {
	var s string
	if m.Has(ModCtrl) {
		s += "C-"
	}
	if m.Has(ModAlt) {
		s += "A-"
	}
	if m.Has(ModMeta) {
		s += "D-"
	}
	if m.Has(ModShift) {
		s += "S-"
	}
	return s
}

func modifierFromLetter(c byte) (Modifier, bool) {
	switch c {
	case 'c', 'C':
		return ModCtrl, true
	case 'a', 'A', 'm', 'M':
		return ModAlt, true
	case 'd', 'D':
		return ModMeta, true
	case 's', 'S':
		return ModShift, true
	}
	return ModNone, false
}
