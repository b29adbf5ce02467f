package key

import "github.com/gdamore/tcell/v2"

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyEscape:     KeyEscape,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPageUp,
	tcell.KeyPgDn:       KeyPageDown,
	tcell.KeyUp:         KeyUp,
	tcell.KeyDown:       KeyDown,
	tcell.KeyLeft:       KeyLeft,
	tcell.KeyRight:      KeyRight,
	tcell.KeyF1:         KeyF1,
	tcell.KeyF2:         KeyF2,
	tcell.KeyF3:         KeyF3,
	tcell.KeyF4:         KeyF4,
	tcell.KeyF5:         KeyF5,
	tcell.KeyF6:         KeyF6,
	tcell.KeyF7:         KeyF7,
	tcell.KeyF8:         KeyF8,
	tcell.KeyF9:         KeyF9,
	tcell.KeyF10:        KeyF10,
	tcell.KeyF11:        KeyF11,
	tcell.KeyF12:        KeyF12,
}

// FromTcell converts a terminal key event. The second result is false for
// keys the engine has no notation for.
func FromTcell(ev *tcell.EventKey) (Event, bool) {
	mods := fromTcellMods(ev.Modifiers())

	if ev.Key() == tcell.KeyRune {
		return chord(ev.Rune(), mods), true
	}
	if k, ok := tcellKeys[ev.Key()]; ok {
		return Event{Key: k, Modifiers: mods}, true
	}
	if ev.Key() >= tcell.KeyCtrlA && ev.Key() <= tcell.KeyCtrlZ {
		return Ctrl(rune('a' + ev.Key() - tcell.KeyCtrlA)), true
	}
	switch ev.Key() {
	case tcell.KeyCtrlRightSq:
		return Ctrl(']'), true
	case tcell.KeyCtrlBackslash:
		return Ctrl('\\'), true
	case tcell.KeyCtrlCarat:
		return Ctrl('^'), true
	case tcell.KeyCtrlUnderscore:
		return Ctrl('_'), true
	case tcell.KeyCtrlSpace:
		return Event{Key: KeyRune, Rune: ' ', Modifiers: ModCtrl}, true
	}
	return Event{}, false
}

func fromTcellMods(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
