// Package key provides key events and Vim key notation for the modal engine.
//
// An Event is a comparable value: two events are equal exactly when they
// represent the same keystroke, which lets them serve as trie edges and map
// keys. Shift is folded into the rune for printable keys, so "A" is
// Event{Key: KeyRune, Rune: 'A'} with no modifiers, while control chords keep
// a lowercase rune with ModCtrl ("<C-w>").
//
// # Notation
//
// Sequences are written the way Vim mappings are:
//
//   - Plain characters: "dw", "gg", "\"ayy"
//   - Special keys: "<CR>", "<Esc>", "<Tab>", "<BS>", "<Del>", "<Space>"
//   - Chords: "<C-w>", "<A-x>", "<C-S-Up>"
//   - Escapes: "<lt>" for '<', "<Bar>" for '|', "<Bslash>" for '\'
//   - "<Plug>" introduces extension-owned mappings
//
// ParseSequence and Format round-trip.
package key
