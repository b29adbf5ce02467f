// Package mode implements the modal state machine.
//
// The Machine holds a stack of (Mode, SubMode) pairs whose bottom entry is
// always (Command, None). Temporary excursions such as operator-pending or a
// single Normal command typed from Insert (<C-o>) are pushed on top and
// popped when they end, so the previous state comes back exactly.
//
// Each mode maps to one MappingMode, which selects the key trie and the
// mapping table used to interpret the next key.
package mode
