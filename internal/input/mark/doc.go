// Package mark keeps named positions and the jump list.
//
// File marks (a-z and the bookkeeping marks ' ` [ ] < > ^ .) belong to one
// path. Global marks (A-Z, 0-9) are reachable from any buffer and are also
// recorded with the file they point into. Marks track edits: a Group is told
// about every deletion and insertion and moves its marks accordingly.
//
// The jump list holds at most JumpCapacity entries with a cursor that moves
// back and forth for <C-o> and <C-i>.
package mark
