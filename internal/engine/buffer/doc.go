// Package buffer defines the text surface the modal engine edits.
//
// The engine never owns text. It reads and mutates it through Adapter, which
// a host implements over its own document model. Offsets are byte offsets
// into the UTF-8 text; lines and columns are 0-indexed and columns count
// bytes from the line start.
//
// Memory is a complete in-process Adapter used by the terminal front end
// and by tests:
//
//	buf := buffer.NewMemory("hello world", "notes.txt")
//	buf.MoveCaret(6)
//	_ = buf.Delete(0, 6) // "world"
package buffer
