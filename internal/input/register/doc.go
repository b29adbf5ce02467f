// Package register implements the register group: named, numbered and
// special text registers, the unnamed register, macro recording and the
// clipboard registers.
//
// Every yank and delete goes through Group.StoreText, which decides which
// registers receive the text:
//
//	"_      black hole, stores nothing
//	"A-"Z   append to "a-"z
//	""      updated by every write except to ". ": and "/
//	"1-"9   multi-line deletes, rotated
//	"-      small deletes through the default register
//	"0      yanks through the default register
//	"* "+   mirrored to the host clipboard
package register
