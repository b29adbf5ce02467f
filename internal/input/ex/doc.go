// Package ex runs command lines typed after ':'.
//
// A Table maps command names to handlers. Names may be abbreviated down to
// the length each command declares, so ":nno" and ":nnoremap" are the same
// command. The built-in table covers the mapping commands, register and
// mark listings, :normal, :set, :let and :lua.
//
// Commands act on a Host, which the input engine implements for the
// editor the command line belongs to.
package ex
