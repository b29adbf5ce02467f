// Package digraph implements digraph and literal character entry.
//
// A Sequence is fed keys while the user types <C-k>{a}{b}, {a}<BS>{b} (with
// the 'digraph' option) or <C-v>/<C-q> followed by a character or a
// numeric code:
//
//	<C-v>065   decimal, three digits
//	<C-v>o101  octal, three digits
//	<C-v>x41   hex, two digits
//	<C-v>u20ac hex, four digits
//	<C-v>U0001f600 hex, eight digits
//
// Fewer digits may be given; the first key that is not a digit of the
// code ends it and is then handled normally.
package digraph
