package action

import (
	"unicode"
	"unicode/utf8"
)

// Character classes for word motions.
const (
	classSpace = iota
	classPunct
	classWord
)

// charClass returns the class of r. A WORD (big) is any run of non-blank
// characters.
func charClass(r rune, big bool) int {
	switch {
	case unicode.IsSpace(r):
		return classSpace
	case big:
		return classWord
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	}
	return classPunct
}

func runeAt(text string, off int) rune {
	if off < 0 || off >= len(text) {
		return '\n'
	}
	r, _ := utf8.DecodeRuneInString(text[off:])
	return r
}

func nextRune(text string, off int) int {
	if off >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[off:])
	return off + size
}

func prevRune(text string, off int) int {
	if off <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:off])
	return off - size
}

// isEmptyLineAt reports whether off is the newline of an empty line.
func isEmptyLineAt(text string, off int) bool {
	return off < len(text) && text[off] == '\n' && (off == 0 || text[off-1] == '\n')
}

// nextWordStart finds the start of the next word after off. An empty line
// counts as a word.
func nextWordStart(text string, off int, big bool) int {
	n := len(text)
	if off >= n {
		return n
	}
	c := charClass(runeAt(text, off), big)
	off = nextRune(text, off)
	if c != classSpace {
		for off < n && charClass(runeAt(text, off), big) == c {
			off = nextRune(text, off)
		}
	}
	for off < n {
		if isEmptyLineAt(text, off) {
			return off
		}
		if !unicode.IsSpace(runeAt(text, off)) {
			break
		}
		off = nextRune(text, off)
	}
	return off
}

// prevWordStart finds the start of the word before off.
func prevWordStart(text string, off int, big bool) int {
	if off <= 0 {
		return 0
	}
	off = prevRune(text, off)
	for off > 0 && unicode.IsSpace(runeAt(text, off)) {
		if isEmptyLineAt(text, off) {
			return off
		}
		off = prevRune(text, off)
	}
	c := charClass(runeAt(text, off), big)
	for off > 0 {
		p := prevRune(text, off)
		if charClass(runeAt(text, p), big) != c {
			break
		}
		off = p
	}
	return off
}

// wordEnd finds the last character of the word at or after the character
// following off.
func wordEnd(text string, off int, big bool) int {
	n := len(text)
	off = nextRune(text, off)
	for off < n && unicode.IsSpace(runeAt(text, off)) {
		off = nextRune(text, off)
	}
	if off >= n {
		return prevRune(text, n)
	}
	return currentWordEnd(text, off, big)
}

// currentWordEnd finds the last character of the run of off's class.
func currentWordEnd(text string, off int, big bool) int {
	c := charClass(runeAt(text, off), big)
	for {
		next := nextRune(text, off)
		if next >= len(text) || charClass(runeAt(text, next), big) != c || runeAt(text, next) == '\n' {
			return off
		}
		off = next
	}
}

// matchingBracketFor returns the bracket matching r and whether r opens.
func matchingBracketFor(r rune) (rune, bool, bool) {
	switch r {
	case '(':
		return ')', true, true
	case ')':
		return '(', false, true
	case '[':
		return ']', true, true
	case ']':
		return '[', false, true
	case '{':
		return '}', true, true
	case '}':
		return '{', false, true
	}
	return 0, false, false
}

// findMatchingBracket finds the bracket that pairs with the one at off.
func findMatchingBracket(text string, off int) (int, bool) {
	bracket := runeAt(text, off)
	match, forward, ok := matchingBracketFor(bracket)
	if !ok {
		return 0, false
	}
	depth := 1
	if forward {
		for i := nextRune(text, off); i < len(text); i = nextRune(text, i) {
			switch runeAt(text, i) {
			case bracket:
				depth++
			case match:
				depth--
				if depth == 0 {
					return i, true
				}
			}
		}
		return 0, false
	}
	for i := off; i > 0; {
		i = prevRune(text, i)
		switch runeAt(text, i) {
		case bracket:
			depth++
		case match:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// findEnclosing finds the open bracket enclosing off and its match. The
// caret on either bracket counts as inside.
func findEnclosing(text string, off int, openCh, closeCh rune) (int, int, bool) {
	start := -1
	switch runeAt(text, off) {
	case openCh:
		start = off
	case closeCh:
		if m, ok := findMatchingBracket(text, off); ok {
			return m, off, true
		}
		return 0, 0, false
	}
	if start < 0 {
		depth := 0
		for i := off; i > 0; {
			i = prevRune(text, i)
			r := runeAt(text, i)
			if r == closeCh {
				depth++
			} else if r == openCh {
				if depth == 0 {
					start = i
					break
				}
				depth--
			}
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	end, ok := findMatchingBracket(text, start)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}
