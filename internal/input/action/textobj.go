package action

import (
	"unicode"

	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

func textObject(name string, fn vim.TextObjectFunc) *vim.Handler {
	return &vim.Handler{Name: name, Kind: vim.KindTextObject, Type: vim.TypeMotion, TextObject: fn}
}

func textObjectBindings() []Binding {
	modes := mode.X | mode.O
	var out []Binding
	add := func(h *vim.Handler, keys ...string) {
		out = append(out, bind(modes, h, keys...)...)
	}

	add(textObject("inner-word", wordObject(false, false)), "iw")
	add(textObject("a-word", wordObject(false, true)), "aw")
	add(textObject("inner-bigword", wordObject(true, false)), "iW")
	add(textObject("a-bigword", wordObject(true, true)), "aW")
	add(textObject("inner-paragraph", paragraphObject(false)), "ip")
	add(textObject("a-paragraph", paragraphObject(true)), "ap")

	brackets := []struct {
		name        string
		open, close rune
		keys        []string
	}{
		{"paren", '(', ')', []string{"(", ")", "b"}},
		{"brace", '{', '}', []string{"{", "}", "B"}},
		{"bracket", '[', ']', []string{"[", "]"}},
	}
	for _, b := range brackets {
		inner := textObject("inner-"+b.name, bracketObject(b.open, b.close, false))
		around := textObject("a-"+b.name, bracketObject(b.open, b.close, true))
		for _, k := range b.keys {
			add(inner, "i"+k)
			add(around, "a"+k)
		}
	}

	quotes := []struct {
		name string
		q    rune
		key  string
	}{
		{"double-quote", '"', `"`},
		{"single-quote", '\'', "'"},
		{"backtick", '`', "`"},
	}
	for _, q := range quotes {
		add(textObject("inner-"+q.name, quoteObject(q.q, false)), "i"+q.key)
		add(textObject("a-"+q.name, quoteObject(q.q, true)), "a"+q.key)
	}
	return out
}

// wordObject selects the run of characters of the caret's class. around
// adds the blanks after it, or before it when there are none after.
func wordObject(big, around bool) vim.TextObjectFunc {
	return func(ctx *vim.Context, count int) (vim.Range, bool) {
		buf := ctx.Buffer
		line := lineOf(buf, buf.Caret())
		ls := buf.LineStartOffset(line)
		text := buf.TextRange(ls, buf.LineEndOffset(line))
		if text == "" {
			return vim.Range{}, false
		}
		pos := buf.Caret() - ls
		if pos >= len(text) {
			pos = prevRune(text, len(text))
		}

		start := runStart(text, pos, big)
		end := runEnd(text, pos, big)
		for i := 1; i < count && end < len(text); i++ {
			end = runEnd(text, end, big)
		}
		if around {
			if end < len(text) && unicode.IsSpace(runeAt(text, end)) {
				end = runEnd(text, end, big)
			} else {
				for start > 0 && unicode.IsSpace(runeAt(text, prevRune(text, start))) {
					start = prevRune(text, start)
				}
			}
		}
		return vim.Range{Start: ls + start, End: ls + end, Type: register.CharacterWise}, true
	}
}

func runStart(text string, off int, big bool) int {
	c := charClass(runeAt(text, off), big)
	for off > 0 && charClass(runeAt(text, prevRune(text, off)), big) == c {
		off = prevRune(text, off)
	}
	return off
}

// runEnd returns the offset just past the run of off's class.
func runEnd(text string, off int, big bool) int {
	if off >= len(text) {
		return len(text)
	}
	c := charClass(runeAt(text, off), big)
	for off < len(text) && charClass(runeAt(text, off), big) == c {
		off = nextRune(text, off)
	}
	return off
}

// bracketObject selects the text inside the brackets around the caret;
// around includes the brackets. A count selects enclosing pairs further
// out.
func bracketObject(openCh, closeCh rune, around bool) vim.TextObjectFunc {
	return func(ctx *vim.Context, count int) (vim.Range, bool) {
		text := ctx.Buffer.Text()
		off := ctx.Buffer.Caret()
		var start, end int
		for i := 0; i < count; i++ {
			s, e, ok := findEnclosing(text, off, openCh, closeCh)
			if !ok {
				return vim.Range{}, false
			}
			start, end = s, e
			if s == 0 {
				break
			}
			off = prevRune(text, s)
		}
		if around {
			return vim.Range{Start: start, End: nextRune(text, end), Type: register.CharacterWise}, true
		}
		return vim.Range{Start: nextRune(text, start), End: end, Type: register.CharacterWise}, true
	}
}

// quoteObject selects a quoted string on the caret line. Quotes pair up
// from the start of the line.
func quoteObject(q rune, around bool) vim.TextObjectFunc {
	return func(ctx *vim.Context, _ int) (vim.Range, bool) {
		buf := ctx.Buffer
		line := lineOf(buf, buf.Caret())
		ls := buf.LineStartOffset(line)
		text := buf.TextRange(ls, buf.LineEndOffset(line))
		pos := buf.Caret() - ls

		var quotes []int
		for i, r := range text {
			if r == q && (i == 0 || text[i-1] != '\\') {
				quotes = append(quotes, i)
			}
		}
		for i := 0; i+1 < len(quotes); i += 2 {
			open, closing := quotes[i], quotes[i+1]
			if pos > closing {
				continue
			}
			if around {
				end := closing + 1
				for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
					end++
				}
				return vim.Range{Start: ls + open, End: ls + end, Type: register.CharacterWise}, true
			}
			return vim.Range{Start: ls + open + 1, End: ls + closing, Type: register.CharacterWise}, true
		}
		return vim.Range{}, false
	}
}

// paragraphObject selects the lines of the paragraph, or of the run of
// blank lines, the caret is on. around adds the blank lines after it.
func paragraphObject(around bool) vim.TextObjectFunc {
	return func(ctx *vim.Context, count int) (vim.Range, bool) {
		buf := ctx.Buffer
		n := buf.LineCount()
		blank := func(l int) bool { return buf.LineStartOffset(l) == buf.LineEndOffset(l) }

		first := lineOf(buf, buf.Caret())
		kind := blank(first)
		for first > 0 && blank(first-1) == kind {
			first--
		}
		last := first
		for i := 0; i < count; i++ {
			if i > 0 {
				if last+1 >= n {
					return vim.Range{}, false
				}
				last++
				kind = blank(last)
			}
			for last+1 < n && blank(last+1) == kind {
				last++
			}
			if around && !kind {
				for last+1 < n && blank(last+1) {
					last++
				}
			}
		}
		return vim.LineRange(buf, first, last), true
	}
}
