package action

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

func motion(name string, flags vim.Flags, fn vim.MotionFunc) *vim.Handler {
	return &vim.Handler{Name: name, Kind: vim.KindMotion, Type: vim.TypeMotion, Flags: flags, Motion: fn}
}

func motionBindings() []Binding {
	var out []Binding
	add := func(h *vim.Handler, keys ...string) {
		out = append(out, bind(mode.NVO, h, keys...)...)
	}

	add(motion("char-left", 0, charLeft), "h", "<Left>", "<BS>")
	add(motion("char-right", 0, charRight), "l", "<Right>", "<Space>")
	add(motion("line-down", vim.FlagMotionLinewise, lineDown), "j", "<Down>", "<C-n>")
	add(motion("line-up", vim.FlagMotionLinewise, lineUp), "k", "<Up>", "<C-p>")
	add(motion("word-next", 0, wordNext(false)), "w")
	add(motion("bigword-next", 0, wordNext(true)), "W")
	add(motion("word-prev", 0, wordPrev(false)), "b")
	add(motion("bigword-prev", 0, wordPrev(true)), "B")
	add(motion("word-end", vim.FlagMotionInclusive, wordEndMotion(false)), "e")
	add(motion("bigword-end", vim.FlagMotionInclusive, wordEndMotion(true)), "E")
	add(motion("line-start", 0, lineStart), "0", "<Home>")
	add(motion("first-non-blank", 0, firstNonBlank), "^")
	add(motion("line-end", vim.FlagMotionInclusive, lineEnd), "$", "<End>")
	add(motion(NameCurrentLine, vim.FlagMotionLinewise, currentLine), "_")
	add(motion("goto-first-line", vim.FlagMotionLinewise|vim.FlagSaveJump, gotoLine(true)), "gg")
	add(motion("goto-last-line", vim.FlagMotionLinewise|vim.FlagSaveJump, gotoLine(false)), "G")
	add(motion("match-pair", vim.FlagMotionInclusive|vim.FlagSaveJump, matchPair), "%")
	add(motion("paragraph-prev", vim.FlagSaveJump, paragraph(-1)), "{")
	add(motion("paragraph-next", vim.FlagSaveJump, paragraph(1)), "}")
	add(motion("sentence-prev", vim.FlagSaveJump, sentence(-1)), "(")
	add(motion("sentence-next", vim.FlagSaveJump, sentence(1)), ")")
	add(motion("repeat-find", 0, repeatFind(false)), ";")
	add(motion("repeat-find-reverse", 0, repeatFind(true)), ",")
	add(motion("search-next", vim.FlagSaveJump, searchAgain(false)), "n")
	add(motion("search-prev", vim.FlagSaveJump, searchAgain(true)), "N")

	charMotion := func(name string, flags vim.Flags, fn vim.MotionFunc) *vim.Handler {
		h := motion(name, flags, fn)
		h.Argument = vim.ArgDigraph
		return h
	}
	add(charMotion("find-char", vim.FlagMotionInclusive, findChar(true, false)), "f")
	add(charMotion("find-char-backward", 0, findChar(false, false)), "F")
	add(charMotion("till-char", vim.FlagMotionInclusive, findChar(true, true)), "t")
	add(charMotion("till-char-backward", 0, findChar(false, true)), "T")

	markMotion := func(name string, flags vim.Flags, linewise bool) *vim.Handler {
		h := motion(name, flags|vim.FlagSaveJump, gotoMark(linewise))
		h.Argument = vim.ArgCharacter
		return h
	}
	add(markMotion("goto-mark-line", vim.FlagMotionLinewise, true), "'")
	add(markMotion("goto-mark", 0, false), "`")

	searchMotion := func(name string, backward bool) *vim.Handler {
		h := motion(name, vim.FlagSaveJump, search(backward))
		h.Argument = vim.ArgExString
		return h
	}
	add(searchMotion(NameSearchForward, false), "/")
	add(searchMotion(NameSearchBack, true), "?")
	return out
}

// message shows msg when the context has an editor.
func message(ctx *vim.Context, msg string) {
	if ctx.Editor != nil {
		ctx.Editor.Message(msg)
	}
}

func lineOf(buf buffer.Reader, off int) int {
	return buf.OffsetToPoint(off).Line
}

func clampLine(buf buffer.Reader, line int) int {
	if line < 0 {
		return 0
	}
	if n := buf.LineCount(); line >= n {
		return n - 1
	}
	return line
}

func charLeft(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	buf := ctx.Buffer
	start := buf.Caret()
	off := start
	for i := 0; i < cmd.Count(); i++ {
		p := buf.PrevCharOffset(off)
		if p == off {
			break
		}
		off = p
	}
	return off, off != start
}

// charRight stops on the last character of the line unless an operator
// wants the range up to the line end.
func charRight(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	buf := ctx.Buffer
	start := buf.Caret()
	end := buf.LineEndOffset(lineOf(buf, start))
	off := start
	for i := 0; i < cmd.Count(); i++ {
		n := buf.NextCharOffset(off)
		if n == off || (ctx.Operator == nil && n >= end) {
			break
		}
		off = n
	}
	return off, off != start
}

func moveLines(ctx *vim.Context, delta int) (int, bool) {
	buf := ctx.Buffer
	p := buf.OffsetToPoint(buf.Caret())
	line := clampLine(buf, p.Line+delta)
	if line == p.Line {
		return 0, false
	}
	return buf.PointToOffset(buffer.Point{Line: line, Column: p.Column}), true
}

func lineDown(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	return moveLines(ctx, cmd.Count())
}

func lineUp(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	return moveLines(ctx, -cmd.Count())
}

// wordNext moves to the start of the next word. Under an operator the
// range stops at the end of the line the last word is on, and cw changes
// to the end of the word like ce.
func wordNext(big bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		buf := ctx.Buffer
		text := buf.Text()
		caret := buf.Caret()
		if ctx.Operator != nil && ctx.Operator.Name() == NameChange && !unicode.IsSpace(runeAt(text, caret)) {
			cmd.Flags |= vim.FlagMotionInclusive
			off := currentWordEnd(text, caret, big)
			for i := 1; i < cmd.Count(); i++ {
				off = wordEnd(text, off, big)
			}
			return off, true
		}
		cmd.Flags &^= vim.FlagMotionInclusive

		off, prev := caret, caret
		for i := 0; i < cmd.Count(); i++ {
			prev = off
			off = nextWordStart(text, off, big)
		}
		if ctx.Operator != nil {
			if pl := lineOf(buf, prev); lineOf(buf, off) > pl {
				off = buf.LineEndOffset(pl)
			}
		}
		return off, off != caret
	}
}

func wordPrev(big bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		text := ctx.Buffer.Text()
		caret := ctx.Buffer.Caret()
		off := caret
		for i := 0; i < cmd.Count(); i++ {
			off = prevWordStart(text, off, big)
		}
		return off, off != caret
	}
}

func wordEndMotion(big bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		text := ctx.Buffer.Text()
		caret := ctx.Buffer.Caret()
		off := caret
		for i := 0; i < cmd.Count(); i++ {
			off = wordEnd(text, off, big)
		}
		return off, off != caret
	}
}

func lineStart(ctx *vim.Context, _ *vim.Command) (int, bool) {
	buf := ctx.Buffer
	return buf.LineStartOffset(lineOf(buf, buf.Caret())), true
}

func firstNonBlank(ctx *vim.Context, _ *vim.Command) (int, bool) {
	buf := ctx.Buffer
	return vim.FirstNonBlank(buf, lineOf(buf, buf.Caret())), true
}

// lineEnd moves to the last character of the line count-1 lines down. On
// an empty line an operator gets an empty range.
func lineEnd(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	buf := ctx.Buffer
	line := clampLine(buf, lineOf(buf, buf.Caret())+cmd.Count()-1)
	start, end := buf.LineStartOffset(line), buf.LineEndOffset(line)
	if start == end {
		cmd.Flags &^= vim.FlagMotionInclusive
		return start, true
	}
	cmd.Flags |= vim.FlagMotionInclusive
	return buf.PrevCharOffset(end), true
}

func currentLine(ctx *vim.Context, cmd *vim.Command) (int, bool) {
	buf := ctx.Buffer
	line := clampLine(buf, lineOf(buf, buf.Caret())+cmd.Count()-1)
	return vim.FirstNonBlank(buf, line), true
}

// gotoLine goes to the line given by the count, or to the first or last
// line without one.
func gotoLine(first bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		buf := ctx.Buffer
		line := 0
		switch {
		case cmd.RawCount > 0:
			line = cmd.RawCount - 1
		case !first:
			line = buf.LineCount() - 1
		}
		return vim.FirstNonBlank(buf, clampLine(buf, line)), true
	}
}

// matchPair jumps from the first bracket at or after the caret on its line
// to the bracket matching it.
func matchPair(ctx *vim.Context, _ *vim.Command) (int, bool) {
	buf := ctx.Buffer
	text := buf.Text()
	caret := buf.Caret()
	end := buf.LineEndOffset(lineOf(buf, caret))
	for off := caret; off < end; off = nextRune(text, off) {
		if _, _, ok := matchingBracketFor(runeAt(text, off)); ok {
			return findMatchingBracket(text, off)
		}
	}
	return 0, false
}

func paragraph(dir int) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		buf := ctx.Buffer
		caret := buf.Caret()
		off := caret
		for i := 0; i < cmd.Count(); i++ {
			off = buffer.FindParagraph(buf, off, dir)
		}
		return off, off != caret
	}
}

func sentence(dir int) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		buf := ctx.Buffer
		caret := buf.Caret()
		off := caret
		for i := 0; i < cmd.Count(); i++ {
			off = buffer.FindSentenceStart(buf, off, dir)
		}
		return off, off != caret
	}
}

func findChar(forward, till bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		if cmd.Argument == nil {
			return 0, false
		}
		ctx.Search.FindChar = cmd.Argument.Char
		ctx.Search.FindName = cmd.Name()
		return findCharOnLine(ctx.Buffer, cmd.Argument.Char, forward, till, cmd.Count(), false)
	}
}

// repeatFind repeats the last f, F, t or T, in the other direction when
// reverse is set.
func repeatFind(reverse bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		s := ctx.Search
		if s.FindChar == 0 {
			return 0, false
		}
		forward := s.FindName == "find-char" || s.FindName == "till-char"
		till := strings.HasPrefix(s.FindName, "till")
		if reverse {
			forward = !forward
		}
		if forward {
			cmd.Flags |= vim.FlagMotionInclusive
		} else {
			cmd.Flags &^= vim.FlagMotionInclusive
		}
		return findCharOnLine(ctx.Buffer, s.FindChar, forward, till, cmd.Count(), true)
	}
}

// findCharOnLine finds the count-th ch on the caret line. A repeated till
// skips the character right next to the caret.
func findCharOnLine(buf buffer.Adapter, ch rune, forward, till bool, count int, repeat bool) (int, bool) {
	caret := buf.Caret()
	line := lineOf(buf, caret)
	start := buf.LineStartOffset(line)
	text := buf.TextRange(start, buf.LineEndOffset(line))
	pos := caret - start
	needle := string(ch)

	if forward {
		for i := 0; i < count; i++ {
			from := nextRune(text, pos)
			if till && repeat && i == 0 && from < len(text) && runeAt(text, from) == ch {
				from = nextRune(text, from)
			}
			idx := strings.Index(text[from:], needle)
			if idx < 0 {
				return 0, false
			}
			pos = from + idx
		}
		if till {
			pos = prevRune(text, pos)
		}
		return start + pos, true
	}

	for i := 0; i < count; i++ {
		to := pos
		if till && repeat && i == 0 {
			if p := prevRune(text, pos); p < pos && runeAt(text, p) == ch {
				to = p
			}
		}
		idx := strings.LastIndex(text[:to], needle)
		if idx < 0 {
			return 0, false
		}
		pos = idx
	}
	if till {
		pos = nextRune(text, pos)
	}
	return start + pos, true
}

// gotoMark moves to a mark of the current file.
func gotoMark(linewise bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		if cmd.Argument == nil {
			return 0, false
		}
		buf := ctx.Buffer
		m, ok := ctx.Marks.GetMark(buf, cmd.Argument.Char)
		if !ok {
			message(ctx, "E20: Mark not set")
			return 0, false
		}
		if m.Path != buf.Path() {
			message(ctx, "E20: Mark not set in this file")
			return 0, false
		}
		off := mark.Offset(buf, m)
		if linewise {
			off = vim.FirstNonBlank(buf, lineOf(buf, off))
		}
		return off, true
	}
}

// search runs the pattern typed after / or ?. An empty pattern repeats the
// last one.
func search(backward bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		pattern := ""
		if cmd.Argument != nil {
			pattern = cmd.Argument.Text
		}
		if pattern == "" {
			pattern = ctx.Search.Pattern
		}
		if pattern == "" {
			message(ctx, "E35: No previous regular expression")
			return 0, false
		}
		ctx.Search.Pattern = pattern
		ctx.Search.Backward = backward
		ctx.Registers.StoreTextSpecial(register.LastSearch, pattern)
		return searchFrom(ctx, pattern, backward, cmd.Count())
	}
}

func searchAgain(reverse bool) vim.MotionFunc {
	return func(ctx *vim.Context, cmd *vim.Command) (int, bool) {
		if ctx.Search.Pattern == "" {
			message(ctx, "E35: No previous regular expression")
			return 0, false
		}
		backward := ctx.Search.Backward
		if reverse {
			backward = !backward
		}
		return searchFrom(ctx, ctx.Search.Pattern, backward, cmd.Count())
	}
}

// searchFrom finds the count-th match of pattern from the caret, wrapping
// around the buffer ends.
func searchFrom(ctx *vim.Context, pattern string, backward bool, count int) (int, bool) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		message(ctx, "E486: Invalid pattern: "+pattern)
		return 0, false
	}
	matches := re.FindAllStringIndex(ctx.Buffer.Text(), -1)
	if len(matches) == 0 {
		message(ctx, "E486: Pattern not found: "+pattern)
		return 0, false
	}
	off := ctx.Buffer.Caret()
	for i := 0; i < count; i++ {
		off = nextMatch(matches, off, backward)
	}
	return off, true
}

func nextMatch(matches [][]int, off int, backward bool) int {
	if backward {
		for i := len(matches) - 1; i >= 0; i-- {
			if matches[i][0] < off {
				return matches[i][0]
			}
		}
		return matches[len(matches)-1][0]
	}
	for _, m := range matches {
		if m[0] > off {
			return m[0]
		}
	}
	return matches[0][0]
}
