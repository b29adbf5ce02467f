package buffer

import "unicode"

func isBlankLine(r Reader, line int) bool {
	return r.LineStartOffset(line) == r.LineEndOffset(line)
}

// FindParagraph returns the offset of the paragraph boundary from offset in
// direction dir. A boundary is an empty line; the buffer's ends count as
// boundaries too.
func FindParagraph(r Reader, offset, dir int) int {
	n := r.LineCount()
	l := r.OffsetToPoint(offset).Line
	if dir > 0 {
		for l < n && isBlankLine(r, l) {
			l++
		}
		for l < n && !isBlankLine(r, l) {
			l++
		}
		if l >= n {
			return r.Len()
		}
		return r.LineStartOffset(l)
	}
	for l >= 0 && isBlankLine(r, l) {
		l--
	}
	for l >= 0 && !isBlankLine(r, l) {
		l--
	}
	if l < 0 {
		return 0
	}
	return r.LineStartOffset(l)
}

// sentenceStarts lists the offsets where sentences begin. A sentence ends
// at '.', '!' or '?' (optionally followed by closing quotes or brackets)
// when whitespace follows; empty lines are sentences of their own.
func sentenceStarts(text string) []int {
	runes := []rune(text)
	byteOff := make([]int, len(runes)+1)
	o := 0
	for i, c := range runes {
		byteOff[i] = o
		o += len(string(c))
	}
	byteOff[len(runes)] = o

	var starts []int
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) && runes[i] != '\n' {
		i++
	}
	starts = append(starts, byteOff[i])
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\n' && i+1 < len(runes) && runes[i+1] == '\n':
			starts = append(starts, byteOff[i+1])
			i++
			continue
		case c == '.' || c == '!' || c == '?':
			j := i + 1
			for j < len(runes) && (runes[j] == ')' || runes[j] == ']' || runes[j] == '"' || runes[j] == '\'') {
				j++
			}
			if j < len(runes) && unicode.IsSpace(runes[j]) {
				for j < len(runes) && unicode.IsSpace(runes[j]) {
					if runes[j] == '\n' && j+1 < len(runes) && runes[j+1] == '\n' {
						break
					}
					j++
				}
				if j < len(runes) {
					starts = append(starts, byteOff[j])
				}
				i = j
				continue
			}
		}
		i++
	}
	return starts
}

// FindSentenceStart returns the start of the next (dir > 0) or previous
// sentence relative to offset.
func FindSentenceStart(r Reader, offset, dir int) int {
	starts := sentenceStarts(r.Text())
	if dir > 0 {
		for _, s := range starts {
			if s > offset {
				return s
			}
		}
		return r.Len()
	}
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] < offset {
			return starts[i]
		}
	}
	return 0
}
