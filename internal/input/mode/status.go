package mode

import "strings"

// Token returns the short Vim notation of the state, as mode() reports it:
// n, v, V, ^V, s, S, ^S, i, R. Other modes report "n".
func (s State) Token() string {
	switch s.Mode {
	case Visual, InsertVisual:
		return visualToken(s.SubMode, "v", "V", "\x16")
	case Select, InsertSelect:
		return visualToken(s.SubMode, "s", "S", "\x13")
	case Insert:
		return "i"
	case Replace:
		return "R"
	case CmdLine:
		return "c"
	case OpPending:
		return "no"
	}
	return "n"
}

func visualToken(sub SubMode, char, line, block string) string {
	switch sub {
	case LineWise:
		return line
	case BlockWise:
		return block
	}
	return char
}

// Status returns the "show mode" text for the state, empty in Normal mode.
func (s State) Status() string {
	var b strings.Builder
	switch s.Mode {
	case InsertNormal:
		b.WriteString("-- (insert) --")
	case Insert:
		b.WriteString("INSERT")
	case Replace:
		b.WriteString("REPLACE")
	case Visual:
		b.WriteString("-- VISUAL" + subModeSuffix(s.SubMode) + " --")
	case Select:
		b.WriteString("-- SELECT" + subModeSuffix(s.SubMode) + " --")
	case InsertVisual:
		b.WriteString("-- (insert) VISUAL" + subModeSuffix(s.SubMode) + " --")
	case InsertSelect:
		b.WriteString("-- (insert) SELECT" + subModeSuffix(s.SubMode) + " --")
	}
	return b.String()
}

func subModeSuffix(sub SubMode) string {
	switch sub {
	case LineWise:
		return " LINE"
	case BlockWise:
		return " BLOCK"
	}
	return ""
}

// StatusLine combines the mode text with the recording indicator.
// recording is the register being recorded into, or 0.
func StatusLine(s State, showMode bool, recording rune) string {
	var msg string
	if showMode {
		msg = s.Status()
	}
	if recording != 0 {
		if msg != "" {
			msg += " - "
		}
		msg += "recording @" + string(recording)
	}
	return msg
}
