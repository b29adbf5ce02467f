package register

import (
	"sort"
	"strings"
	"sync"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/logger"
)

// NumberedDeleteMotions names the motions whose deletes always rotate into
// "1, even when they stay within one line.
var NumberedDeleteMotions = map[string]bool{
	"match-pair":      true,
	"sentence-prev":   true,
	"sentence-next":   true,
	"goto-mark":       true,
	"search-forward":  true,
	"search-backward": true,
	"search-next":     true,
	"search-prev":     true,
	"paragraph-next":  true,
	"paragraph-prev":  true,
}

// Store describes one yank or delete.
type Store struct {
	// Start and End bound the stored text as a half-open range.
	Start, End int
	Type       SelectionType
	Delete     bool
	// Motion is the name of the motion that produced the range, if any.
	Motion string
}

// Group holds every register. It is safe for concurrent use.
type Group struct {
	mu         sync.Mutex
	regs       map[rune]*Register
	defaultReg rune
	lastReg    rune
	clipboard  Clipboard
	marks      *mark.Group

	recordReg  rune
	recordKeys []key.Event
}

// NewGroup returns an empty group. marks receives the change marks of each
// store; a nil cb keeps clipboard text in process.
func NewGroup(marks *mark.Group, cb Clipboard) *Group {
	if cb == nil {
		cb = &MemoryClipboard{}
	}
	return &Group{
		regs:       make(map[rune]*Register),
		defaultReg: Unnamed,
		lastReg:    Unnamed,
		clipboard:  cb,
		marks:      marks,
	}
}

// SetClipboardOption applies the 'clipboard' option: "unnamed" makes "*
// the default register and "unnamedplus" makes it "+.
func (g *Group) SetClipboardOption(value string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	switch {
	case strings.Contains(value, "unnamedplus"):
		g.defaultReg = ClipboardPlus
	case strings.Contains(value, "unnamed"):
		g.defaultReg = ClipboardStar
	default:
		g.defaultReg = Unnamed
	}
	g.lastReg = g.defaultReg
}

// DefaultRegister returns the register used when none is selected.
func (g *Group) DefaultRegister() rune {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.defaultReg
}

// CurrentRegister returns the selected register.
func (g *Group) CurrentRegister() rune {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastReg
}

// SelectRegister selects r for the next command.
func (g *Group) SelectRegister(r rune) bool {
	if !IsValid(r) {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastReg = r
	logger.Debug("register selected", "register", string(r))
	return true
}

// ResetRegister selects the default register again.
func (g *Group) ResetRegister() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastReg = g.defaultReg
}

// IsRegisterWritable reports whether the selected register accepts yanks
// and deletes.
func (g *Group) IsRegisterWritable() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !IsReadOnly(g.lastReg)
}

// ResetRegisters forgets all content and the clipboard option.
func (g *Group) ResetRegisters() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.regs = make(map[rune]*Register)
	g.defaultReg = Unnamed
	g.lastReg = Unnamed
}

// StoreText copies s.Start..s.End of buf into the selected register and
// the registers that follow from it. Linewise text always ends in a
// newline.
func (g *Group) StoreText(buf buffer.Reader, s Store) bool {
	if !g.IsRegisterWritable() {
		return false
	}
	start, end := s.Start, s.End
	if start > end {
		start, end = end, start
	}
	text := buf.TextRange(start, end)
	if s.Type == LineWise && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	s.Start, s.End = start, end
	return g.store(buf, s, text)
}

func (g *Group) store(buf buffer.Reader, s Store, text string) bool {
	g.mu.Lock()
	reg := g.lastReg
	if reg == BlackHole {
		g.mu.Unlock()
		return true
	}
	if s.Delete && s.Start == s.End {
		g.mu.Unlock()
		return true
	}

	if isUpper(reg) {
		lower := toLower(reg)
		if r, ok := g.regs[lower]; ok {
			r.appendText(text)
		} else {
			g.regs[lower] = &Register{Name: lower, Type: s.Type, Text: text}
		}
	} else {
		g.regs[reg] = &Register{Name: reg, Type: s.Type, Text: text}
	}
	logger.Debug("register stored", "register", string(reg), "type", s.Type.String())

	if IsClipboard(reg) {
		if err := g.clipboard.WriteAll(text); err != nil {
			logger.Warn("clipboard write failed", "error", err)
		}
	}

	if reg != Unnamed && !strings.ContainsRune(".:/", reg) {
		g.regs[Unnamed] = &Register{Name: Unnamed, Type: s.Type, Text: text}
	}

	if s.Delete {
		small := (s.Type == CharacterWise || s.Type == BlockWise) &&
			buf.OffsetToPoint(s.Start).Line == buf.OffsetToPoint(s.End).Line
		if (!small && reg == g.defaultReg) || NumberedDeleteMotions[s.Motion] {
			g.rotateLocked()
			g.regs['1'] = &Register{Name: '1', Type: s.Type, Text: text}
		}
		if small && reg == g.defaultReg {
			g.regs[SmallDelete] = &Register{Name: SmallDelete, Type: s.Type, Text: text}
		}
	} else if reg == g.defaultReg {
		g.regs[LastYank] = &Register{Name: LastYank, Type: s.Type, Text: text}
	}
	g.mu.Unlock()

	if g.marks != nil {
		g.marks.SetChangeMarks(buf, s.Start, s.End)
	}
	return true
}

// rotateLocked shifts "1-"8 down by one; the old "9 is lost.
func (g *Group) rotateLocked() {
	for d := '8'; d >= '1'; d-- {
		if r, ok := g.regs[d]; ok {
			r.Name = d + 1
			g.regs[d+1] = r
			delete(g.regs, d)
		}
	}
}

// StoreTextSpecial sets a register the user cannot yank into: ". ": "%
// "/ and, for completeness, "".
func (g *Group) StoreTextSpecial(r rune, text string) bool {
	if !IsReadOnly(r) && r != LastSearch && r != Unnamed {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.regs[r] = &Register{Name: r, Type: CharacterWise, Text: text}
	return true
}

// SetText writes text straight into r, as :let @r does. Uppercase names
// append.
func (g *Group) SetText(r rune, text string, typ SelectionType) bool {
	if !strings.ContainsRune(writable, r) {
		return false
	}
	if r == BlackHole {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if isUpper(r) {
		if old, ok := g.regs[toLower(r)]; ok {
			text = old.Text + text
		}
	}
	g.saveLocked(r, &Register{Name: toLower(r), Type: typ, Text: text})
	return true
}

// SaveRegister replaces the content of r.
func (g *Group) SaveRegister(r rune, reg Register) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saveLocked(r, &reg)
}

func (g *Group) saveLocked(r rune, reg *Register) {
	r = toLower(r)
	reg.Name = r
	if IsClipboard(r) {
		if err := g.clipboard.WriteAll(reg.Text); err != nil {
			logger.Warn("clipboard write failed", "error", err)
		}
	}
	g.regs[r] = reg
}

// SetKeys stores keys in r as a macro.
func (g *Group) SetKeys(r rune, keys []key.Event, typ SelectionType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys = key.Clone(keys)
	g.regs[r] = &Register{Name: r, Type: typ, Text: keysText(keys), Keys: keys}
}

// GetRegister returns the content of r. Uppercase names read the lowercase
// register and the clipboard registers are refreshed from the host.
func (g *Group) GetRegister(r rune) (Register, bool) {
	r = toLower(r)
	g.mu.Lock()
	defer g.mu.Unlock()
	if IsClipboard(r) {
		return g.refreshClipboardLocked(r)
	}
	reg, ok := g.regs[r]
	if !ok {
		return Register{}, false
	}
	return copyRegister(reg), true
}

// LastRegister returns the content of the selected register.
func (g *Group) LastRegister() (Register, bool) {
	return g.GetRegister(g.CurrentRegister())
}

// PlaybackRegister returns r for execution with @.
func (g *Group) PlaybackRegister(r rune) (Register, bool) {
	if !IsPlayback(r) {
		return Register{}, false
	}
	return g.GetRegister(r)
}

func (g *Group) refreshClipboardLocked(r rune) (Register, bool) {
	cur, have := g.regs[r]
	text, err := g.clipboard.ReadAll()
	if err != nil || text == "" {
		if have {
			return copyRegister(cur), true
		}
		return Register{}, false
	}
	if have && cur.Text == text {
		return copyRegister(cur), true
	}
	return Register{Name: r, Type: guessType(text), Text: text}, true
}

// Registers returns every non-empty register sorted by name.
func (g *Group) Registers() []Register {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []Register
	for r, reg := range g.regs {
		if IsClipboard(r) {
			continue
		}
		out = append(out, copyRegister(reg))
	}
	for _, r := range clipboardRegs {
		if reg, ok := g.refreshClipboardLocked(r); ok {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return nameRank(out[i].Name) < nameRank(out[j].Name) })
	return out
}

// nameRank orders registers the way :registers lists them.
func nameRank(r rune) int {
	const order = `"0123456789abcdefghijklmnopqrstuvwxyz-*+.:%/`
	if i := strings.IndexRune(order, r); i >= 0 {
		return i
	}
	return len(order) + int(r)
}

func copyRegister(r *Register) Register {
	c := *r
	c.Keys = key.Clone(r.Keys)
	return c
}
