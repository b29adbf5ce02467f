package ex

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
)

// mapCommand describes one of the :map family. bang replaces modes when
// the command is given a '!'.
type mapCommand struct {
	name  string
	min   int
	modes mode.MappingModeSet
	bang  mode.MappingModeSet
}

var (
	mapCommands = []mapCommand{
		{"map", 3, mode.NVO, mode.IC},
		{"nmap", 2, mode.N, 0},
		{"vmap", 2, mode.V, 0},
		{"xmap", 2, mode.X, 0},
		{"smap", 4, mode.S, 0},
		{"omap", 2, mode.O, 0},
		{"imap", 2, mode.I, 0},
		{"cmap", 2, mode.C, 0},
	}
	noremapCommands = []mapCommand{
		{"noremap", 2, mode.NVO, mode.IC},
		{"nnoremap", 2, mode.N, 0},
		{"vnoremap", 2, mode.V, 0},
		{"xnoremap", 2, mode.X, 0},
		{"snoremap", 4, mode.S, 0},
		{"onoremap", 3, mode.O, 0},
		{"inoremap", 3, mode.I, 0},
		{"cnoremap", 3, mode.C, 0},
	}
	unmapCommands = []mapCommand{
		{"unmap", 3, mode.NVO, mode.IC},
		{"nunmap", 3, mode.N, 0},
		{"vunmap", 2, mode.V, 0},
		{"xunmap", 2, mode.X, 0},
		{"sunmap", 4, mode.S, 0},
		{"ounmap", 2, mode.O, 0},
		{"iunmap", 2, mode.I, 0},
		{"cunmap", 2, mode.C, 0},
	}
	mapclearCommands = []mapCommand{
		{"mapclear", 4, mode.NVO, mode.IC},
		{"nmapclear", 5, mode.N, 0},
		{"vmapclear", 5, mode.V, 0},
		{"xmapclear", 5, mode.X, 0},
		{"smapclear", 5, mode.S, 0},
		{"omapclear", 5, mode.O, 0},
		{"imapclear", 5, mode.I, 0},
		{"cmapclear", 5, mode.C, 0},
	}
)

// Builtins returns the built-in commands.
func Builtins() []*Command {
	var out []*Command
	add := func(mc mapCommand, fn func(modes mode.MappingModeSet) HandlerFunc) {
		modes, bang := mc.modes, mc.bang
		out = append(out, &Command{
			Name:   mc.name,
			MinLen: mc.min,
			Bang:   bang != 0,
			Handler: func(h Host, c *Call) error {
				if c.Bang {
					return fn(bang)(h, c)
				}
				return fn(modes)(h, c)
			},
		})
	}
	for _, mc := range mapCommands {
		add(mc, func(m mode.MappingModeSet) HandlerFunc { return mapHandler(m, true) })
	}
	for _, mc := range noremapCommands {
		add(mc, func(m mode.MappingModeSet) HandlerFunc { return mapHandler(m, false) })
	}
	for _, mc := range unmapCommands {
		add(mc, unmapHandler)
	}
	for _, mc := range mapclearCommands {
		add(mc, mapclearHandler)
	}

	out = append(out,
		&Command{Name: "registers", MinLen: 3, Handler: registers},
		&Command{Name: "display", MinLen: 2, Handler: registers},
		&Command{Name: "marks", Handler: marks},
		&Command{Name: "delmarks", MinLen: 4, Bang: true, Handler: delmarks},
		&Command{Name: "normal", MinLen: 4, Bang: true, Handler: normal},
		&Command{Name: "set", MinLen: 2, Handler: set},
		&Command{Name: "let", MinLen: 3, Handler: let},
		&Command{Name: "lua", MinLen: 3, Handler: lua},
	)
	return out
}

// Default returns a table holding the built-in commands.
func Default() *Table {
	t := NewTable()
	// Builtins are well formed.
	_ = t.RegisterAll(Builtins())
	return t
}

// mapArgs is a parsed :map argument list.
type mapArgs struct {
	lhs, rhs string
	hasRHS   bool
	expr     bool
	unique   bool
}

var mapModifiers = []string{"<buffer>", "<nowait>", "<silent>", "<special>", "<script>", "<expr>", "<unique>"}

func parseMapArgs(s string) mapArgs {
	var a mapArgs
	for {
		s = strings.TrimLeft(s, " \t")
		found := false
		for _, m := range mapModifiers {
			if len(s) >= len(m) && strings.EqualFold(s[:len(m)], m) {
				switch m {
				case "<expr>":
					a.expr = true
				case "<unique>":
					a.unique = true
				}
				s = s[len(m):]
				found = true
				break
			}
		}
		if !found {
			break
		}
	}
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		a.lhs = s
		return a
	}
	a.lhs = s[:i]
	a.rhs = strings.TrimLeft(s[i:], " \t")
	a.hasRHS = true
	return a
}

func mapHandler(modes mode.MappingModeSet, recursive bool) HandlerFunc {
	return func(h Host, c *Call) error {
		a := parseMapArgs(c.Args)
		reg := h.Mappings()
		if a.lhs == "" || !a.hasRHS {
			var prefix []key.Event
			if a.lhs != "" {
				keys, err := key.ParseSequence(a.lhs)
				if err != nil {
					return fmt.Errorf("%w: %s", ErrInvalidArgument, a.lhs)
				}
				prefix = keys
			}
			listMappings(h, reg.Mappings(modes, prefix))
			return nil
		}

		from, err := key.ParseSequence(a.lhs)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, a.lhs)
		}
		if a.unique {
			for _, m := range modes.Modes() {
				if reg.Lookup(m, from) != nil {
					return fmt.Errorf("E227: mapping already exists for %s", a.lhs)
				}
			}
		}
		info, err := keymap.ParseInfo(a.rhs, a.expr)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, a.rhs)
		}
		return reg.Put(modes, from, keymap.User, info, recursive)
	}
}

func listMappings(h Host, maps []*keymap.Mapping) {
	if len(maps) == 0 {
		h.Message("No mapping found")
		return
	}
	lines := make([]string, len(maps))
	for i, m := range maps {
		lines[i] = m.String()
	}
	h.Message(strings.Join(lines, "\n"))
}

func unmapHandler(modes mode.MappingModeSet) HandlerFunc {
	return func(h Host, c *Call) error {
		lhs := parseMapArgs(c.Args).lhs
		if lhs == "" {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, c.Name)
		}
		from, err := key.ParseSequence(lhs)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, lhs)
		}
		if err := h.Mappings().Remove(modes, from); err != nil {
			return fmt.Errorf("%w: %s", ErrNoMapping, lhs)
		}
		return nil
	}
}

// mapclearHandler removes the mappings made with the :map commands.
// Mappings of extensions and the options file stay.
func mapclearHandler(modes mode.MappingModeSet) HandlerFunc {
	return func(h Host, c *Call) error {
		if strings.TrimSpace(c.Args) != "" && !strings.EqualFold(strings.TrimSpace(c.Args), "<buffer>") {
			return fmt.Errorf("%w: %s", ErrTrailing, c.Args)
		}
		h.Mappings().Clear(modes, keymap.User)
		return nil
	}
}

func registers(h Host, c *Call) error {
	filter := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, c.Args)

	var lines []string
	for _, r := range h.Registers().Registers() {
		if filter != "" && !strings.ContainsRune(filter, r.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %c  \"%c   %s", typeLetter(r.Type), r.Name, printable(r.Text)))
	}
	if len(lines) == 0 {
		return nil
	}
	h.Message("Type Name Content\n" + strings.Join(lines, "\n"))
	return nil
}

func typeLetter(t register.SelectionType) rune {
	switch t {
	case register.LineWise:
		return 'l'
	case register.BlockWise:
		return 'b'
	}
	return 'c'
}

// printable shows control characters in caret notation.
func printable(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20:
			b.WriteByte('^')
			b.WriteRune(r + '@')
		case r == 0x7f:
			b.WriteString("^?")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func marks(h Host, c *Call) error {
	buf := h.Buffer()
	filter := strings.ReplaceAll(c.Args, " ", "")
	var lines []string
	for _, m := range h.Marks().Marks(buf.Path()) {
		if filter != "" && !strings.ContainsRune(filter, m.Key) {
			continue
		}
		text := m.Path
		if m.Path == buf.Path() && m.Line < buf.LineCount() {
			text = strings.TrimSpace(buf.TextRange(buf.LineStartOffset(m.Line), buf.LineEndOffset(m.Line)))
		}
		lines = append(lines, fmt.Sprintf(" %c %6d %4d %s", m.Key, m.Line+1, m.Col, text))
	}
	if len(lines) == 0 {
		if filter != "" {
			return fmt.Errorf("E283: No marks matching %q", filter)
		}
		return nil
	}
	h.Message("mark line  col file/text\n" + strings.Join(lines, "\n"))
	return nil
}

// delmarks removes marks given as letters and ranges ("a b-d X"), or with
// '!' every lowercase mark of the file.
func delmarks(h Host, c *Call) error {
	path := h.Buffer().Path()
	args := strings.TrimSpace(c.Args)
	if c.Bang {
		if args != "" {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, args)
		}
		for r := 'a'; r <= 'z'; r++ {
			h.Marks().RemoveMark(path, r)
		}
		return nil
	}
	if args == "" {
		return fmt.Errorf("E471: Argument required")
	}
	rs := []rune(strings.ReplaceAll(args, " ", ""))
	for i := 0; i < len(rs); i++ {
		from := rs[i]
		to := from
		if i+2 < len(rs) && rs[i+1] == '-' {
			to = rs[i+2]
			if to < from || !sameClass(from, to) {
				return fmt.Errorf("%w: %c-%c", ErrInvalidArgument, from, to)
			}
			i += 2
		}
		for r := from; r <= to; r++ {
			h.Marks().RemoveMark(path, r)
		}
	}
	return nil
}

func sameClass(a, b rune) bool {
	switch {
	case unicode.IsLower(a):
		return unicode.IsLower(b)
	case unicode.IsUpper(a):
		return unicode.IsUpper(b)
	case unicode.IsDigit(a):
		return unicode.IsDigit(b)
	}
	return false
}

func normal(h Host, c *Call) error {
	if c.Args == "" {
		return nil
	}
	return h.Normal(key.FromString(c.Args), !c.Bang)
}

// set handles name, noname, invname, name!, name?, name=value and
// name:value.
func set(h Host, c *Call) error {
	for _, item := range strings.Fields(c.Args) {
		if err := setOne(h, item); err != nil {
			return err
		}
	}
	return nil
}

func setOne(h Host, item string) error {
	if i := strings.IndexAny(item, "=:"); i > 0 {
		name := item[:i]
		if _, ok := h.Option(name); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownOption, name)
		}
		return h.SetOption(name, item[i+1:])
	}
	if name, ok := strings.CutSuffix(item, "?"); ok {
		return showOption(h, name)
	}
	if name, ok := strings.CutSuffix(item, "!"); ok {
		return toggleOption(h, name)
	}
	if v, ok := h.Option(item); ok {
		if isBool(v) {
			return h.SetOption(item, "true")
		}
		return showOption(h, item)
	}
	if name, ok := strings.CutPrefix(item, "no"); ok {
		if v, ok := h.Option(name); ok && isBool(v) {
			return h.SetOption(name, "false")
		}
	}
	if name, ok := strings.CutPrefix(item, "inv"); ok {
		return toggleOption(h, name)
	}
	return fmt.Errorf("%w: %s", ErrUnknownOption, item)
}

func isBool(v string) bool {
	return v == "true" || v == "false"
}

func showOption(h Host, name string) error {
	v, ok := h.Option(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	switch v {
	case "true":
		h.Message("  " + name)
	case "false":
		h.Message("no" + name)
	default:
		h.Message("  " + name + "=" + v)
	}
	return nil
}

func toggleOption(h Host, name string) error {
	v, ok := h.Option(name)
	if !ok || !isBool(v) {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, name)
	}
	return h.SetOption(name, strconv.FormatBool(v != "true"))
}

// let supports register assignment: let @a = "text" or 'text'.
func let(h Host, c *Call) error {
	s := strings.TrimSpace(c.Args)
	if len(s) < 2 || s[0] != '@' {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, s)
	}
	name := []rune(s[1:])[0]
	rest := strings.TrimSpace(s[1+len(string(name)):])
	value, ok := strings.CutPrefix(rest, "=")
	if !ok {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, s)
	}
	text, err := parseString(strings.TrimSpace(value))
	if err != nil {
		return err
	}

	regs := h.Registers()
	if name == register.LastSearch {
		regs.StoreTextSpecial(name, text)
		return nil
	}
	typ := register.CharacterWise
	if strings.HasSuffix(text, "\n") {
		typ = register.LineWise
	}
	if !regs.SetText(name, text, typ) {
		return fmt.Errorf("E354: Invalid register name: '%c'", name)
	}
	return nil
}

// parseString reads a double quoted string with backslash escapes or a
// single quoted literal where '' is a quote.
func parseString(s string) (string, error) {
	switch {
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		out, err := strconv.Unquote(s)
		if err != nil {
			return "", fmt.Errorf("E114: Missing quote: %s", s)
		}
		return out, nil
	case len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'':
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	}
	return "", fmt.Errorf("E15: Invalid expression: %s", s)
}

func lua(h Host, c *Call) error {
	s := h.Script()
	if s == nil {
		return ErrNoScript
	}
	return s.Execute(c.Args)
}
