package ex

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mark"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/input/vim"
)

// Errors returned by Execute. Their text is what the status line shows.
var (
	ErrUnknownCommand  = errors.New("E492: Not an editor command")
	ErrInvalidArgument = errors.New("E474: Invalid argument")
	ErrNoMapping       = errors.New("E31: No such mapping")
	ErrTrailing        = errors.New("E488: Trailing characters")
	ErrUnknownOption   = errors.New("E518: Unknown option")
	ErrNoScript        = errors.New("E319: No script interpreter")
)

// Script runs script code for :lua.
type Script interface {
	Execute(code string) error
}

// Host is what commands act on.
type Host interface {
	Buffer() buffer.Adapter
	Registers() *register.Group
	Marks() *mark.Group
	Mappings() *keymap.Registry

	// Normal feeds keys as if typed in Normal mode. remap is false for
	// :normal!.
	Normal(keys []key.Event, remap bool) error

	// Option returns the value of an option as text.
	Option(name string) (string, bool)
	SetOption(name, value string) error

	// Script returns the interpreter for :lua, or nil.
	Script() Script

	// Message shows text to the user.
	Message(msg string)
}

// Call is one parsed command line.
type Call struct {
	Name string
	Bang bool
	Args string
}

// HandlerFunc runs a command.
type HandlerFunc func(h Host, c *Call) error

// Command is an ex command.
type Command struct {
	// Name is the full command name.
	Name string

	// MinLen is the shortest accepted abbreviation; 0 means the full name.
	MinLen int

	// Bang is set when the command accepts a trailing '!'.
	Bang bool

	Handler HandlerFunc
}

// Matches reports whether word names c.
func (c *Command) Matches(word string) bool {
	n := c.MinLen
	if n <= 0 || n > len(c.Name) {
		n = len(c.Name)
	}
	return len(word) >= n && strings.HasPrefix(c.Name, word)
}

// Table holds the known commands. It is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{commands: make(map[string]*Command)}
}

// Register adds cmd, replacing a command of the same name.
func (t *Table) Register(cmd *Command) error {
	if cmd == nil || cmd.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmd.Handler == nil {
		return fmt.Errorf("command %q has no handler", cmd.Name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commands[cmd.Name] = cmd
	return nil
}

// RegisterAll adds every command of cmds.
func (t *Table) RegisterAll(cmds []*Command) error {
	for _, c := range cmds {
		if err := t.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes the command called name.
func (t *Table) Unregister(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.commands[name]
	delete(t.commands, name)
	return ok
}

// Lookup finds the command word names. An exact name wins over an
// abbreviation; among abbreviations the shortest name wins.
func (t *Table) Lookup(word string) *Command {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if c, ok := t.commands[word]; ok {
		return c
	}
	var best *Command
	for _, c := range t.commands {
		if !c.Matches(word) {
			continue
		}
		if best == nil || len(c.Name) < len(best.Name) || (len(c.Name) == len(best.Name) && c.Name < best.Name) {
			best = c
		}
	}
	return best
}

// Names returns the command names in order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.commands))
	for name := range t.commands {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Complete returns the names starting with prefix.
func (t *Table) Complete(prefix string) []string {
	var out []string
	for _, name := range t.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// Parse splits a command line into name, bang and arguments. A leading ':'
// and blanks are skipped.
func Parse(line string) (Call, error) {
	line = strings.TrimLeft(line, ": \t")
	if line == "" {
		return Call{}, nil
	}
	i := 0
	if unicode.IsDigit(rune(line[0])) {
		for i < len(line) && unicode.IsDigit(rune(line[i])) {
			i++
		}
		if rest := strings.TrimSpace(line[i:]); rest != "" {
			return Call{}, fmt.Errorf("%w: %s", ErrTrailing, line)
		}
		return Call{Name: line[:i]}, nil
	}
	for i < len(line) && unicode.IsLetter(rune(line[i])) {
		i++
	}
	if i == 0 {
		return Call{}, fmt.Errorf("%w: %s", ErrUnknownCommand, line)
	}
	c := Call{Name: line[:i]}
	rest := line[i:]
	if strings.HasPrefix(rest, "!") {
		c.Bang = true
		rest = rest[1:]
	}
	c.Args = strings.TrimLeft(rest, " \t")
	return c, nil
}

// Execute parses line and runs it against h.
func (t *Table) Execute(h Host, line string) error {
	c, err := Parse(line)
	if err != nil {
		return err
	}
	if c.Name == "" {
		return nil
	}
	if n, err := strconv.Atoi(c.Name); err == nil {
		return gotoLine(h, n)
	}
	cmd := t.Lookup(c.Name)
	if cmd == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, strings.TrimLeft(line, ": \t"))
	}
	if c.Bang && !cmd.Bang {
		return fmt.Errorf("E477: No ! allowed")
	}
	c.Name = cmd.Name
	return cmd.Handler(h, &c)
}

// gotoLine moves to the first non-blank of line n, counted from 1.
func gotoLine(h Host, n int) error {
	buf := h.Buffer()
	line := n - 1
	if line < 0 {
		line = 0
	}
	if last := buf.LineCount() - 1; line > last {
		line = last
	}
	h.Marks().SaveJumpLocation(buf)
	buf.MoveCaret(vim.FirstNonBlank(buf, line))
	return nil
}
