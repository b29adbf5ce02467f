package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/input/mode"
)

// actionPrefix starts a right hand side that names a host action:
// <Action>(editor.save).
const actionPrefix = "<Action>("

// ErrInvalidModes is returned for an unknown mode string.
var ErrInvalidModes = errors.New("invalid mapping modes")

// Entry is a mapping as written in an options file.
type Entry struct {
	// Modes uses the letters of the :map commands: "" or "nvo" for
	// :map, "n", "v", "x", "s", "o", "i", "c", "!" for :map!.
	Modes   string `toml:"modes" yaml:"modes"`
	LHS     string `toml:"lhs" yaml:"lhs"`
	RHS     string `toml:"rhs" yaml:"rhs"`
	Noremap bool   `toml:"noremap" yaml:"noremap"`
	Expr    bool   `toml:"expr" yaml:"expr"`
}

// ParseModes converts mode letters to a set. Letters combine, so "nx"
// is normal and visual.
func ParseModes(s string) (mode.MappingModeSet, error) {
	if s == "" {
		return mode.NVO, nil
	}
	var set mode.MappingModeSet
	for _, c := range s {
		switch c {
		case 'n':
			set |= mode.N
		case 'v':
			set |= mode.V
		case 'x':
			set |= mode.X
		case 's':
			set |= mode.S
		case 'o':
			set |= mode.O
		case 'i':
			set |= mode.I
		case 'c':
			set |= mode.C
		case '!':
			set |= mode.IC
		case ' ':
		default:
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidModes)
		}
	}
	return set, nil
}

// ParseInfo builds the right hand side of a mapping from its text. When
// expr is set the text is a script expression; <Action>(name) names a
// host action; anything else is key notation. An empty rhs is <Nop>.
func ParseInfo(rhs string, expr bool) (Info, error) {
	switch {
	case expr:
		return ToExpression(rhs), nil
	case strings.HasPrefix(rhs, actionPrefix) && strings.HasSuffix(rhs, ")"):
		name := rhs[len(actionPrefix) : len(rhs)-1]
		if name == "" {
			return Info{}, fmt.Errorf("%q: %w", rhs, key.ErrInvalidSpec)
		}
		return ToAction(name), nil
	case rhs == "" || strings.EqualFold(rhs, "<Nop>"):
		return ToKeys(nil), nil
	}
	keys, err := key.ParseSequence(rhs)
	if err != nil {
		return Info{}, err
	}
	return ToKeys(keys), nil
}

// Apply registers e in r under owner.
func (e Entry) Apply(r *Registry, owner Owner) error {
	modes, err := ParseModes(e.Modes)
	if err != nil {
		return err
	}
	from, err := key.ParseSequence(e.LHS)
	if err != nil {
		return fmt.Errorf("lhs %q: %w", e.LHS, err)
	}
	info, err := ParseInfo(e.RHS, e.Expr)
	if err != nil {
		return fmt.Errorf("rhs %q: %w", e.RHS, err)
	}
	return r.Put(modes, from, owner, info, !e.Noremap)
}

// Load replaces the mappings of owner with entries. Entries that fail to
// parse are skipped and reported together.
func Load(r *Registry, owner Owner, entries []Entry) error {
	r.RemoveByOwner(owner)
	var errs []error
	for _, e := range entries {
		if err := e.Apply(r, owner); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
