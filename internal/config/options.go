package config

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dshills/modal/internal/input/keymap"
)

// Options are the settings the engine reads while handling keys.
type Options struct {
	// Timeout enables waiting for more keys of an ambiguous mapping.
	Timeout bool `toml:"timeout" yaml:"timeout"`
	// TimeoutLen is the ambiguous mapping wait in milliseconds.
	TimeoutLen int `toml:"timeoutlen" yaml:"timeoutlen"`
	// MaxMapDepth bounds nested mapping expansion.
	MaxMapDepth int `toml:"maxmapdepth" yaml:"maxmapdepth"`
	// ShowMode enables the mode message on the status line.
	ShowMode bool `toml:"showmode" yaml:"showmode"`
	// Clipboard is "", "unnamed" or "unnamedplus".
	Clipboard string `toml:"clipboard" yaml:"clipboard"`
	// Digraph allows {char}<BS>{char} digraph entry in Insert mode.
	Digraph bool `toml:"digraph" yaml:"digraph"`

	Mappings []keymap.Entry `toml:"mappings" yaml:"mappings"`
}

// DefaultOptions returns the built-in option values.
func DefaultOptions() Options {
	return Options{
		Timeout:     true,
		TimeoutLen:  1000,
		MaxMapDepth: 1000,
		ShowMode:    true,
	}
}

// TimeoutDuration returns TimeoutLen as a duration.
func (o *Options) TimeoutDuration() time.Duration {
	return time.Duration(o.TimeoutLen) * time.Millisecond
}

// Clone returns a copy that shares no mapping slice with o.
func (o Options) Clone() Options {
	o.Mappings = slices.Clone(o.Mappings)
	return o
}

type optionKind uint8

const (
	kindBool optionKind = iota
	kindInt
	kindString
)

type optionDef struct {
	name  string
	short string
	kind  optionKind
}

var optionDefs = []optionDef{
	{"timeout", "to", kindBool},
	{"timeoutlen", "tm", kindInt},
	{"maxmapdepth", "mmd", kindInt},
	{"showmode", "smd", kindBool},
	{"clipboard", "cb", kindString},
	{"digraph", "dg", kindBool},
}

func lookupOption(name string) (optionDef, bool) {
	for _, d := range optionDefs {
		if d.name == name || d.short == name {
			return d, true
		}
	}
	return optionDef{}, false
}

// Names returns the full option names.
func Names() []string {
	names := make([]string, len(optionDefs))
	for i, d := range optionDefs {
		names[i] = d.name
	}
	return names
}

// Canonical returns the full name of an option given its name or
// abbreviation.
func Canonical(name string) (string, bool) {
	d, ok := lookupOption(name)
	return d.name, ok
}

// Get returns an option value as text. Booleans are "true" or "false".
func (o *Options) Get(name string) (string, bool) {
	d, ok := lookupOption(name)
	if !ok {
		return "", false
	}
	switch d.name {
	case "timeout":
		return strconv.FormatBool(o.Timeout), true
	case "timeoutlen":
		return strconv.Itoa(o.TimeoutLen), true
	case "maxmapdepth":
		return strconv.Itoa(o.MaxMapDepth), true
	case "showmode":
		return strconv.FormatBool(o.ShowMode), true
	case "clipboard":
		return o.Clipboard, true
	case "digraph":
		return strconv.FormatBool(o.Digraph), true
	}
	return "", false
}

// Set parses value and stores it in the named option.
func (o *Options) Set(name, value string) error {
	d, ok := lookupOption(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	switch d.kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%s", ErrInvalidValue, d.name, value)
		}
		switch d.name {
		case "timeout":
			o.Timeout = b
		case "showmode":
			o.ShowMode = b
		case "digraph":
			o.Digraph = b
		}
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || (d.name == "maxmapdepth" && n == 0) {
			return fmt.Errorf("%w: %s=%s", ErrInvalidValue, d.name, value)
		}
		switch d.name {
		case "timeoutlen":
			o.TimeoutLen = n
		case "maxmapdepth":
			o.MaxMapDepth = n
		}
	case kindString:
		switch value {
		case "", "unnamed", "unnamedplus":
			o.Clipboard = value
		default:
			return fmt.Errorf("%w: %s=%s", ErrInvalidValue, d.name, value)
		}
	}
	return nil
}

// Validate checks values decoded from a file.
func (o *Options) Validate() error {
	for _, d := range optionDefs {
		v, _ := o.Get(d.name)
		if err := (&Options{}).Set(d.name, v); err != nil {
			return err
		}
	}
	for _, e := range o.Mappings {
		if _, err := keymap.ParseModes(e.Modes); err != nil {
			return err
		}
	}
	return nil
}
