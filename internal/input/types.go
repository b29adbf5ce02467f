package input

import (
	"errors"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/input/digraph"
	"github.com/dshills/modal/internal/input/keymap"
	"github.com/dshills/modal/internal/input/mode"
	"github.com/dshills/modal/internal/input/register"
)

// Errors reported through Status or returned by the engine API.
var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrRecursiveMapping   = errors.New("E223: recursive mapping")
	ErrReadOnlyBuffer     = errors.New("E21: cannot make changes, buffer is read-only")
	ErrStateClosed        = errors.New("editor is closed")
	ErrUnknownAction      = errors.New("unknown action")
	ErrNoPreviousRegister = errors.New("E748: no previously used register")
	ErrNoPreviousCommand  = errors.New("E30: no previous command line")
	ErrNoScript           = errors.New("no script interpreter")
)

// Script evaluates mapping expressions and runs :lua code.
type Script interface {
	Execute(code string) error
	Evaluate(expr string) (string, error)
}

// Config configures an Engine.
type Config struct {
	// Options are the initial option values.
	Options config.Options

	// Scheduler runs the mapping timeout timer. Nil uses real timers.
	Scheduler keymap.Scheduler

	// Clipboard backs the * and + registers. Nil uses the system
	// clipboard.
	Clipboard register.Clipboard

	// Script evaluates <expr> mappings. It may also be set later with
	// SetScript.
	Script Script

	// Digraphs is the digraph table. Nil uses the built-in table.
	Digraphs *digraph.Table

	// HistorySize bounds the ex command history.
	HistorySize int
}

// DefaultConfig returns a config with default options.
func DefaultConfig() Config {
	return Config{
		Options:     config.DefaultOptions(),
		HistorySize: 100,
	}
}

// Status is what a host shows in its status line.
type Status struct {
	// Mode is the top of the mode stack.
	Mode mode.State

	// Token is the short mode name, like NORMAL or V-LINE.
	Token string

	// ShowMode is the mode indicator, empty when 'showmode' is off or in
	// Normal mode.
	ShowMode string

	// ShowCmd is the partial command typed so far.
	ShowCmd string

	// CmdLine is the command line with its prompt, empty when not in
	// command-line mode.
	CmdLine string

	// Recording is the register being recorded into, or 0.
	Recording rune

	// Message is the last message from a command.
	Message string

	// Error is the last error, cleared by the next key.
	Error error
}
