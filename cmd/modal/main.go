// Package main is a terminal front end for the modal command engine.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/modal/internal/config"
	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input"
	"github.com/dshills/modal/internal/input/register"
	"github.com/dshills/modal/internal/logger"
	"github.com/dshills/modal/internal/plugin/lua"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	InitPath   string
	Debug      bool
	ReadOnly   bool
	File       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if err := logger.Init(opts.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logger.InitNop()
	}
	defer logger.Close()

	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ui, err := newScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	cfg := input.DefaultConfig()
	cfg.Options = settings
	cfg.Scheduler = ui.scheduler()
	eng := input.NewEngine(cfg)

	regPath := filepath.Join(filepath.Dir(opts.ConfigPath), "registers.json")
	if err := register.Load(eng.Registers(), regPath); err != nil {
		logger.Warn("registers not restored", "path", regPath, "err", err)
	}
	defer func() {
		if err := register.Save(eng.Registers(), regPath); err != nil {
			logger.Warn("registers not saved", "path", regPath, "err", err)
		}
	}()

	reloader, err := config.NewReloader(opts.ConfigPath, os.Environ(), func(o config.Options) {
		eng.ApplyOptions(o)
		ui.redraw()
	})
	if err != nil {
		logger.Warn("config reload disabled", "path", opts.ConfigPath, "err", err)
	} else {
		defer reloader.Close()
	}

	state := lua.NewState()
	defer state.Close()
	if err := state.Bind(eng.ScriptHost()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to bind scripts: %v\n", err)
		return 1
	}
	eng.SetScript(state)

	buf, err := openBuffer(opts.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	buf.SetReadOnly(opts.ReadOnly)

	ed := newEditor(eng, buf)
	if err := ed.registerCommands(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	initPath := opts.InitPath
	if initPath == "" {
		initPath = filepath.Join(filepath.Dir(opts.ConfigPath), "init.lua")
	}
	if err := state.ExecuteFile(initPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("init script failed", "path", initPath, "err", err)
		ed.notice = "init.lua: " + err.Error()
	}

	if err := ui.init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer ui.fini()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		ui.quit()
	}()

	logger.Info("editor started", "file", opts.File, "config", opts.ConfigPath)
	ui.run(ed)
	return 0
}

func openBuffer(path string) (*buffer.Memory, error) {
	if path == "" {
		return buffer.NewMemory("", ""), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return buffer.NewMemory("", path), nil
	}
	if err != nil {
		return nil, err
	}
	return buffer.NewMemory(string(data), path), nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to options file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to options file (shorthand)")
	flag.StringVar(&opts.InitPath, "init", "", "Lua script run at startup")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug logging (shorthand)")
	flag.BoolVar(&opts.ReadOnly, "readonly", false, "Open the file read-only")
	flag.BoolVar(&opts.ReadOnly, "R", false, "Open the file read-only (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "modal - vi-style modal editing in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: modal [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modal                 Open an empty buffer\n")
		fmt.Fprintf(os.Stderr, "  modal notes.txt       Open a file\n")
		fmt.Fprintf(os.Stderr, "  modal -R notes.txt    Open a file read-only\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("modal %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one file may be given\n")
		os.Exit(1)
	}
	opts.File = flag.Arg(0)
	return opts
}
