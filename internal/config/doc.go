// Package config holds the engine options and loads them from disk.
//
// Options come from a TOML or YAML file chosen by extension:
//
//	timeout = true
//	timeoutlen = 500
//	clipboard = "unnamedplus"
//
//	[[mappings]]
//	modes = "i"
//	lhs = "jk"
//	rhs = "<Esc>"
//	noremap = true
//
// Environment variables prefixed MODAL_ override file values, so
// MODAL_TIMEOUTLEN=200 sets timeoutlen.
//
// # Sub-packages
//
//   - loader: TOML and YAML decoding
//   - watcher: fsnotify based change detection for live reload
//
// A Reloader ties the two together. When the options file changes it
// decodes the file again and hands the result to a callback, which the
// engine uses to replace its configured mappings in one step.
package config
