package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/modal/internal/config/loader"
)

// EnvPrefix starts environment variables that override options.
const EnvPrefix = "MODAL_"

// DefaultPath returns the options file location: $MODAL_CONFIG, else
// modal/modal.toml under the user config directory.
func DefaultPath() string {
	if v := os.Getenv(EnvPrefix + "CONFIG"); v != "" {
		return v
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "modal", "modal.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "modal.toml"
	}
	return filepath.Join(home, ".config", "modal", "modal.toml")
}

// Load reads options from path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Options, error) {
	return LoadFS(loader.DefaultFS(), path, os.Environ())
}

// LoadFS is Load with an explicit file system and environment.
func LoadFS(fsys loader.FileSystem, path string, environ []string) (Options, error) {
	opts := DefaultOptions()
	if path != "" {
		err := loader.DecodeFile(fsys, path, &opts)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return DefaultOptions(), err
		}
	}
	if err := ApplyEnv(&opts, environ); err != nil {
		return DefaultOptions(), err
	}
	if err := opts.Validate(); err != nil {
		return DefaultOptions(), fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// ApplyEnv sets options from MODAL_<NAME>=value entries. Names that are
// not options are ignored.
func ApplyEnv(opts *Options, environ []string) error {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, ok = strings.CutPrefix(name, EnvPrefix)
		if !ok {
			continue
		}
		full, ok := Canonical(strings.ToLower(name))
		if !ok {
			continue
		}
		if err := opts.Set(full, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}
