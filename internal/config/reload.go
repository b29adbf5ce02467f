package config

import (
	"github.com/dshills/modal/internal/config/loader"
	"github.com/dshills/modal/internal/config/watcher"
	"github.com/dshills/modal/internal/logger"
)

// Reloader reloads an options file whenever it changes on disk.
type Reloader struct {
	path    string
	environ []string
	watcher *watcher.Watcher
	apply   func(Options)
}

// NewReloader watches path and calls apply with the freshly loaded
// options after each change. Files that fail to load are logged and
// skipped, leaving the previous options in effect.
func NewReloader(path string, environ []string, apply func(Options), opts ...watcher.Option) (*Reloader, error) {
	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Close()
		return nil, err
	}

	r := &Reloader{
		path:    path,
		environ: environ,
		watcher: w,
		apply:   apply,
	}
	w.OnChange(r.handle)
	return r, nil
}

func (r *Reloader) handle(ev watcher.Event) {
	if ev.Op != watcher.OpWrite && ev.Op != watcher.OpCreate {
		return
	}
	opts, err := LoadFS(loader.DefaultFS(), r.path, r.environ)
	if err != nil {
		logger.Warn("config reload failed", "path", r.path, "err", err)
		return
	}
	logger.Info("config reloaded", "path", r.path, "mappings", len(opts.Mappings))
	r.apply(opts)
}

// Path returns the watched file.
func (r *Reloader) Path() string {
	return r.path
}

// Close stops watching.
func (r *Reloader) Close() error {
	return r.watcher.Close()
}
