package main

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/modal/internal/engine/buffer"
	"github.com/dshills/modal/internal/input"
	"github.com/dshills/modal/internal/input/ex"
	"github.com/dshills/modal/internal/input/key"
	"github.com/dshills/modal/internal/logger"
)

var (
	errNotSaved = errors.New("E37: No write since last change (add ! to override)")
	errReadOnly = errors.New("E45: 'readonly' option is set (add ! to override)")
	errNoName   = errors.New("E32: No file name")
)

// editor is the one buffer shown on screen.
type editor struct {
	eng     *input.Engine
	handler *input.Handler
	buf     *buffer.Memory

	mu     sync.Mutex
	path   string
	saved  string
	notice string

	quitting atomic.Bool
}

func newEditor(eng *input.Engine, buf *buffer.Memory) *editor {
	return &editor{
		eng:     eng,
		handler: eng.NewEditor(buf),
		buf:     buf,
		path:    buf.Path(),
		saved:   buf.Text(),
	}
}

// registerCommands adds the file commands a terminal session needs.
func (ed *editor) registerCommands() error {
	return ed.eng.Commands().RegisterAll([]*ex.Command{
		{Name: "write", MinLen: 1, Bang: true, Handler: ed.write},
		{Name: "quit", MinLen: 1, Bang: true, Handler: ed.quit},
		{Name: "wq", MinLen: 2, Bang: true, Handler: ed.writeQuit},
		{Name: "xit", MinLen: 1, Bang: true, Handler: ed.exit},
	})
}

func (ed *editor) handleKey(e key.Event) {
	ed.mu.Lock()
	ed.notice = ""
	ed.mu.Unlock()

	if err := ed.handler.HandleKey(e); err != nil {
		logger.Error("key dropped", "key", e.String(), "err", err)
	}
}

func (ed *editor) modified() bool {
	ed.mu.Lock()
	defer ed.mu.Unlock()
	return ed.buf.Text() != ed.saved
}

func (ed *editor) write(h ex.Host, c *ex.Call) error {
	if !ed.buf.IsWritable() && !c.Bang {
		return errReadOnly
	}

	ed.mu.Lock()
	defer ed.mu.Unlock()

	path := ed.path
	if c.Args != "" {
		path = c.Args
	}
	if path == "" {
		return errNoName
	}
	text := ed.buf.Text()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("E212: Can't open file for writing: %w", err)
	}
	if ed.path == "" {
		ed.path = path
	}
	if path == ed.path {
		ed.saved = text
	}
	logger.Info("buffer written", "path", path, "bytes", len(text))
	h.Message(fmt.Sprintf("%q %dL, %dB written", path, ed.buf.LineCount(), len(text)))
	return nil
}

func (ed *editor) quit(_ ex.Host, c *ex.Call) error {
	if !c.Bang && ed.modified() {
		return errNotSaved
	}
	ed.quitting.Store(true)
	return nil
}

func (ed *editor) writeQuit(h ex.Host, c *ex.Call) error {
	if err := ed.write(h, c); err != nil {
		return err
	}
	ed.quitting.Store(true)
	return nil
}

// exit writes only when the buffer changed.
func (ed *editor) exit(h ex.Host, c *ex.Call) error {
	if ed.modified() {
		return ed.writeQuit(h, c)
	}
	ed.quitting.Store(true)
	return nil
}

// statusText is the left side of the status line and whether it reports
// an error.
func (ed *editor) statusText(st input.Status) (string, bool) {
	if st.Error != nil {
		return st.Error.Error(), true
	}
	if st.Message != "" {
		return st.Message, false
	}
	ed.mu.Lock()
	notice := ed.notice
	ed.mu.Unlock()
	if notice != "" {
		return notice, true
	}
	return st.ShowMode, false
}
