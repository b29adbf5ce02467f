package register

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard is the host clipboard behind "* and "+.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Available reports whether a system clipboard utility was found.
func (SystemClipboard) Available() bool { return !clipboard.Unsupported }

// MemoryClipboard keeps clipboard text in process.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *MemoryClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// DefaultClipboard returns the system clipboard when one is usable and an
// in-process clipboard otherwise.
func DefaultClipboard() Clipboard {
	if (SystemClipboard{}).Available() {
		return SystemClipboard{}
	}
	return &MemoryClipboard{}
}
