package main

import (
	"sync"

	"github.com/zyedidia/clipboard"
)

type ClipMethod uint8

const (
	ClipExternal ClipMethod = iota
	ClipInternal
)

// A Clipboard holds text cut or copied in the editor, in the system
// clipboard when one is available and in memory otherwise.
type Clipboard struct {
	method ClipMethod

	mu       sync.Mutex
	internal string
}

// NewClipboard initializes the clipboard for the given method. If the
// external clipboard cannot be used, the internal one is chosen instead and
// the error is returned alongside it; the error is not fatal.
func NewClipboard(m ClipMethod) (*Clipboard, error) {
	if m == ClipExternal {
		if err := clipboard.Initialize(); err != nil {
			return &Clipboard{method: ClipInternal}, err
		}
	}
	return &Clipboard{method: m}, nil
}

func (c *Clipboard) Method() ClipMethod {
	return c.method
}

// Read returns the clipboard contents.
func (c *Clipboard) Read() (string, error) {
	if c.method == ClipExternal {
		return clipboard.ReadAll("clipboard")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internal, nil
}

// Write replaces the clipboard contents.
func (c *Clipboard) Write(content string) error {
	if c.method == ClipExternal {
		return clipboard.WriteAll(content, "clipboard")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.internal = content
	return nil
}
