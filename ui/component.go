package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is anything the editor lays out and draws: the tab container,
// the text edits inside it, and the status line. After constructing a
// component, call SetPos() and SetSize() before drawing it.
type Component interface {
	// Draw renders the component inside its bounding rectangle.
	Draw(tcell.Screen)
	// SetFocused changes whether the component receives key events.
	SetFocused(bool)
	// SetTheme applies the theme to the component and all of its children.
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)

	// GetMinSize returns the smallest size the Component can be.
	GetMinSize() (w, h int)
	GetSize() (w, h int)
	SetSize(w, h int)

	// HandleEvent reports whether the component consumed the event. Components
	// should only handle events while focused.
	HandleEvent(tcell.Event) bool
}

// baseComponent can be embedded in a Component's struct to hide the
// boilerplate fields and accessors. Any of its methods may be overridden.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool) {
	c.focused = v
}

func (c *baseComponent) SetTheme(theme *Theme) {
	c.theme = theme
}

func (c *baseComponent) GetPos() (int, int) {
	return c.x, c.y
}

func (c *baseComponent) SetPos(x, y int) {
	c.x, c.y = x, y
}

func (c *baseComponent) GetMinSize() (int, int) {
	return 0, 0
}

func (c *baseComponent) GetSize() (int, int) {
	return c.width, c.height
}

func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = max(width, 0), max(height, 0)
}
