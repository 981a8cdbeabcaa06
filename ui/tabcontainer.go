package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// A Tab is a child of a TabContainer; has a name and child Component.
type Tab struct {
	Name  string
	Child Component
}

// A TabContainer organizes children by showing only one of them at a time.
type TabContainer struct {
	children []Tab
	selected int

	baseComponent
}

func NewTabContainer(theme *Theme) *TabContainer {
	return &TabContainer{
		children:      make([]Tab, 0, 4),
		baseComponent: baseComponent{theme: theme},
	}
}

// AddTab appends a tab and lays its child out inside the container border.
func (c *TabContainer) AddTab(name string, child Component) {
	c.children = append(c.children, Tab{Name: name, Child: child})
	c.layout(child)
	child.SetTheme(c.theme)
}

func (c *TabContainer) layout(child Component) {
	child.SetPos(c.x+1, c.y+1)
	child.SetSize(c.width-2, c.height-2)
}

// RemoveTab deletes the tab at `idx`. Returns true if the tab was found,
// false otherwise.
func (c *TabContainer) RemoveTab(idx int) bool {
	if idx < 0 || idx >= len(c.children) {
		return false
	}
	if c.selected == idx {
		c.children[idx].Child.SetFocused(false)
	}

	c.children = append(c.children[:idx], c.children[idx+1:]...)

	if c.selected >= idx && c.selected > 0 {
		c.selected--
	}
	if len(c.children) > 0 {
		child := c.children[c.selected].Child
		c.layout(child)
		child.SetFocused(c.focused)
	}
	return true
}

// FocusTab sets the visible tab to the one at `idx`. FocusTab clamps `idx`
// between 0 and tab_count - 1. If no tabs are present, the function does nothing.
func (c *TabContainer) FocusTab(idx int) {
	if len(c.children) < 1 {
		return
	}
	idx = Clamp(idx, 0, len(c.children)-1)

	c.children[c.selected].Child.SetFocused(false)
	c.selected = idx
	child := c.children[idx].Child
	c.layout(child)
	child.SetFocused(c.focused)
}

func (c *TabContainer) GetSelectedTabIdx() int {
	return c.selected
}

func (c *TabContainer) GetTabCount() int {
	return len(c.children)
}

func (c *TabContainer) GetTab(idx int) *Tab {
	return &c.children[idx]
}

// Selected returns the visible tab, or nil when there are no tabs.
func (c *TabContainer) Selected() *Tab {
	if c.selected >= len(c.children) {
		return nil
	}
	return &c.children[c.selected]
}

// Draw draws the border with the tab names centered on its top edge, then
// the visible child inside it.
func (c *TabContainer) Draw(s tcell.Screen) {
	border := c.theme.GetOrDefault("TabContainer")
	if c.focused {
		border = c.theme.GetOrDefault("TabContainerFocused")
	}
	DrawRectOutlineDefault(s, c.x, c.y, c.width, c.height, border)

	names := make([]string, len(c.children))
	combinedTabLength := 0
	for i, tab := range c.children {
		name := tab.Name
		if te, ok := tab.Child.(*TextEdit); ok && te.Dirty {
			name = "*" + name
		}
		names[i] = fmt.Sprintf(" %s ", name)
		combinedTabLength += len([]rune(names[i])) + 1 // One for spacing between tabs
	}

	col := max(c.x+c.width/2-combinedTabLength/2, c.x+1)
	right := c.x + c.width - 1
	for i, name := range names {
		sty := c.theme.GetOrDefault("Tab")
		if c.selected == i {
			sty = c.theme.GetOrDefault("TabSelected")
		}
		name = truncate(name, right-col)
		col += DrawStr(s, col, c.y, name, sty) + 1
		if col >= right {
			break
		}
	}

	if tab := c.Selected(); tab != nil {
		tab.Child.Draw(s)
	}
}

// SetFocused calls SetFocused on the visible child Component.
func (c *TabContainer) SetFocused(v bool) {
	c.focused = v
	if tab := c.Selected(); tab != nil {
		tab.Child.SetFocused(v)
	}
}

// SetTheme sets the theme.
func (c *TabContainer) SetTheme(theme *Theme) {
	c.theme = theme
	for _, tab := range c.children {
		tab.Child.SetTheme(theme)
	}
}

// SetPos sets the position of the container and updates the child Component.
func (c *TabContainer) SetPos(x, y int) {
	c.x, c.y = x, y
	if tab := c.Selected(); tab != nil {
		c.layout(tab.Child)
	}
}

// SetSize sets the size of the container and updates the size of the child Component.
func (c *TabContainer) SetSize(width, height int) {
	c.baseComponent.SetSize(width, height)
	if tab := c.Selected(); tab != nil {
		c.layout(tab.Child)
	}
}

// HandleEvent switches tabs on Ctrl+E and Ctrl+W, and forwards anything else
// to the visible child.
func (c *TabContainer) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok && len(c.children) > 0 {
		switch ev.Key() {
		case tcell.KeyCtrlE:
			c.FocusTab((c.selected + 1) % len(c.children))
			return true
		case tcell.KeyCtrlW:
			c.FocusTab((c.selected + len(c.children) - 1) % len(c.children))
			return true
		}
	}

	if tab := c.Selected(); tab != nil {
		return tab.Child.HandleEvent(event)
	}
	return false
}
