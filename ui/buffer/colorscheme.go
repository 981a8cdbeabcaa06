package buffer

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Keys of a Colorscheme that are not token classes.
const (
	Default = ""       // Style of anything without a better match
	Column  = "column" // Line number column of the editor
)

// A Colorscheme maps token classes, such as "number.hex", to styles.
type Colorscheme map[string]tcell.Style

// GetStyle returns the style for class. A class without an entry falls back
// to its dotted parent ("number.hex" to "number"), then to the Default entry,
// then to tcell.StyleDefault.
func (c *Colorscheme) GetStyle(class string) tcell.Style {
	if c != nil {
		for {
			if val, ok := (*c)[class]; ok {
				return val
			}
			i := strings.LastIndexByte(class, '.')
			if i < 0 {
				break
			}
			class = class[:i]
		}
		if val, ok := (*c)[Default]; ok {
			return val // Use default colorscheme value, instead
		}
	}

	return tcell.StyleDefault // No value for Default; use default style.
}

// DefaultColorscheme returns the colors the editor starts with.
func DefaultColorscheme() Colorscheme {
	def := tcell.StyleDefault
	return Colorscheme{
		Default:             def,
		Column:              def.Foreground(tcell.ColorDarkGray),
		"keyword":           def.Foreground(tcell.ColorNavy).Bold(true),
		"keyword.directive": def.Foreground(tcell.ColorPurple),
		"type":              def.Foreground(tcell.ColorTeal),
		"operator":          def.Foreground(tcell.ColorOlive),
		"number":            def.Foreground(tcell.ColorDarkCyan),
		"string":            def.Foreground(tcell.ColorMaroon),
		"char":              def.Foreground(tcell.ColorMaroon),
		"comment":           def.Foreground(tcell.ColorGreen),
		"delimiter":         def.Foreground(tcell.ColorGray),
	}
}
