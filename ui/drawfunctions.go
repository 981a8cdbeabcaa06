package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DrawRect renders a filled box at `x` and `y`, of size `width` and `height`.
// Will not call `Show()`.
func DrawRect(s tcell.Screen, x, y, width, height int, char rune, style tcell.Style) {
	for col := x; col < x+width; col++ {
		for row := y; row < y+height; row++ {
			s.SetContent(col, row, char, nil, style)
		}
	}
}

// DrawStr renders str at `x` and `y`, advancing by the cell width of each
// rune. It returns the number of cells drawn.
func DrawStr(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	col := x
	for _, r := range str {
		s.SetContent(col, y, r, nil, style)
		col += max(runewidth.RuneWidth(r), 1)
	}
	return col - x
}

// DrawRectOutline draws only the outline of a rectangle, using `ul`, `ur`, `bl`, and `br`
// for the corner runes, and `hor` and `vert` for the horizontal and vertical runes, respectively.
func DrawRectOutline(s tcell.Screen, x, y, _width, _height int, ul, ur, bl, br, hor, vert rune, style tcell.Style) {
	if _width < 2 || _height < 2 {
		return
	}
	width := x + _width - 1   // Length across
	height := y + _height - 1 // Length top-to-bottom

	for col := x + 1; col < width; col++ {
		s.SetContent(col, y, hor, nil, style)
		s.SetContent(col, height, hor, nil, style)
	}
	for row := y + 1; row < height; row++ {
		s.SetContent(x, row, vert, nil, style)
		s.SetContent(width, row, vert, nil, style)
	}
	s.SetContent(x, y, ul, nil, style)
	s.SetContent(width, y, ur, nil, style)
	s.SetContent(x, height, bl, nil, style)
	s.SetContent(width, height, br, nil, style)
}

// DrawRectOutlineDefault calls DrawRectOutline with the default edge runes.
func DrawRectOutlineDefault(s tcell.Screen, x, y, width, height int, style tcell.Style) {
	DrawRectOutline(s, x, y, width, height, '┌', '┐', '└', '┘', '─', '│', style)
}
