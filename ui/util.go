package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Clamp keeps `v` within `a` and `b` numerically. `a` must be smaller than `b`.
func Clamp(v, a, b int) int {
	return max(a, min(v, b))
}

// digits returns the number of decimal digits in n, which must not be negative.
func digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// runeWidth is the number of cells r takes on screen, where a tab takes
// tabSize cells and control characters take one.
func runeWidth(r rune, tabSize int) int {
	if r == '\t' {
		return tabSize
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// visualCol converts a rune column of text into a screen column.
func visualCol(text string, col, tabSize int) int {
	var vx int
	for i, r := range []rune(text) {
		if i >= col {
			break
		}
		vx += runeWidth(r, tabSize)
	}
	return vx
}

// truncate cuts str so it takes at most width cells.
func truncate(str string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(str) <= width {
		return str
	}
	var sb strings.Builder
	var w int
	for len(str) > 0 {
		r, size := utf8.DecodeRuneInString(str)
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			break
		}
		sb.WriteRune(r)
		w += rw
		str = str[size:]
	}
	return sb.String()
}
