package buffer

import "math"

// The cursor lives next to the buffer rather than in the TextEdit because it
// needs the buffer to know where lines end and how it can move. The buffer is
// the city, and the Cursor is the car.

type position struct {
	line int
	col  int
}

// A Region is a selection of the buffer. Start is never after End, and both
// are inclusive. An End col one past the last rune of a line selects that
// line's delimiter.
type Region struct {
	Start Cursor
	End   Cursor
}

func NewRegion(in Buffer) Region {
	return Region{
		NewCursor(in),
		NewCursor(in),
	}
}

// A Cursor is an immutable position in a buffer. Its methods emulate common
// cursor movement and return the moved cursor.
type Cursor struct {
	buffer  Buffer
	prevCol int // Column to return to when moving vertically through short lines
	position
}

func NewCursor(in Buffer) Cursor {
	return Cursor{
		buffer: in,
	}
}

func (c Cursor) Left() Cursor {
	if c.col == 0 && c.line != 0 { // If we are at the beginning of the current line...
		// Go to the end of the above line
		c.line--
		c.col = c.buffer.RunesInLine(c.line)
	} else {
		c.col = max(c.col-1, 0)
	}
	c.prevCol = c.col
	return c
}

func (c Cursor) Right() Cursor {
	// If we are at the end of the current line,
	// and not at the last line...
	if c.col >= c.buffer.RunesInLine(c.line) && c.line < c.buffer.Lines()-1 {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, 0) // Go to beginning of line below
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line, c.col+1)
	}
	c.prevCol = c.col
	return c
}

func (c Cursor) Up() Cursor {
	if c.line == 0 { // If the cursor is at the first line...
		c.line, c.col = 0, 0 // Go to beginning
		c.prevCol = 0
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line-1, max(c.col, c.prevCol))
	}
	return c
}

func (c Cursor) Down() Cursor {
	if c.line == c.buffer.Lines()-1 { // If the cursor is at the last line...
		c.line, c.col = c.buffer.ClampLineCol(c.line, math.MaxInt32) // Go to end of current line
		c.prevCol = c.col
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, max(c.col, c.prevCol))
	}
	return c
}

// Home moves to the start of the line.
func (c Cursor) Home() Cursor {
	c.col, c.prevCol = 0, 0
	return c
}

// End moves past the last rune of the line.
func (c Cursor) End() Cursor {
	c.col = c.buffer.RunesInLine(c.line)
	c.prevCol = c.col
	return c
}

func (c Cursor) GetLineCol() (line, col int) {
	return c.line, c.col
}

// SetLineCol sets the line and col of the Cursor to those provided. `line` is
// clamped within the range (0, lines in buffer). `col` is then clamped within
// the range (0, line length in runes).
func (c Cursor) SetLineCol(line, col int) Cursor {
	c.line, c.col = c.buffer.ClampLineCol(line, col)
	c.prevCol = c.col
	return c
}

func (c Cursor) Eq(other Cursor) bool {
	return c.buffer == other.buffer && c.line == other.line && c.col == other.col
}

// Less reports whether c comes before other.
func (c Cursor) Less(other Cursor) bool {
	return c.line < other.line || (c.line == other.line && c.col < other.col)
}
