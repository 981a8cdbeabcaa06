package buffer

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

// A RopeBuffer is a Buffer backed by a rope, so edits in large files stay
// cheap.
type RopeBuffer rope.Node

func NewRopeBuffer(contents []byte) *RopeBuffer {
	return (*RopeBuffer)(rope.New(contents))
}

func (b *RopeBuffer) node() *rope.Node {
	return (*rope.Node)(b)
}

// lineBounds returns the offset of the first byte of line and the offset just
// past its delimiter. Both equal Len() for the last, empty line of a buffer
// ending in a newline.
func (b *RopeBuffer) lineBounds(line int) (start, end int) {
	r := b.node()
	start, end = -1, r.Len()
	if line == 0 {
		start = 0
	}

	var seen int
	r.IndexAllFunc(0, r.Len(), []byte{'\n'}, func(idx int) bool {
		seen++
		if start >= 0 {
			end = idx + 1
			return true // Stop indexing
		}
		if seen == line {
			start = idx + 1
		}
		return false
	})

	if start < 0 {
		panic("buffer: line out of range")
	}
	return start, end
}

// text returns the data of line without its delimiter, and the offset of the
// line and of the byte just past the delimiter.
func (b *RopeBuffer) text(line int) (data []byte, start, end int) {
	start, end = b.lineBounds(line)
	data = b.node().Slice(start, end)
	n := len(data)
	if n > 0 && data[n-1] == '\n' {
		n--
		if n > 0 && data[n-1] == '\r' {
			n--
		}
	}
	return data[:n], start, end
}

// colOffset returns the byte offset of rune col in data, clamped to len(data).
func colOffset(data []byte, col int) int {
	var i int
	for i < len(data) && col > 0 {
		_, size := utf8.DecodeRune(data[i:])
		i += size
		col--
	}
	return i
}

// LineColToPos returns the byte offset of the rune at line, col. A col past
// the end of the line gives the offset of the line delimiter.
func (b *RopeBuffer) LineColToPos(line, col int) int {
	data, start, _ := b.text(line)
	return start + colOffset(data, col)
}

// endPos returns the offset just past the rune at line, col, treating the
// line delimiter as one unit.
func (b *RopeBuffer) endPos(line, col int) int {
	data, start, end := b.text(line)
	i := colOffset(data, col)
	if i < len(data) {
		_, size := utf8.DecodeRune(data[i:])
		return start + i + size
	}
	return end
}

// Line returns the data of the given line, including its line delimiter.
func (b *RopeBuffer) Line(line int) []byte {
	start, end := b.lineBounds(line)
	return b.node().Slice(start, end)
}

// Slice returns the buffer from startLine, startCol to endLine, endCol,
// inclusive.
func (b *RopeBuffer) Slice(startLine, startCol, endLine, endCol int) []byte {
	start := b.LineColToPos(startLine, startCol)
	end := b.endPos(endLine, endCol)
	if end < start {
		end = start
	}
	return b.node().Slice(start, end)
}

// Bytes returns all of the bytes in the buffer.
func (b *RopeBuffer) Bytes() []byte {
	return b.node().Value()
}

// Insert copies value into the buffer at line, col.
func (b *RopeBuffer) Insert(line, col int, value []byte) {
	b.node().Insert(b.LineColToPos(line, col), value)
}

// Remove deletes everything between startLine, startCol, and endLine, endCol,
// inclusive.
func (b *RopeBuffer) Remove(startLine, startCol, endLine, endCol int) {
	start := b.LineColToPos(startLine, startCol)
	end := b.endPos(endLine, endCol)
	if end > start {
		b.node().Remove(start, end)
	}
}

// Count returns the number of occurrences of sequence between start and end,
// end exclusive.
func (b *RopeBuffer) Count(startLine, startCol, endLine, endCol int, sequence []byte) int {
	startPos := b.LineColToPos(startLine, startCol)
	endPos := b.LineColToPos(endLine, endCol)
	return b.node().Count(startPos, endPos, sequence)
}

// Len returns the number of bytes in the buffer.
func (b *RopeBuffer) Len() int {
	return b.node().Len()
}

// Lines returns the number of lines in the buffer, which is one more than the
// number of '\n' bytes.
func (b *RopeBuffer) Lines() int {
	r := b.node()
	return r.Count(0, r.Len(), []byte{'\n'}) + 1
}

// RunesInLineWithDelim returns the number of runes in the line including its
// delimiter.
func (b *RopeBuffer) RunesInLineWithDelim(line int) int {
	return utf8.RuneCount(b.Line(line))
}

// RunesInLine returns the number of runes in the line, excluding the
// delimiter.
func (b *RopeBuffer) RunesInLine(line int) int {
	data, _, _ := b.text(line)
	return utf8.RuneCount(data)
}

// ClampLineCol clamps line to the buffer, then col to the runes of that line.
// A col equal to RunesInLine(line) points at the line delimiter.
func (b *RopeBuffer) ClampLineCol(line, col int) (int, int) {
	if line < 0 {
		line = 0
	} else if lines := b.Lines() - 1; line > lines {
		line = lines
	}

	if col < 0 {
		col = 0
	} else if runes := b.RunesInLine(line); col > runes {
		col = runes
	}

	return line, col
}

// PosToLineCol converts a byte offset into a line and column. pos is clamped
// to the buffer.
func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	r := b.node()
	if pos <= 0 {
		return 0, 0
	}
	if pos > r.Len() {
		pos = r.Len()
	}

	data := r.Slice(0, pos)
	line := bytes.Count(data, []byte{'\n'})
	lineData := data[bytes.LastIndexByte(data, '\n')+1:]
	col := utf8.RuneCount(lineData)

	// The '\r' of a CRLF delimiter is part of the delimiter, not a column.
	if n := len(lineData); n > 0 && lineData[n-1] == '\r' && pos < r.Len() && r.Slice(pos, pos+1)[0] == '\n' {
		col--
	}
	return line, col
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.node().WriteTo(w)
}
