package buffer

import (
	"io"
)

// A Buffer is a wrapper around any buffer data structure, like a rope or a gap
// buffer, addressed the way a text editor thinks: by line and column. Lines and
// columns start at zero, columns count runes, and all "end" bounds are
// inclusive. A column one past the last rune of a line addresses that line's
// delimiter ("\n" or "\r\n") as a single unit.
//
// Lines out of range panic. If you are unsure whether a position is in range,
// use ClampLineCol() or compare with Lines() and RunesInLine().
type Buffer interface {
	// Line returns the data of the given line, including its line delimiter. Data
	// returned may or may not be a copy: do not write to it.
	Line(line int) []byte

	// Slice returns the buffer from startLine, startCol to endLine, endCol,
	// inclusive. The returned value may or may not be a copy, so do not write
	// to it.
	Slice(startLine, startCol, endLine, endCol int) []byte

	// Bytes returns all of the bytes in the buffer. This very likely copies
	// the whole buffer. Use sparingly.
	Bytes() []byte

	// Insert copies value into the buffer at line, col.
	Insert(line, col int, value []byte)

	// Remove deletes everything between startLine, startCol, and endLine,
	// endCol, inclusive.
	Remove(startLine, startCol, endLine, endCol int)

	// Count returns the number of occurrences of sequence between start and end.
	// The end is exclusive.
	Count(startLine, startCol, endLine, endCol int, sequence []byte) int

	// Len returns the number of bytes in the buffer.
	Len() int

	// Lines returns the number of lines in the buffer. An empty buffer still
	// has one line.
	Lines() int

	// RunesInLineWithDelim returns the number of runes in the line including
	// its delimiter; a CRLF delimiter counts two.
	RunesInLineWithDelim(line int) int

	// RunesInLine returns the number of runes in the line, excluding the
	// delimiter.
	RunesInLine(line int) int

	// ClampLineCol clamps line to the lines of the buffer, then col to
	// [0, RunesInLine(line)].
	ClampLineCol(line, col int) (int, int)

	// LineColToPos returns the byte offset of the rune at line, col. A col past
	// the end of the line gives the offset of the line delimiter.
	LineColToPos(line, col int) int

	// PosToLineCol converts a byte offset into a line and column. pos is
	// clamped to the buffer.
	PosToLineCol(pos int) (int, int)

	WriteTo(w io.Writer) (int64, error)
}

// LineText returns line without its delimiter.
func LineText(b Buffer, line int) string {
	data := b.Line(line)
	n := len(data)
	if n > 0 && data[n-1] == '\n' {
		n--
		if n > 0 && data[n-1] == '\r' {
			n--
		}
	}
	return string(data[:n])
}
