package ui

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/plhl/ui/buffer"
)

// ErrNoFilePath is returned when saving a TextEdit that has no file.
var ErrNoFilePath = errors.New("no file path")

// TextEdit is a field for line-based editing. It highlights its contents
// with the tokenizer of its language, and can report the token and tokenizer
// state under the cursor.
type TextEdit struct {
	Buffer      buffer.Buffer
	Highlighter *buffer.Highlighter
	LineNumbers bool   // Whether to render line numbers (and therefore the column)
	Dirty       bool   // Whether the buffer has been edited
	UseHardTabs bool   // When true, tabs are '\t'
	TabSize     int    // How many spaces to indent by
	IsCRLF      bool   // Whether the file's line endings are CRLF (\r\n) or LF (\n)
	FilePath    string // Will be empty if the file has not been saved yet

	screen           tcell.Screen // We keep our own reference to the screen for cursor purposes.
	cursor           buffer.Cursor
	scrollx, scrolly int // X and Y offset of view, known as scroll

	anchor     buffer.Cursor // Where the selection started; the cursor is its other end
	selectMode bool

	baseComponent
}

// NewTextEdit initializes the buffer using the given contents. An empty filePath
// means the TextEdit has no file association. lang may be nil for plain text.
func NewTextEdit(screen tcell.Screen, filePath string, contents []byte, lang *buffer.Language, colorscheme *buffer.Colorscheme, theme *Theme) *TextEdit {
	te := &TextEdit{
		LineNumbers: true,
		UseHardTabs: true,
		TabSize:     4,
		FilePath:    filePath,

		screen:        screen,
		baseComponent: baseComponent{theme: theme},
	}
	te.Highlighter = buffer.NewHighlighter(buffer.NewRopeBuffer(nil), lang, colorscheme)
	te.SetContents(contents)
	return te
}

// SetContents replaces the buffer with contents. The line delimiter of the
// file is taken from its first line.
func (t *TextEdit) SetContents(contents []byte) {
	t.IsCRLF = false
	if i := bytes.IndexByte(contents, '\n'); i > 0 && contents[i-1] == '\r' {
		t.IsCRLF = true
	}

	t.Buffer = buffer.NewRopeBuffer(contents)
	t.cursor = buffer.NewCursor(t.Buffer)
	t.anchor = t.cursor
	t.selectMode = false
	t.scrollx, t.scrolly = 0, 0

	t.Highlighter = buffer.NewHighlighter(t.Buffer, t.Highlighter.Language, t.Highlighter.Colorscheme)
}

// SetLanguage changes the language the buffer is highlighted with.
func (t *TextEdit) SetLanguage(lang *buffer.Language) {
	t.Highlighter.Language = lang
	t.Highlighter.InvalidateLines(0, math.MaxInt32)
}

// GetLineDelimiter returns "\r\n" for a CRLF buffer, or "\n" for an LF buffer.
func (t *TextEdit) GetLineDelimiter() string {
	if t.IsCRLF {
		return "\r\n"
	}
	return "\n"
}

// Save writes the buffer to FilePath and clears Dirty.
func (t *TextEdit) Save() error {
	if t.FilePath == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(t.FilePath, t.Buffer.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", t.FilePath, err)
	}
	t.Dirty = false
	return nil
}

// Selection returns the selected region. ok is false when nothing is
// selected.
func (t *TextEdit) Selection() (region buffer.Region, ok bool) {
	if !t.selectMode || t.anchor.Eq(t.cursor) {
		return buffer.Region{}, false
	}
	start, end := t.anchor, t.cursor
	if end.Less(start) {
		start, end = end, start
	}
	// The rune under the later end is not part of the selection.
	return buffer.Region{Start: start, End: end.Left()}, true
}

// SelectAll selects the whole buffer, leaving the cursor at its end.
func (t *TextEdit) SelectAll() {
	t.anchor = buffer.NewCursor(t.Buffer)
	t.cursor = t.cursor.SetLineCol(math.MaxInt32, math.MaxInt32)
	t.selectMode = true
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// Delete with `forwards` false will backspace, destroying the character before the cursor,
// while Delete with `forwards` true will delete the character under the cursor.
// Either way, an active selection is deleted instead.
func (t *TextEdit) Delete(forwards bool) {
	lines := t.Buffer.Lines()
	line, col := t.cursor.GetLineCol()

	if sel, ok := t.Selection(); ok {
		startLine, startCol := sel.Start.GetLineCol()
		endLine, endCol := sel.End.GetLineCol()
		t.Buffer.Remove(startLine, startCol, endLine, endCol)
		t.cursor = t.cursor.SetLineCol(startLine, startCol)
		line = startLine
	} else if forwards {
		if line == lines-1 && col >= t.Buffer.RunesInLine(line) {
			t.selectMode = false
			return // Nothing after the cursor
		}
		t.Buffer.Remove(line, col, line, col)
	} else {
		if line == 0 && col == 0 {
			t.selectMode = false
			return
		}
		t.cursor = t.cursor.Left()
		line, col = t.cursor.GetLineCol()
		t.Buffer.Remove(line, col, line, col)
	}

	t.selectMode = false
	t.changed(line, lines)
}

// Insert writes `contents` at the cursor position and moves the cursor past
// it. Line delimiters are converted to the buffer's delimiter and tabs to
// spaces when hard tabs are off. Overwrites any active selection.
func (t *TextEdit) Insert(contents string) {
	var sb strings.Builder
	for i := 0; i < len(contents); {
		r, size := utf8.DecodeRuneInString(contents[i:])
		switch r {
		case '\r':
			if i+1 < len(contents) && contents[i+1] == '\n' {
				size++ // CRLF
			}
			sb.WriteString(t.GetLineDelimiter())
		case '\n':
			sb.WriteString(t.GetLineDelimiter())
		case '\t':
			if t.UseHardTabs {
				sb.WriteByte('\t')
			} else {
				sb.WriteString(strings.Repeat(" ", t.TabSize))
			}
		default:
			sb.WriteRune(r)
		}
		i += size
	}
	if sb.Len() == 0 {
		return
	}

	if _, ok := t.Selection(); ok {
		t.Delete(true)
	}
	t.selectMode = false

	lines := t.Buffer.Lines()
	line, col := t.cursor.GetLineCol()
	pos := t.Buffer.LineColToPos(line, col)
	t.Buffer.Insert(line, col, []byte(sb.String()))
	t.cursor = t.cursor.SetLineCol(t.Buffer.PosToLineCol(pos + sb.Len()))

	t.changed(line, lines)
}

// changed marks the buffer dirty after an edit at line. Only that line needs
// new highlighting unless the number of lines changed; the highlighter
// carries any change of tokenizer state down the following lines itself.
func (t *TextEdit) changed(line, oldLines int) {
	t.Dirty = true
	if t.Buffer.Lines() != oldLines {
		t.Highlighter.InvalidateLines(line, math.MaxInt32)
	} else {
		t.Highlighter.InvalidateLines(line, line)
	}
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// cursorVisualCol returns the screen column of the cursor within its line.
func (t *TextEdit) cursorVisualCol() int {
	line, col := t.cursor.GetLineCol()
	return visualCol(buffer.LineText(t.Buffer, line), col, t.TabSize)
}

// updateCursorVisibility sets the position of the terminal's cursor with the
// cursor of the TextEdit, if the TextEdit is focused.
func (t *TextEdit) updateCursorVisibility() {
	if t.focused && t.screen != nil {
		line, _ := t.cursor.GetLineCol()
		t.screen.ShowCursor(t.x+t.getColumnWidth()+t.cursorVisualCol()-t.scrollx, t.y+line-t.scrolly)
	}
}

// ScrollToCursor scrolls the view if the cursor is out of it.
func (t *TextEdit) ScrollToCursor() {
	line, _ := t.cursor.GetLineCol()

	if line >= t.scrolly+t.height {
		t.scrolly = line - t.height + 1
	}
	if line < t.scrolly {
		t.scrolly = line
	}

	textWidth := t.width - t.getColumnWidth()
	vx := t.cursorVisualCol()
	if vx >= t.scrollx+textWidth {
		t.scrollx = vx - textWidth + 1
	}
	if vx < t.scrollx {
		t.scrollx = vx
	}
	t.scrollx, t.scrolly = max(t.scrollx, 0), max(t.scrolly, 0)
}

// GetScroll returns the first visible screen column and line.
func (t *TextEdit) GetScroll() (x, y int) {
	return t.scrollx, t.scrolly
}

func (t *TextEdit) GetCursor() buffer.Cursor {
	return t.cursor
}

func (t *TextEdit) SetCursor(newCursor buffer.Cursor) {
	t.cursor = newCursor
	t.updateCursorVisibility()
}

// GotoLine moves the cursor to the start of line, counting from zero, and
// scrolls it into view. The selection is dropped.
func (t *TextEdit) GotoLine(line int) {
	t.selectMode = false
	t.cursor = t.cursor.SetLineCol(line, 0)
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextEdit) getColumnWidth() int {
	if !t.LineNumbers {
		return 0
	}
	return max(3, 1+digits(t.Buffer.Lines())) // One cell for the separator
}

// GetSelectedBytes returns the selected part of the buffer, or nil when
// nothing is selected. Do not write to the returned slice.
func (t *TextEdit) GetSelectedBytes() []byte {
	sel, ok := t.Selection()
	if !ok {
		return nil
	}
	startLine, startCol := sel.Start.GetLineCol()
	endLine, endCol := sel.End.GetLineCol()
	return t.Buffer.Slice(startLine, startCol, endLine, endCol)
}

// Inspect returns the qualified class of the token under the cursor and the
// tokenizer state stack at the cursor, bottom first. ok is false for
// buffers without a language.
func (t *TextEdit) Inspect() (class string, stack []string, ok bool) {
	lang := t.Highlighter.Language
	if lang == nil || lang.Tokenizer == nil {
		return "", nil, false
	}

	line, col := t.cursor.GetLineCol()
	if m, found := t.Highlighter.MatchAt(line, col); found {
		class = lang.Tokenizer.Qualify(m.Class)
	}

	runes := []rune(buffer.LineText(t.Buffer, line))
	prefix := string(runes[:min(col, len(runes))])
	_, state := lang.Tokenizer.TokenizeLine(prefix, t.Highlighter.StateAt(line))
	return class, state.Stack(), true
}

func (t *TextEdit) styles() (text, column, selected tcell.Style) {
	text = t.theme.GetOrDefault("TextEdit")
	column = text
	if cs := t.Highlighter.Colorscheme; cs != nil {
		text = cs.GetStyle(buffer.Default)
		column = cs.GetStyle(buffer.Column)
	}
	return text, column, t.theme.GetOrDefault("TextEditSelected")
}

// Draw renders the TextEdit component.
func (t *TextEdit) Draw(s tcell.Screen) {
	columnWidth := t.getColumnWidth()
	textWidth := t.width - columnWidth
	bufferLines := t.Buffer.Lines()
	defaultStyle, columnStyle, selectedStyle := t.styles()
	sel, hasSel := t.Selection()

	t.Highlighter.UpdateInvalidatedLines(t.scrolly, t.scrolly+t.height-1)

	for lineY := t.y; lineY < t.y+t.height; lineY++ {
		line := lineY - t.y + t.scrolly

		DrawRect(s, t.x+columnWidth, lineY, textWidth, 1, ' ', defaultStyle)

		lineNumStr := ""
		if line < bufferLines {
			lineNumStr = fmt.Sprint(line + 1)

			var selection *buffer.Region
			if hasSel {
				selection = &sel
			}
			t.drawLine(s, line, t.x+columnWidth, lineY, textWidth, defaultStyle, selectedStyle, selection)
		}

		if columnWidth > 0 {
			DrawStr(s, t.x, lineY, fmt.Sprintf("%*s│", columnWidth-1, lineNumStr), columnStyle)
		}
	}

	t.updateCursorVisibility()
}

// drawLine draws the visible part of one buffer line at x, y.
func (t *TextEdit) drawLine(s tcell.Screen, line, x, y, width int, defaultStyle, selectedStyle tcell.Style, sel *buffer.Region) {
	matches := t.Highlighter.GetLineMatches(line)
	runes := []rune(buffer.LineText(t.Buffer, line))

	var matchIdx, vx int
	for col := 0; col <= len(runes) && vx-t.scrollx < width; col++ {
		selected := sel != nil && inRegion(*sel, line, col)
		if col == len(runes) { // The line delimiter
			if selected && vx >= t.scrollx {
				s.SetContent(x+vx-t.scrollx, y, ' ', nil, selectedStyle)
			}
			break
		}

		r := runes[col]
		w := runeWidth(r, t.TabSize)

		style := defaultStyle
		for matchIdx < len(matches) && matches[matchIdx].EndCol < col {
			matchIdx++
		}
		if matchIdx < len(matches) && matches[matchIdx].Col <= col {
			style = t.Highlighter.GetStyle(matches[matchIdx])
		}
		if selected {
			style = selectedStyle
		}

		if r == '\t' {
			r = ' '
		} else if unicode.IsControl(r) {
			r = '?'
		}

		for i := 0; i < w; i++ {
			cx := vx + i - t.scrollx
			if cx < 0 || cx >= width {
				continue
			}
			switch {
			case i == 0 || r == ' ':
				s.SetContent(x+cx, y, r, nil, style)
			case cx == 0: // The first half of a wide rune is scrolled away
				s.SetContent(x+cx, y, ' ', nil, style)
			}
		}
		vx += w
	}
}

// inRegion reports whether line, col lies in r.
func inRegion(r buffer.Region, line, col int) bool {
	startLine, startCol := r.Start.GetLineCol()
	endLine, endCol := r.End.GetLineCol()
	switch {
	case line < startLine || line > endLine:
		return false
	case line == startLine && col < startCol:
		return false
	case line == endLine && col > endCol:
		return false
	}
	return true
}

// SetFocused sets whether the TextEdit is focused. When focused, the cursor is set visible
// and its position is updated on every event.
func (t *TextEdit) SetFocused(v bool) {
	t.focused = v
	if v {
		t.updateCursorVisibility()
	} else if t.screen != nil {
		t.screen.HideCursor()
	}
}

// SetSize resizes the view and keeps the cursor in it.
func (t *TextEdit) SetSize(width, height int) {
	t.baseComponent.SetSize(width, height)
	t.ScrollToCursor()
}

// move places the cursor at `to`. With selecting, the selection grows from
// where the cursor was; otherwise it is dropped.
func (t *TextEdit) move(to buffer.Cursor, selecting bool) {
	if selecting {
		if !t.selectMode {
			t.anchor = t.cursor
			t.selectMode = true
		}
	} else {
		t.selectMode = false
	}
	t.cursor = to
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// HandleEvent allows the TextEdit to handle `event` if it chooses, returns
// whether the TextEdit handled the event.
func (t *TextEdit) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}
	shift := ev.Modifiers()&tcell.ModShift != 0
	line, col := t.cursor.GetLineCol()

	switch ev.Key() {
	// Cursor movement
	case tcell.KeyUp:
		t.move(t.cursor.Up(), shift)
	case tcell.KeyDown:
		t.move(t.cursor.Down(), shift)
	case tcell.KeyLeft:
		t.move(t.cursor.Left(), shift)
	case tcell.KeyRight:
		t.move(t.cursor.Right(), shift)
	case tcell.KeyHome:
		t.move(t.cursor.Home(), shift)
	case tcell.KeyEnd:
		t.move(t.cursor.End(), shift)
	case tcell.KeyPgUp:
		t.move(t.cursor.SetLineCol(line-t.height, col), shift)
	case tcell.KeyPgDn:
		t.move(t.cursor.SetLineCol(line+t.height, col), shift)
	case tcell.KeyCtrlA:
		t.SelectAll()

	// Deleting
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.Delete(false)
	case tcell.KeyDelete:
		t.Delete(true)

	// Inserting
	case tcell.KeyTab:
		t.Insert("\t")
	case tcell.KeyEnter:
		t.Insert("\n")
	case tcell.KeyRune:
		t.Insert(string(ev.Rune()))
	default:
		return false
	}
	return true
}
