package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Align defines the text alignment of a label.
type Align uint8

const (
	// AlignLeft is the normal text alignment where text is aligned to the left
	// of its bounding box.
	AlignLeft Align = iota
	// AlignRight causes text to be aligned to the right of its bounding box.
	AlignRight
	// AlignCenter places text in the middle of its bounding box.
	AlignCenter
)

// A Label is a single line of text forced to fit its bounding box. The
// editor's status line is a Label.
type Label struct {
	Text      string
	Alignment Align
	// Style is the theme key the label is drawn with.
	Style string

	baseComponent
}

func NewLabel(text string, alignment Align, theme *Theme) *Label {
	return &Label{
		Text:          text,
		Alignment:     alignment,
		Style:         "StatusBar",
		baseComponent: baseComponent{theme: theme, height: 1},
	}
}

func (l *Label) Draw(s tcell.Screen) {
	if l.width <= 0 || l.height <= 0 {
		return
	}
	sty := l.theme.GetOrDefault(l.Style)
	DrawRect(s, l.x, l.y, l.width, 1, ' ', sty)

	text := truncate(l.Text, l.width)
	var col int
	switch l.Alignment {
	case AlignRight:
		col = l.width - runewidth.StringWidth(text)
	case AlignCenter:
		col = (l.width - runewidth.StringWidth(text)) / 2
	}
	DrawStr(s, l.x+col, l.y, text, sty)
}

func (l *Label) GetMinSize() (int, int) {
	return runewidth.StringWidth(l.Text), 1
}

// HandleEvent does nothing; labels are never interactive.
func (l *Label) HandleEvent(tcell.Event) bool {
	return false
}
