package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// An InputField is a single-line input box. Text is drawn between brackets
// and scrolls horizontally to keep the cursor in view.
type InputField struct {
	baseComponent

	text      []rune
	cursorPos int // In runes
	scrollPos int
	screen    tcell.Screen
}

func NewInputField(screen tcell.Screen, placeholder string, theme *Theme) *InputField {
	f := &InputField{
		text:   []rune(placeholder),
		screen: screen,
	}
	f.theme = theme
	f.height = 1
	f.cursorPos = len(f.text)
	return f
}

func (f *InputField) Text() string {
	return string(f.text)
}

func (f *InputField) SetText(text string) {
	f.text = []rune(text)
	f.SetCursorPos(len(f.text))
}

func (f *InputField) GetCursorPos() int {
	return f.cursorPos
}

// SetCursorPos sets the cursor position offset. Offset is clamped to possible values.
// The InputField is scrolled to show the new cursor position.
func (f *InputField) SetCursorPos(offset int) {
	offset = Clamp(offset, 0, len(f.text))
	inner := max(f.width-2, 1)

	if offset >= f.scrollPos+inner { // If cursor position is out of view to the right...
		f.scrollPos = offset - inner + 1 // Scroll just enough to view that column
	} else if offset < f.scrollPos { // If cursor position is out of view to the left...
		f.scrollPos = offset
	}

	f.cursorPos = offset
	if f.focused {
		f.screen.ShowCursor(f.x+1+runewidth.StringWidth(string(f.text[f.scrollPos:offset])), f.y)
	}
}

// Delete removes the rune under the cursor when forward is true and the rune
// before it otherwise.
func (f *InputField) Delete(forward bool) {
	pos := f.cursorPos
	if !forward {
		pos--
	}
	if pos < 0 || pos >= len(f.text) {
		return
	}
	f.text = append(f.text[:pos], f.text[pos+1:]...)
	f.SetCursorPos(pos)
}

func (f *InputField) Insert(r rune) {
	f.text = append(f.text[:f.cursorPos], append([]rune{r}, f.text[f.cursorPos:]...)...)
	f.SetCursorPos(f.cursorPos + 1)
}

func (f *InputField) Draw(s tcell.Screen) {
	if f.width < 2 {
		return
	}
	style := f.theme.GetOrDefault("InputField")

	DrawRect(s, f.x, f.y, f.width, 1, ' ', style) // Draw background
	s.SetContent(f.x, f.y, '[', nil, style)
	s.SetContent(f.x+f.width-1, f.y, ']', nil, style)
	DrawStr(s, f.x+1, f.y, truncate(string(f.text[f.scrollPos:]), f.width-2), style)

	// Update cursor
	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) SetFocused(v bool) {
	f.focused = v
	if v {
		f.SetCursorPos(f.cursorPos)
	} else {
		f.screen.HideCursor()
	}
}

func (f *InputField) GetMinSize() (int, int) {
	return 3, 1
}

func (f *InputField) SetSize(width, _ int) {
	f.baseComponent.SetSize(width, 1)
	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok || !f.focused {
		return false
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		f.SetCursorPos(f.cursorPos - 1)
	case tcell.KeyRight:
		f.SetCursorPos(f.cursorPos + 1)
	case tcell.KeyHome:
		f.SetCursorPos(0)
	case tcell.KeyEnd:
		f.SetCursorPos(len(f.text))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		f.Delete(false)
	case tcell.KeyDelete:
		f.Delete(true)
	case tcell.KeyRune:
		f.Insert(ev.Rune())
	default:
		return false
	}
	return true
}
