package main

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/plhl/ui"
)

const gotoLinePrompt = "Go to line: "

// A GotoLineDialog asks for a line number in place of the status line.
// Enter confirms and Esc cancels.
type GotoLineDialog struct {
	LineChosenCallback func(int) // Line counts from one
	CancelCallback     func()

	x, y          int
	width, height int
	focused       bool

	label      *ui.Label
	inputField *ui.InputField
}

func NewGotoLineDialog(s tcell.Screen, theme *ui.Theme, lineChosenCallback func(int), cancelCallback func()) *GotoLineDialog {
	return &GotoLineDialog{
		LineChosenCallback: lineChosenCallback,
		CancelCallback:     cancelCallback,
		label:              ui.NewLabel(gotoLinePrompt, ui.AlignLeft, theme),
		inputField:         ui.NewInputField(s, "", theme),
	}
}

// onConfirm reports the entered line. Anything but a positive number keeps
// the dialog open.
func (d *GotoLineDialog) onConfirm() bool {
	num, err := strconv.Atoi(strings.TrimSpace(d.inputField.Text()))
	if err != nil || num < 1 {
		return false
	}
	if d.LineChosenCallback != nil {
		d.LineChosenCallback(num)
	}
	return true
}

func (d *GotoLineDialog) Draw(s tcell.Screen) {
	d.label.Draw(s)
	d.inputField.Draw(s)
}

func (d *GotoLineDialog) SetFocused(v bool) {
	d.focused = v
	d.inputField.SetFocused(v)
}

func (d *GotoLineDialog) SetTheme(theme *ui.Theme) {
	d.label.SetTheme(theme)
	d.inputField.SetTheme(theme)
}

func (d *GotoLineDialog) GetPos() (int, int) {
	return d.x, d.y
}

func (d *GotoLineDialog) SetPos(x, y int) {
	d.x, d.y = x, y
	d.label.SetPos(x, y)
	d.inputField.SetPos(x+len(gotoLinePrompt), y)
}

func (d *GotoLineDialog) GetMinSize() (int, int) {
	return len(gotoLinePrompt) + 8, 1
}

func (d *GotoLineDialog) GetSize() (int, int) {
	return d.width, d.height
}

func (d *GotoLineDialog) SetSize(width, _ int) {
	d.width, d.height = width, 1
	d.label.SetSize(len(gotoLinePrompt), 1)
	d.inputField.SetSize(max(width-len(gotoLinePrompt), 0), 1)
}

func (d *GotoLineDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok {
		switch ev.Key() {
		case tcell.KeyEsc:
			if d.CancelCallback != nil {
				d.CancelCallback()
			}
			return true
		case tcell.KeyEnter:
			d.onConfirm()
			return true
		}
	}
	return d.inputField.HandleEvent(event)
}

var _ ui.Component = (*GotoLineDialog)(nil)
