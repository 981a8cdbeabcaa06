package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/plhl/lang/pl"
	"github.com/fivemoreminix/plhl/monarch"
	"github.com/fivemoreminix/plhl/ui/buffer"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(40, 10)
	return s
}

func plLanguage(t *testing.T) *buffer.Language {
	t.Helper()
	r := monarch.NewRegistry(nil)
	_, err := pl.Register(r)
	require.NoError(t, err)
	return buffer.LanguageFor(r, "test.hexpat")
}

func newTestEdit(t *testing.T, contents string) (*TextEdit, tcell.SimulationScreen) {
	t.Helper()
	s := newScreen(t)
	cs := buffer.DefaultColorscheme()
	te := NewTextEdit(s, "", []byte(contents), plLanguage(t), &cs, nil)
	te.SetPos(0, 0)
	te.SetSize(40, 10)
	te.SetFocused(true)
	return te, s
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func shiftKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModShift)
}

func typeText(te *TextEdit, text string) {
	for _, r := range text {
		te.HandleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
}

func lineCol(te *TextEdit) [2]int {
	line, col := te.GetCursor().GetLineCol()
	return [2]int{line, col}
}

func TestTextEditInsertAdvancesCursor(t *testing.T) {
	te, _ := newTestEdit(t, "")
	assert.False(t, te.Dirty)

	typeText(te, "u8 x;")
	assert.Equal(t, "u8 x;", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{0, 5}, lineCol(te))
	assert.True(t, te.Dirty)

	te.HandleEvent(key(tcell.KeyEnter))
	typeText(te, "é")
	assert.Equal(t, "u8 x;\né", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{1, 1}, lineCol(te))
}

func TestTextEditKeepsCRLF(t *testing.T) {
	te, _ := newTestEdit(t, "a\r\nb")
	assert.True(t, te.IsCRLF)

	te.HandleEvent(key(tcell.KeyEnd))
	te.HandleEvent(key(tcell.KeyEnter))
	assert.Equal(t, "a\r\n\r\nb", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{1, 0}, lineCol(te))

	te.Insert("x\ny\r\nz")
	assert.Equal(t, "a\r\nx\r\ny\r\nz\r\nb", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{3, 1}, lineCol(te))
}

func TestTextEditDelete(t *testing.T) {
	te, _ := newTestEdit(t, "ab\ncd")

	te.HandleEvent(key(tcell.KeyDown))
	te.HandleEvent(key(tcell.KeyHome))
	te.HandleEvent(key(tcell.KeyBackspace2))
	assert.Equal(t, "abcd", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{0, 2}, lineCol(te))

	te.HandleEvent(key(tcell.KeyDelete))
	assert.Equal(t, "abd", string(te.Buffer.Bytes()))

	te.HandleEvent(key(tcell.KeyEnd))
	te.HandleEvent(key(tcell.KeyDelete))
	assert.Equal(t, "abd", string(te.Buffer.Bytes()), "nothing after the last rune")

	te.HandleEvent(key(tcell.KeyHome))
	te.HandleEvent(key(tcell.KeyBackspace))
	assert.Equal(t, "abd", string(te.Buffer.Bytes()), "nothing before the first rune")
}

func TestTextEditShiftSelection(t *testing.T) {
	te, _ := newTestEdit(t, "hello world")

	for range 5 {
		te.HandleEvent(shiftKey(tcell.KeyRight))
	}
	assert.Equal(t, "hello", string(te.GetSelectedBytes()))

	typeText(te, "X")
	assert.Equal(t, "X world", string(te.Buffer.Bytes()))
	assert.Nil(t, te.GetSelectedBytes())

	te.HandleEvent(key(tcell.KeyEnd))
	for range 5 {
		te.HandleEvent(shiftKey(tcell.KeyLeft))
	}
	assert.Equal(t, "world", string(te.GetSelectedBytes()))

	te.HandleEvent(key(tcell.KeyLeft))
	assert.Nil(t, te.GetSelectedBytes(), "moving without shift drops the selection")
}

func TestTextEditSelectionAcrossLines(t *testing.T) {
	te, _ := newTestEdit(t, "ab\ncd")
	te.HandleEvent(key(tcell.KeyRight))
	te.HandleEvent(shiftKey(tcell.KeyDown))
	assert.Equal(t, "b\nc", string(te.GetSelectedBytes()))

	te.HandleEvent(key(tcell.KeyBackspace2))
	assert.Equal(t, "ad", string(te.Buffer.Bytes()))
	assert.Equal(t, [2]int{0, 1}, lineCol(te))
}

func TestTextEditSelectAll(t *testing.T) {
	te, _ := newTestEdit(t, "a\nb")
	te.HandleEvent(key(tcell.KeyCtrlA))
	assert.Equal(t, "a\nb", string(te.GetSelectedBytes()))

	te.Delete(true)
	assert.Equal(t, "", string(te.Buffer.Bytes()))
	assert.Equal(t, 1, te.Buffer.Lines())
}

func TestTextEditSoftTabs(t *testing.T) {
	te, _ := newTestEdit(t, "")
	te.UseHardTabs = false
	te.TabSize = 2
	te.HandleEvent(key(tcell.KeyTab))
	assert.Equal(t, "  ", string(te.Buffer.Bytes()))
}

func TestTextEditDraw(t *testing.T) {
	te, s := newTestEdit(t, "u8 x;\n\tx")
	te.Draw(s)

	cell := func(x, y int) (rune, tcell.Style) {
		r, _, style, _ := s.GetContent(x, y)
		return r, style
	}

	r, _ := cell(1, 0)
	assert.Equal(t, '1', r)
	r, _ = cell(2, 0)
	assert.Equal(t, '│', r)
	r, _ = cell(1, 2)
	assert.Equal(t, ' ', r, "no number past the last line")

	r, style := cell(3, 0)
	assert.Equal(t, 'u', r)
	assert.Equal(t, te.Highlighter.Colorscheme.GetStyle("type"), style)

	r, _ = cell(3+4, 1)
	assert.Equal(t, 'x', r, "a tab takes TabSize cells")

	te.HandleEvent(shiftKey(tcell.KeyRight))
	te.Draw(s)
	_, style = cell(3, 0)
	assert.Equal(t, DefaultTheme["TextEditSelected"], style)

	x, y, visible := s.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, [2]int{4, 0}, [2]int{x, y})
}

func TestTextEditRehighlightsAfterEdit(t *testing.T) {
	te, s := newTestEdit(t, "a\nb")
	te.Draw(s)
	_, _, style, _ := s.GetContent(3, 1)
	assert.Equal(t, te.Highlighter.Colorscheme.GetStyle("identifier"), style)

	typeText(te, "/*")
	te.Draw(s)
	_, _, style, _ = s.GetContent(3, 1)
	assert.Equal(t, te.Highlighter.Colorscheme.GetStyle("comment"), style, "an opened comment reaches the next line")
}

func TestTextEditScroll(t *testing.T) {
	te, _ := newTestEdit(t, "0\n1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n13\n14\n15")
	for range 15 {
		te.HandleEvent(key(tcell.KeyDown))
	}
	_, scrolly := te.GetScroll()
	assert.Equal(t, 6, scrolly)

	te.HandleEvent(key(tcell.KeyPgUp))
	assert.Equal(t, [2]int{5, 0}, lineCol(te))
	_, scrolly = te.GetScroll()
	assert.Equal(t, 5, scrolly)
}

func TestTextEditInspect(t *testing.T) {
	te, _ := newTestEdit(t, "/* a\n b */ u8")

	te.SetCursor(te.GetCursor().SetLineCol(1, 1))
	class, stack, ok := te.Inspect()
	require.True(t, ok)
	assert.Equal(t, "comment.pl", class)
	assert.Equal(t, []string{"root", "comment"}, stack)

	te.SetCursor(te.GetCursor().SetLineCol(1, 7))
	class, stack, ok = te.Inspect()
	require.True(t, ok)
	assert.Equal(t, "type.pl", class)
	assert.Equal(t, []string{"root"}, stack)

	te.SetLanguage(nil)
	_, _, ok = te.Inspect()
	assert.False(t, ok)
}

func TestTextEditSave(t *testing.T) {
	te, _ := newTestEdit(t, "u8 x;")
	assert.ErrorIs(t, te.Save(), ErrNoFilePath)

	te.FilePath = filepath.Join(t.TempDir(), "x.hexpat")
	typeText(te, "// ")
	require.NoError(t, te.Save())
	assert.False(t, te.Dirty)

	data, err := os.ReadFile(te.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "// u8 x;", string(data))
}
