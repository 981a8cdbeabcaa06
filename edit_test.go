package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/plhl/config"
	"github.com/fivemoreminix/plhl/internal/testutil"
	"github.com/fivemoreminix/plhl/ui/buffer"
)

func newTestEditor(t *testing.T) (*editor, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(60, 12)

	reg, err := newRegistry(nil)
	require.NoError(t, err)
	clip, err := NewClipboard(ClipInternal)
	require.NoError(t, err)

	cs := buffer.DefaultColorscheme()
	return newEditor(s, config.Default(), reg, &cs, clip, testutil.NewTestLogger(t)), s
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func ctrlKey(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModCtrl)
}

func TestEditorOpenNew(t *testing.T) {
	ed, _ := newTestEditor(t)
	ed.openNew()

	require.Equal(t, 1, ed.tabs.GetTabCount())
	assert.Equal(t, "noname", ed.tabs.GetTab(0).Name)
	te := ed.current()
	require.NotNil(t, te)
	require.NotNil(t, te.Highlighter.Language)
	assert.Equal(t, "Pattern Language", te.Highlighter.Language.Name)

	ed.handleKey(ctrlKey(tcell.KeyCtrlS))
	assert.True(t, ed.failed, "a tab without a file cannot be saved")
}

func TestEditorTypeAndSave(t *testing.T) {
	ed, s := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "new.hexpat")
	require.NoError(t, ed.open(path))

	for _, r := range "u8 x;" {
		s.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
	s.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	s.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	ed.run()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "u8 x;", string(data))
	assert.False(t, ed.current().Dirty)
	assert.False(t, ed.failed)
}

func TestEditorStatusLine(t *testing.T) {
	ed, s := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "a.hexpat")
	require.NoError(t, os.WriteFile(path, []byte("/* a\n b */ u8 x;"), 0o644))
	require.NoError(t, ed.open(path))

	ed.handleKey(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	assert.Equal(t, " Pattern Language | comment.pl | root > comment | Ln 2, Col 1", ed.statusText())

	ed.draw()
	_, height := s.Size()
	r, _, style, _ := s.GetContent(1, height-1)
	assert.Equal(t, 'P', r)
	assert.Equal(t, ed.theme.GetOrDefault("StatusBar"), style)
}

func TestEditorOpenPlainText(t *testing.T) {
	ed, _ := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	require.NoError(t, ed.open(path))

	assert.Nil(t, ed.current().Highlighter.Language)
	assert.Equal(t, " plain text | Ln 1, Col 1", ed.statusText())
}

func TestEditorCutPaste(t *testing.T) {
	ed, _ := newTestEditor(t)
	require.NoError(t, ed.open(filepath.Join(t.TempDir(), "a.hexpat")))
	te := ed.current()

	for _, r := range "u8 x;" {
		ed.handleKey(runeKey(r))
	}
	ed.handleKey(ctrlKey(tcell.KeyCtrlA))
	ed.handleKey(ctrlKey(tcell.KeyCtrlX))
	assert.Equal(t, "", string(te.Buffer.Bytes()))

	ed.handleKey(ctrlKey(tcell.KeyCtrlV))
	ed.handleKey(ctrlKey(tcell.KeyCtrlV))
	assert.Equal(t, "u8 x;u8 x;", string(te.Buffer.Bytes()))

	ed.handleKey(ctrlKey(tcell.KeyCtrlA))
	ed.handleKey(ctrlKey(tcell.KeyCtrlC))
	contents, err := ed.clip.Read()
	require.NoError(t, err)
	assert.Equal(t, "u8 x;u8 x;", contents)
	assert.Equal(t, "u8 x;u8 x;", string(te.Buffer.Bytes()))
}

func TestEditorTabs(t *testing.T) {
	ed, _ := newTestEditor(t)
	dir := t.TempDir()
	require.NoError(t, ed.open(filepath.Join(dir, "a.hexpat")))
	require.NoError(t, ed.open(filepath.Join(dir, "b.hexpat")))
	assert.Equal(t, 1, ed.tabs.GetSelectedTabIdx())

	ed.handleKey(ctrlKey(tcell.KeyCtrlE))
	assert.Equal(t, 0, ed.tabs.GetSelectedTabIdx())

	assert.True(t, ed.handleKey(ctrlKey(tcell.KeyCtrlQ)))
}

func TestClipboardInternal(t *testing.T) {
	clip, err := NewClipboard(ClipInternal)
	require.NoError(t, err)
	assert.Equal(t, ClipInternal, clip.Method())

	contents, err := clip.Read()
	require.NoError(t, err)
	assert.Empty(t, contents)

	require.NoError(t, clip.Write("u8 x;"))
	contents, err = clip.Read()
	require.NoError(t, err)
	assert.Equal(t, "u8 x;", contents)
}

func TestEditorGotoLine(t *testing.T) {
	ed, s := newTestEditor(t)
	path := filepath.Join(t.TempDir(), "a.hexpat")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\ne"), 0o644))
	require.NoError(t, ed.open(path))
	te := ed.current()

	ed.handleKey(ctrlKey(tcell.KeyCtrlG))
	require.NotNil(t, ed.dialog)
	ed.draw()
	_, height := s.Size()
	r, _, _, _ := s.GetContent(0, height-1)
	assert.Equal(t, 'G', r)

	ed.handleKey(runeKey('x'))
	ed.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	require.NotNil(t, ed.dialog, "not a number")

	ed.handleKey(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	ed.handleKey(runeKey('4'))
	ed.handleKey(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Nil(t, ed.dialog)
	line, col := te.GetCursor().GetLineCol()
	assert.Equal(t, [2]int{3, 0}, [2]int{line, col})
	assert.Equal(t, "a\nb\nc\nd\ne", string(te.Buffer.Bytes()), "typing went to the dialog")

	ed.handleKey(ctrlKey(tcell.KeyCtrlG))
	ed.handleKey(tcell.NewEventKey(tcell.KeyEsc, 0, tcell.ModNone))
	assert.Nil(t, ed.dialog)
	line, _ = te.GetCursor().GetLineCol()
	assert.Equal(t, 3, line)
}
