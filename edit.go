package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/plhl/config"
	"github.com/fivemoreminix/plhl/monarch"
	"github.com/fivemoreminix/plhl/ui"
	"github.com/fivemoreminix/plhl/ui/buffer"
)

func newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [FILE...]",
		Short: "Edit files in the terminal with Pattern Language highlighting",
		Long: `Open each FILE in its own tab. Files that do not exist yet are
created on save.

Keys: Ctrl+S save, Ctrl+C copy, Ctrl+X cut, Ctrl+V paste, Ctrl+A select
all, Ctrl+G go to line, Ctrl+E / Ctrl+W next / previous tab, Ctrl+Q quit. The status line
shows the token class and tokenizer state under the cursor.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())

			// tcell owns the terminal, so the editor only logs to a file.
			logger, closeLog, err := editorLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			cs, err := cfg.Colorscheme()
			if err != nil {
				return err
			}

			s, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := s.Init(); err != nil {
				return err
			}
			defer s.Fini() // Useful for handling panics

			clip, err := NewClipboard(ClipExternal)
			if err != nil {
				logger.Warn("system clipboard unavailable", "error", err)
			}

			ed := newEditor(s, cfg, getRegistry(cmd.Context()), &cs, clip, logger)
			if len(args) == 0 {
				ed.openNew()
			}
			for _, path := range args {
				if err := ed.open(path); err != nil {
					return err
				}
			}
			ed.run()
			return nil
		},
	}
}

// editorLogger opens the configured log file, or discards.
func editorLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := newLogger(f, cfg)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, func() { _ = f.Close() }, nil
}

// An editor is the terminal application: one tab per file above a status
// line.
type editor struct {
	screen      tcell.Screen
	cfg         *config.Config
	reg         *monarch.Registry
	colorscheme *buffer.Colorscheme
	clip        *Clipboard
	logger      *slog.Logger

	theme  ui.Theme
	tabs   *ui.TabContainer
	status *ui.Label
	dialog *GotoLineDialog // Replaces the status line while open

	message string // Shown in the status line until the next key
	failed  bool
}

func newEditor(s tcell.Screen, cfg *config.Config, reg *monarch.Registry, cs *buffer.Colorscheme, clip *Clipboard, logger *slog.Logger) *editor {
	ed := &editor{
		screen:      s,
		cfg:         cfg,
		reg:         reg,
		colorscheme: cs,
		clip:        clip,
		logger:      logger,
		theme:       ui.Theme{},
	}
	ed.tabs = ui.NewTabContainer(&ed.theme)
	ed.status = ui.NewLabel("", ui.AlignLeft, &ed.theme)
	ed.layout()
	ed.tabs.SetFocused(true)
	return ed
}

func (ed *editor) layout() {
	width, height := ed.screen.Size()
	ed.tabs.SetPos(0, 0)
	ed.tabs.SetSize(width, height-1)
	ed.status.SetPos(0, height-1)
	ed.status.SetSize(width, 1)
	if ed.dialog != nil {
		ed.dialog.SetPos(0, height-1)
		ed.dialog.SetSize(width, 1)
	}
}

// open adds a tab for path. A file that does not exist opens empty.
func (ed *editor) open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("open %s: %w", path, err)
	}

	lang := buffer.LanguageFor(ed.reg, path)
	te := ed.newTextEdit(path, data, lang)
	ed.tabs.AddTab(filepath.Base(path), te)
	ed.tabs.FocusTab(ed.tabs.GetTabCount() - 1)

	langName := "plain text"
	if lang != nil {
		langName = lang.Name
	}
	ed.logger.Info("opened file", "path", path, "language", langName, "lines", te.Buffer.Lines())
	return nil
}

// openNew adds an empty Pattern Language tab without a file.
func (ed *editor) openNew() {
	te := ed.newTextEdit("", nil, buffer.LanguageFor(ed.reg, "noname.hexpat"))
	ed.tabs.AddTab("noname", te)
	ed.tabs.FocusTab(ed.tabs.GetTabCount() - 1)
}

func (ed *editor) newTextEdit(path string, data []byte, lang *buffer.Language) *ui.TextEdit {
	te := ui.NewTextEdit(ed.screen, path, data, lang, ed.colorscheme, &ed.theme)
	te.TabSize = ed.cfg.TabSize
	te.UseHardTabs = ed.cfg.HardTabs
	te.LineNumbers = ed.cfg.LineNumbers
	return te
}

// current returns the visible TextEdit, or nil.
func (ed *editor) current() *ui.TextEdit {
	tab := ed.tabs.Selected()
	if tab == nil {
		return nil
	}
	te, _ := tab.Child.(*ui.TextEdit)
	return te
}

func (ed *editor) notify(err error, format string, args ...any) {
	if err != nil {
		ed.message, ed.failed = err.Error(), true
		ed.logger.Error(fmt.Sprintf(format, args...), "error", err)
		return
	}
	ed.message, ed.failed = fmt.Sprintf(format, args...), false
}

func (ed *editor) save() {
	te := ed.current()
	if te == nil {
		return
	}
	err := te.Save()
	ed.notify(err, "saved %s", te.FilePath)
	if err == nil {
		ed.logger.Info("saved file", "path", te.FilePath, "bytes", te.Buffer.Len())
	}
}

func (ed *editor) copy(cut bool) {
	te := ed.current()
	if te == nil {
		return
	}
	selected := te.GetSelectedBytes()
	if len(selected) == 0 {
		return
	}
	if err := ed.clip.Write(string(selected)); err != nil {
		ed.notify(err, "write clipboard")
		return
	}
	if cut {
		te.Delete(true)
	}
}

func (ed *editor) paste() {
	te := ed.current()
	if te == nil {
		return
	}
	contents, err := ed.clip.Read()
	if err != nil {
		ed.notify(err, "read clipboard")
		return
	}
	te.Insert(contents)
}

// gotoLine opens the go to line dialog for the visible tab.
func (ed *editor) gotoLine() {
	te := ed.current()
	if te == nil {
		return
	}
	ed.dialog = NewGotoLineDialog(ed.screen, &ed.theme, func(line int) {
		te.GotoLine(line - 1)
		ed.closeDialog()
	}, ed.closeDialog)
	ed.layout()
	ed.tabs.SetFocused(false)
	ed.dialog.SetFocused(true)
}

func (ed *editor) closeDialog() {
	ed.dialog.SetFocused(false)
	ed.dialog = nil
	ed.tabs.SetFocused(true)
}

// handleKey runs editor shortcuts and passes other keys to the tabs. It
// returns true when the editor should quit.
func (ed *editor) handleKey(ev *tcell.EventKey) bool {
	ed.message = ""
	if ed.dialog != nil {
		ed.dialog.HandleEvent(ev)
		return false
	}
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		ed.save()
	case tcell.KeyCtrlC:
		ed.copy(false)
	case tcell.KeyCtrlX:
		ed.copy(true)
	case tcell.KeyCtrlV:
		ed.paste()
	case tcell.KeyCtrlG:
		ed.gotoLine()
	default:
		ed.tabs.HandleEvent(ev)
	}
	return false
}

// statusText describes the visible tab: its language, the token and
// tokenizer state under the cursor, and the cursor position.
func (ed *editor) statusText() string {
	if ed.message != "" {
		return ed.message
	}
	te := ed.current()
	if te == nil {
		return "no file"
	}

	parts := []string{"plain text"}
	if lang := te.Highlighter.Language; lang != nil {
		parts[0] = lang.Name
	}
	if class, stack, ok := te.Inspect(); ok {
		if class == "" {
			class = "-"
		}
		parts = append(parts, class, strings.Join(stack, " > "))
	}
	line, col := te.GetCursor().GetLineCol()
	parts = append(parts, fmt.Sprintf("Ln %d, Col %d", line+1, col+1))
	return " " + strings.Join(parts, " | ")
}

func (ed *editor) draw() {
	ed.screen.Clear()
	if ed.tabs.GetTabCount() > 0 {
		ed.tabs.Draw(ed.screen)
	}

	if ed.dialog != nil {
		ed.dialog.Draw(ed.screen)
	} else {
		ed.status.Text = ed.statusText()
		ed.status.Style = "StatusBar"
		if ed.message != "" && ed.failed {
			ed.status.Style = "StatusBarError"
		}
		ed.status.Draw(ed.screen)
	}

	ed.screen.Show()
}

// run draws and handles events until the user quits or the screen is
// finalized.
func (ed *editor) run() {
	for {
		ed.draw()

		switch ev := ed.screen.PollEvent().(type) {
		case *tcell.EventResize:
			ed.layout()
			ed.screen.Sync() // Redraw everything
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}
