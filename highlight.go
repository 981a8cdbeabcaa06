package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fivemoreminix/plhl/config"
	"github.com/fivemoreminix/plhl/monarch"
	"github.com/fivemoreminix/plhl/render"
)

const watchDebounce = 100 * time.Millisecond

// chroma's lexer registry is global; the built in languages join it once.
var registerChroma sync.Once

func newRenderCommand() *cobra.Command {
	var (
		lang  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "render FILE...",
		Short: "Print files with syntax highlighting",
		Long: `Render each FILE through chroma with the configured style and
formatter. Pattern Language files use the plhl grammar; other files use
chroma's own lexers. Several files are tokenized concurrently and printed
in order.

With --watch, files are printed again whenever they change, until
interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := newRenderer(getRegistry(ctx), getConfig(ctx), lang, cmd.OutOrStdout(), getLogger(ctx))
			if err != nil {
				return err
			}
			if !watch {
				return r.renderFiles(ctx, args)
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
			defer stop()
			return r.watch(ctx, args)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "chroma lexer name, instead of guessing from the file name")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Render again when a file changes")

	return cmd
}

// A renderer prints highlighted files to one writer.
type renderer struct {
	opts   render.Options
	lang   string
	logger *slog.Logger

	mu  sync.Mutex // Guards out
	out io.Writer
}

func newRenderer(reg *monarch.Registry, cfg *config.Config, lang string, out io.Writer, logger *slog.Logger) (*renderer, error) {
	registerChroma.Do(func() {
		render.RegisterChroma(reg)
	})

	formatter, err := render.Formatter(cfg.Formatter, out)
	if err != nil {
		return nil, err
	}
	style, err := render.Style(cfg.Style)
	if err != nil {
		return nil, err
	}
	if lang != "" && lexers.Get(lang) == nil {
		return nil, fmt.Errorf("%w %q", monarch.ErrUnknownLanguage, lang)
	}

	return &renderer{
		opts:   render.Options{Formatter: formatter, Style: style},
		lang:   lang,
		logger: logger,
		out:    out,
	}, nil
}

func (r *renderer) lexer(path string) chroma.Lexer {
	if r.lang != "" {
		return lexers.Get(r.lang)
	}
	if l := lexers.Match(path); l != nil {
		return l
	}
	return lexers.Fallback
}

func (r *renderer) renderFile(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lexer := r.lexer(path)
	r.logger.Debug("rendering", "file", path, "lexer", lexer.Config().Name)
	if err := render.Render(w, lexer, string(data), r.opts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// renderFiles renders paths concurrently and writes them out in order, each
// under a header when there are several.
func (r *renderer) renderFiles(ctx context.Context, paths []string) error {
	outs := make([]bytes.Buffer, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.renderFile(&outs[i], path)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, path := range paths {
		if len(paths) > 1 {
			if _, err := fmt.Fprintf(r.out, "==> %s <==\n", path); err != nil {
				return err
			}
		}
		if _, err := outs[i].WriteTo(r.out); err != nil {
			return err
		}
	}
	return nil
}

// watch renders paths, then renders each again after it changes, until ctx
// is done. The directories are watched rather than the files so editors
// that replace files on save are followed.
func (r *renderer) watch(ctx context.Context, paths []string) error {
	if err := r.renderFiles(ctx, paths); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}
	r.logger.Info("watching for changes", "files", len(paths))

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !watched[event.Name] {
				continue
			}

			// Debounce the burst of events one save makes
			path := event.Name
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(watchDebounce, func() {
				r.logger.Info("change detected", "file", filepath.Base(path))
				if err := r.renderFiles(ctx, []string{path}); err != nil {
					r.logger.Error("render failed", "file", path, "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", "error", err)
		}
	}
}
