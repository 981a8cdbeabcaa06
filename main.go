package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivemoreminix/plhl/config"
	"github.com/fivemoreminix/plhl/lang/pl"
	"github.com/fivemoreminix/plhl/monarch"
)

// Version information (set at build time).
var version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

type registryKey struct{}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "plhl",
		Short: "Pattern Language highlighting toolkit",
		Long: `plhl highlights Pattern Language (.hexpat) sources, the layout
descriptions hex editors use to decode binary files.

It can edit them in the terminal, print their tokens, render them with
colors, and export the grammar for Monaco-compatible editors.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			reg, err := newRegistry(logger)
			if err != nil {
				return err
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			ctx = context.WithValue(ctx, registryKey{}, reg)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./plhl.yaml)")
	rootCmd.PersistentFlags().String("style", "", "chroma style used by render and classes")
	rootCmd.PersistentFlags().String("formatter", "", "chroma formatter used by render (auto|terminal|terminal256|terminal16m|html|noop)")
	rootCmd.PersistentFlags().Int("tab-size", 0, "columns per tab in the editor")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")

	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newTokensCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newMonarchCommand())
	rootCmd.AddCommand(newLangsCommand())
	rootCmd.AddCommand(newClassesCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// newRegistry returns a registry holding every built in language.
func newRegistry(logger *slog.Logger) (*monarch.Registry, error) {
	reg := monarch.NewRegistry(logger)
	if _, err := pl.Register(reg); err != nil {
		return nil, fmt.Errorf("register %s: %w", pl.LanguageID, err)
	}
	return reg, nil
}

// newLogger returns a text logger writing to w at the configured level.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return config.Default()
}

func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

func getRegistry(ctx context.Context) *monarch.Registry {
	if r, ok := ctx.Value(registryKey{}).(*monarch.Registry); ok {
		return r
	}
	r, _ := newRegistry(getLogger(ctx))
	return r
}
