// Package config loads plhl settings from defaults, a YAML file, PLHL_
// environment variables and command line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/fivemoreminix/plhl/ui/buffer"
)

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "plhl.yaml"

const envPrefix = "PLHL_"

var (
	ErrUnknownColor = errors.New("unknown color")
	ErrInvalid      = errors.New("invalid config")
)

// A ColorRule styles one token class in the editor.
type ColorRule struct {
	Class     string `koanf:"class"`
	Fg        string `koanf:"fg"`
	Bg        string `koanf:"bg"`
	Bold      bool   `koanf:"bold"`
	Italic    bool   `koanf:"italic"`
	Underline bool   `koanf:"underline"`
}

// Config holds every setting of the plhl commands.
type Config struct {
	Style       string      `koanf:"style"`     // chroma style for render
	Formatter   string      `koanf:"formatter"` // chroma formatter for render, or "auto"
	TabSize     int         `koanf:"tab_size"`
	HardTabs    bool        `koanf:"hard_tabs"`
	LineNumbers bool        `koanf:"line_numbers"`
	LogLevel    string      `koanf:"log_level"`
	LogFile     string      `koanf:"log_file"`
	Colors      []ColorRule `koanf:"colors"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"style":        "monokai",
		"formatter":    "auto",
		"tab_size":     4,
		"hard_tabs":    true,
		"line_numbers": true,
		"log_level":    "info",
		"log_file":     "",
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Style:       "monokai",
		Formatter:   "auto",
		TabSize:     4,
		HardTabs:    true,
		LineNumbers: true,
		LogLevel:    "info",
	}
}

// findFile returns the file to read: explicit if given, else DefaultFile
// when it exists.
func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load reads the configuration. Precedence (highest to lowest): flags that
// were set > env vars > config file > defaults. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// PLHL_TAB_SIZE -> tab_size
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed range.
func (c *Config) Validate() error {
	if c.TabSize < 1 {
		return fmt.Errorf("%w: tab_size must be positive, got %d", ErrInvalid, c.TabSize)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, rule := range c.Colors {
		if rule.Class == "" {
			return fmt.Errorf("%w: color rule without a class", ErrInvalid)
		}
	}
	return nil
}

// Level parses LogLevel (debug, info, warn or error).
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
	}
	return level, nil
}

// Colorscheme returns the default editor colorscheme with the configured
// rules applied over it.
func (c *Config) Colorscheme() (buffer.Colorscheme, error) {
	cs := buffer.DefaultColorscheme()
	for _, rule := range c.Colors {
		style := tcell.StyleDefault.Bold(rule.Bold).Italic(rule.Italic).Underline(rule.Underline)
		if rule.Fg != "" {
			fg, err := color(rule.Fg)
			if err != nil {
				return nil, fmt.Errorf("colors %s: %w", rule.Class, err)
			}
			style = style.Foreground(fg)
		}
		if rule.Bg != "" {
			bg, err := color(rule.Bg)
			if err != nil {
				return nil, fmt.Errorf("colors %s: %w", rule.Class, err)
			}
			style = style.Background(bg)
		}
		class := rule.Class
		if class == "default" {
			class = buffer.Default
		}
		cs[class] = style
	}
	return cs, nil
}

// color accepts tcell color names and #rrggbb.
func color(name string) (tcell.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if _, ok := tcell.ColorNames[name]; !ok && !strings.HasPrefix(name, "#") {
		return tcell.ColorDefault, fmt.Errorf("%w %q", ErrUnknownColor, name)
	}
	col := tcell.GetColor(name)
	if col == tcell.ColorDefault {
		return col, fmt.Errorf("%w %q", ErrUnknownColor, name)
	}
	return col, nil
}
