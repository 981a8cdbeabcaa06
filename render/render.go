package render

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/styles"
	"github.com/muesli/termenv"
)

var (
	ErrUnknownFormatter = errors.New("unknown formatter")
	ErrUnknownStyle     = errors.New("unknown style")
)

// Options control Render. The zero value picks a formatter for the writer
// and chroma's fallback style.
type Options struct {
	Formatter chroma.Formatter
	Style     *chroma.Style
}

// Render tokenizes text with lexer and writes it to w.
func Render(w io.Writer, lexer chroma.Lexer, text string, opts Options) error {
	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return fmt.Errorf("tokenise: %w", err)
	}

	formatter := opts.Formatter
	if formatter == nil {
		formatter = FormatterFor(w)
	}
	style := opts.Style
	if style == nil {
		style = styles.Fallback
	}

	if err := formatter.Format(w, style, it); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}

// FormatterFor picks the terminal formatter matching the color support of
// w. Writers that are not terminals, and any writer when NO_COLOR is set, get
// plain text.
func FormatterFor(w io.Writer) chroma.Formatter {
	switch termenv.NewOutput(w).EnvColorProfile() {
	case termenv.TrueColor:
		return formatters.TTY16m
	case termenv.ANSI256:
		return formatters.TTY256
	case termenv.ANSI:
		return formatters.TTY16
	}
	return formatters.NoOp
}

// Formatter looks up a chroma formatter by name. The empty name and "auto"
// choose one for w with FormatterFor.
func Formatter(name string, w io.Writer) (chroma.Formatter, error) {
	if name == "" || name == "auto" {
		return FormatterFor(w), nil
	}
	f, ok := formatters.Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormatter, name)
	}
	return f, nil
}

// Style looks up a chroma style by name. The empty name is the fallback
// style.
func Style(name string) (*chroma.Style, error) {
	if name == "" {
		return styles.Fallback, nil
	}
	s, ok := styles.Registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStyle, name)
	}
	return s, nil
}

// StyleNames lists the available styles.
func StyleNames() []string {
	names := styles.Names()
	sort.Strings(names)
	return names
}
