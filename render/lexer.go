package render

import (
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/lexers"

	"github.com/fivemoreminix/plhl/monarch"
)

// Lexer adapts a compiled monarch tokenizer to chroma.
type Lexer struct {
	config    *chroma.Config
	tokenizer *monarch.Tokenizer
}

var _ chroma.Lexer = (*Lexer)(nil)

// NewLexer wraps t, describing it to chroma with ext.
func NewLexer(ext monarch.LanguageExtension, t *monarch.Tokenizer) *Lexer {
	config := &chroma.Config{
		Name:      ext.Name(),
		Aliases:   append([]string{ext.ID}, ext.Aliases...),
		MimeTypes: ext.MimeTypes,
		Priority:  1,
	}
	for _, e := range ext.Extensions {
		config.Filenames = append(config.Filenames, "*"+e)
	}
	config.Filenames = append(config.Filenames, ext.Filenames...)
	return &Lexer{config: config, tokenizer: t}
}

// Config implements chroma.Lexer.
func (l *Lexer) Config() *chroma.Config {
	return l.config
}

// Tokenise implements chroma.Lexer. Line delimiters come through as Text
// tokens, so the values of the returned tokens concatenate back to text.
func (l *Lexer) Tokenise(_ *chroma.TokeniseOptions, text string) (chroma.Iterator, error) {
	var tokens []chroma.Token
	state := l.tokenizer.InitialState()
	for {
		line, rest, more := strings.Cut(text, "\n")
		eol := ""
		if more {
			eol = "\n"
			if strings.HasSuffix(line, "\r") {
				line, eol = line[:len(line)-1], "\r\n"
			}
		}

		var toks []monarch.Token
		toks, state = l.tokenizer.TokenizeLine(line, state)
		for _, s := range (monarch.Line{Text: line, Tokens: toks}).Spans() {
			tokens = append(tokens, chroma.Token{Type: TokenType(s.Type), Value: s.Text})
		}
		if !more {
			break
		}
		tokens = append(tokens, chroma.Token{Type: chroma.Text, Value: eol})
		text = rest
	}
	return chroma.Literator(tokens...), nil
}

// RegisterChroma registers every language of r that has a tokenizer with
// chroma's lexer registry, so lexers.Get finds it by id or alias. The
// registered lexers are returned.
func RegisterChroma(r *monarch.Registry) []chroma.Lexer {
	var registered []chroma.Lexer
	for _, ext := range r.Languages() {
		t, ok := r.Tokenizer(ext.ID)
		if !ok {
			continue
		}
		registered = append(registered, lexers.Register(chroma.Coalesce(NewLexer(ext, t))))
	}
	return registered
}
