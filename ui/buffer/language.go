package buffer

import (
	"github.com/fivemoreminix/plhl/monarch"
)

// A Language binds a compiled tokenizer to the buffers of its files.
type Language struct {
	Name      string
	Filetypes []string // .hexpat, .pat, etc.
	Tokenizer *monarch.Tokenizer
}

// LanguageFor returns the language r has for path, or nil when no language
// with a tokenizer claims it.
func LanguageFor(r *monarch.Registry, path string) *Language {
	ext, tok, ok := r.ForFilename(path)
	if !ok {
		return nil
	}
	return &Language{
		Name:      ext.Name(),
		Filetypes: ext.Extensions,
		Tokenizer: tok,
	}
}
