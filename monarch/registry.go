package monarch

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// A LanguageExtension describes a language to a Registry: its id and the
// file names it claims.
type LanguageExtension struct {
	ID         string
	Extensions []string // ".hexpat"
	Filenames  []string // Exact base names
	Aliases    []string // Human readable names, first one preferred
	MimeTypes  []string
}

// Name returns the preferred human readable name of the language.
func (l LanguageExtension) Name() string {
	if len(l.Aliases) > 0 {
		return l.Aliases[0]
	}
	return l.ID
}

type registration struct {
	ext       LanguageExtension
	tokenizer *Tokenizer
}

// A Registry holds languages and their tokenizers. It is safe for concurrent
// use.
type Registry struct {
	mu     sync.RWMutex
	langs  map[string]*registration
	logger *slog.Logger
}

// NewRegistry returns an empty Registry. A nil logger discards.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		langs:  make(map[string]*registration),
		logger: logger,
	}
}

// SetLogger replaces the registry's logger.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds or replaces a language. Replacing keeps an already installed
// tokenizer.
func (r *Registry) Register(ext LanguageExtension) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.langs[ext.ID]; ok {
		reg.ext = ext
	} else {
		r.langs[ext.ID] = &registration{ext: ext}
	}
	r.logger.Debug("language registered", "id", ext.ID, "extensions", ext.Extensions)
}

// SetTokensProvider compiles def and installs it as the tokenizer of the
// registered language id.
func (r *Registry) SetTokensProvider(id string, def *Definition) (*Tokenizer, error) {
	t, err := Compile(id, def)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reg, ok := r.langs[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownLanguage, id)
	}
	reg.tokenizer = t
	r.logger.Debug("tokens provider set", "id", id, "states", len(def.States))
	return t, nil
}

// Tokenizer returns the tokenizer installed for id.
func (r *Registry) Tokenizer(id string) (*Tokenizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.langs[id]
	if !ok || reg.tokenizer == nil {
		return nil, false
	}
	return reg.tokenizer, true
}

// Language returns the registered description of id.
func (r *Registry) Language(id string) (LanguageExtension, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.langs[id]
	if !ok {
		return LanguageExtension{}, false
	}
	return reg.ext, true
}

// Lookup finds a language by id or, case-insensitively, by alias.
func (r *Registry) Lookup(name string) (LanguageExtension, bool) {
	if ext, ok := r.Language(name); ok {
		return ext, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, reg := range r.langs {
		for _, alias := range reg.ext.Aliases {
			if strings.EqualFold(alias, name) {
				return reg.ext, true
			}
		}
	}
	return LanguageExtension{}, false
}

// ForFilename finds the language claiming path by base name or extension.
// Only languages with a tokenizer are considered.
func (r *Registry) ForFilename(path string) (LanguageExtension, *Tokenizer, bool) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.sortedIDs() {
		reg := r.langs[id]
		if reg.tokenizer == nil {
			continue
		}
		for _, name := range reg.ext.Filenames {
			if name == base {
				return reg.ext, reg.tokenizer, true
			}
		}
		for _, e := range reg.ext.Extensions {
			if ext != "" && strings.ToLower(e) == ext {
				return reg.ext, reg.tokenizer, true
			}
		}
	}
	return LanguageExtension{}, nil, false
}

// Languages returns every registered language ordered by id.
func (r *Registry) Languages() []LanguageExtension {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]LanguageExtension, 0, len(r.langs))
	for _, id := range r.sortedIDs() {
		exts = append(exts, r.langs[id].ext)
	}
	return exts
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.langs))
	for id := range r.langs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
