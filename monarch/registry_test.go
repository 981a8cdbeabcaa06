package monarch

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/plhl/internal/testutil"
)

func TestRegistrySetTokensProvider(t *testing.T) {
	r := NewRegistry(testutil.NewTestLogger(t))

	_, err := r.SetTokensProvider("test", testDefinition())
	assert.True(t, errors.Is(err, ErrUnknownLanguage))

	r.Register(LanguageExtension{ID: "test", Extensions: []string{".tst"}})
	_, ok := r.Tokenizer("test")
	assert.False(t, ok, "no tokenizer before one is provided")

	tok, err := r.SetTokensProvider("test", testDefinition())
	require.NoError(t, err)
	got, ok := r.Tokenizer("test")
	require.True(t, ok)
	assert.Same(t, tok, got)

	// Registering again keeps the tokenizer.
	r.Register(LanguageExtension{ID: "test", Extensions: []string{".tst", ".test"}})
	got, ok = r.Tokenizer("test")
	require.True(t, ok)
	assert.Same(t, tok, got)
	ext, _ := r.Language("test")
	assert.Equal(t, []string{".tst", ".test"}, ext.Extensions)
}

func TestRegistrySetTokensProviderRejectsBadDefinition(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(LanguageExtension{ID: "test"})

	_, err := r.SetTokensProvider("test", &Definition{})
	assert.True(t, errors.Is(err, ErrUnknownState))
	_, ok := r.Tokenizer("test")
	assert.False(t, ok)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(LanguageExtension{ID: "test", Aliases: []string{"Test Language", "tst"}})

	ext, ok := r.Lookup("test")
	require.True(t, ok)
	assert.Equal(t, "Test Language", ext.Name())

	ext, ok = r.Lookup("TST")
	require.True(t, ok)
	assert.Equal(t, "test", ext.ID)

	_, ok = r.Lookup("nope")
	assert.False(t, ok)

	assert.Equal(t, "bare", LanguageExtension{ID: "bare"}.Name())
}

func TestRegistryForFilename(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(LanguageExtension{ID: "test", Extensions: []string{".tst"}, Filenames: []string{"Testfile"}})
	r.Register(LanguageExtension{ID: "plain", Extensions: []string{".txt"}})
	_, err := r.SetTokensProvider("test", testDefinition())
	require.NoError(t, err)

	tests := []struct {
		path string
		want string
	}{
		{"a/b/c.tst", "test"},
		{"C.TST", "test"},
		{"dir/Testfile", "test"},
		{"notes.txt", ""}, // Registered without a tokenizer
		{"tst", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		ext, tok, ok := r.ForFilename(tt.path)
		if tt.want == "" {
			assert.False(t, ok, tt.path)
			assert.Nil(t, tok, tt.path)
			continue
		}
		require.True(t, ok, tt.path)
		assert.Equal(t, tt.want, ext.ID, tt.path)
		assert.NotNil(t, tok, tt.path)
	}
}

func TestRegistryLanguagesSorted(t *testing.T) {
	r := NewRegistry(nil)
	for _, id := range []string{"c", "a", "b"} {
		r.Register(LanguageExtension{ID: id})
	}

	var ids []string
	for _, ext := range r.Languages() {
		ids = append(ids, ext.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestRegistryConcurrentUse(t *testing.T) {
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("lang%d", i)
			r.Register(LanguageExtension{ID: id, Extensions: []string{"." + id}})
			_, err := r.SetTokensProvider(id, testDefinition())
			assert.NoError(t, err)
			_, _, ok := r.ForFilename("file." + id)
			assert.True(t, ok)
			r.Languages()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Languages(), 8)
}
