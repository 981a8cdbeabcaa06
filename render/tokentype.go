// Package render turns tokenized text into highlighted output through chroma
// formatters and styles.
package render

import (
	"sort"
	"strings"

	"github.com/alecthomas/chroma"
)

// tokenTypes maps token classes onto chroma's token hierarchy. Classes not
// listed fall back to their dotted parent.
var tokenTypes = map[string]chroma.TokenType{
	"":                  chroma.Text,
	"source":            chroma.Text,
	"white":             chroma.TextWhitespace,
	"identifier":        chroma.Name,
	"type":              chroma.KeywordType,
	"keyword":           chroma.Keyword,
	"keyword.directive": chroma.CommentPreproc,
	"operator":          chroma.Operator,
	"delimiter":         chroma.Punctuation,
	"number":            chroma.LiteralNumber,
	"number.hex":        chroma.LiteralNumberHex,
	"number.octal":      chroma.LiteralNumberOct,
	"number.binary":     chroma.LiteralNumberBin,
	"number.float":      chroma.LiteralNumberFloat,
	"string":            chroma.LiteralString,
	"char":              chroma.LiteralStringChar,
	"comment":           chroma.Comment,
	"invalid":           chroma.Error,
}

// TokenType returns the chroma token type for a token class, trying
// "number.hex", then "number", then falling back to Text.
func TokenType(class string) chroma.TokenType {
	for {
		if tt, ok := tokenTypes[class]; ok {
			return tt
		}
		i := strings.LastIndexByte(class, '.')
		if i < 0 {
			return chroma.Text
		}
		class = class[:i]
	}
}

// Classes returns the token classes with a direct chroma mapping, sorted.
func Classes() []string {
	classes := make([]string, 0, len(tokenTypes))
	for class := range tokenTypes {
		if class != "" {
			classes = append(classes, class)
		}
	}
	sort.Strings(classes)
	return classes
}
