// Package pl holds the highlighting grammar of the Pattern Language, the
// language used to describe binary data layouts in hex editors.
package pl

import (
	"github.com/fivemoreminix/plhl/monarch"
)

// LanguageID is the id the grammar registers under.
const LanguageID = "pl"

// Extension describes the language to a registry.
var Extension = monarch.LanguageExtension{
	ID:         LanguageID,
	Extensions: []string{".hexpat", ".pat"},
	Aliases:    []string{"Pattern Language", "hexpat"},
}

var (
	Keywords = []string{
		"using", "struct", "union", "enum", "bitfield", "be", "le",
		"if", "else", "match", "false", "true", "this", "parent",
		"addressof", "sizeof", "typenameof", "while", "for", "fn",
		"return", "break", "continue", "namespace", "in", "out", "ref",
		"null", "const", "unsigned", "signed", "try", "catch", "import",
		"as", "from",
	}

	// Operators lists the single-character operators. Only runs of exactly
	// one of these are classified as operator.
	Operators = []string{
		"=", "+", "-", "*", "/", "<", ">", "@", "$", "~", "&", "%", "|",
		"!", "?", "^", ".", ":", `\`,
	}

	// WordOperators are operators spelled as words; they are shown as keywords.
	WordOperators = []string{"addressof", "sizeof", "typenameof", "as", "from"}

	BuiltinTypes = []string{
		"u8", "u16", "u24", "u32", "u48", "u64", "u96", "u128",
		"s8", "s16", "s24", "s32", "s48", "s64", "s96", "s128",
		"float", "double", "char", "char16", "bool", "padding", "str", "auto",
	}
)

// Integer width suffix shared by every integer literal rule: an optional
// digit separator, then i or u with a width.
const intSuffix = `(')?((i|I|u|U)(8|16|32|64))?`

// Definition returns a fresh copy of the grammar. Callers may modify it.
func Definition() *monarch.Definition {
	return &monarch.Definition{
		Lists: map[string][]string{
			"keywords":      clone(Keywords),
			"operators":     clone(Operators),
			"wordOperators": clone(WordOperators),
			"builtintypes":  clone(BuiltinTypes),
		},
		Patterns: map[string]string{
			"symbols":     `[=><!~&|+\-*/^%]+`,
			"escapes":     `\\(p|r|c|n|l|f|t|v|a|b|e|\\|"|'|\d+|x[0-9a-fA-F]{2})`,
			"charEscapes": `\\(r|c|n|l|f|t|v|a|b|e|\\|"|'|x[0-9a-fA-F]{2})`,
			"hexNumber":   `0(x|X)[0-9a-fA-F]('?[0-9a-fA-F])*`,
			"decNumber":   `\d('?\d)*`,
			"octNumber":   `0o[0-7]('?[0-7])*`,
			"binNumber":   `0(b|B)[0-1]('?[0-1])*`,
			"exponent":    `(e|E)(\+|-)?\d('?\d)*`,
		},
		Brackets: []monarch.Bracket{
			{Open: "{", Close: "}", Token: "delimiter.curly"},
			{Open: "[", Close: "]", Token: "delimiter.square"},
			{Open: "(", Close: ")", Token: "delimiter.parenthesis"},
			{Open: "<", Close: ">", Token: "delimiter.angle"},
		},
		States: map[string][]monarch.Rule{
			"root": {
				monarch.MatchCases(`[A-Za-z]([_]?\w)*`,
					monarch.When("@builtintypes", "type"),
					monarch.When("@keywords", "keyword"),
					monarch.When("@wordOperators", "keyword"),
					monarch.When(monarch.GuardDefault, "identifier"),
				),
				monarch.Include("@whitespace"),
				monarch.Match(`([:|[{(]\.|\.[\]})]|[[\]{}()])`, monarch.TokenBrackets),
				monarch.MatchCases(`@symbols`,
					monarch.When("@operators", "operator"),
					monarch.When(monarch.GuardDefault, ""),
				),

				// Floats
				monarch.Match(`@decNumber(\.@decNumber(@exponent)|@exponent)(')?(f|F|d|D)(32|64)?`, "number.float"),
				monarch.Match(`(@decNumber|@octNumber|@binNumber)(')?(f|F|d|D)(32|64)?`, "number.float"),
				monarch.Match(`@hexNumber'(f|F|d|D)(32|64)?`, "number.float"),

				// Integers
				monarch.Match(`@hexNumber`+intSuffix, "number.hex"),
				monarch.Match(`@octNumber`+intSuffix, "number.octal"),
				monarch.Match(`@binNumber`+intSuffix, "number.binary"),
				monarch.Match(`@decNumber`+intSuffix, "number"),

				monarch.MatchGroups(`(")(.*)(")`, "string", "string", "string"),
				monarch.MatchGroups(`(')(.*)(')`, "char", "string", "string"),
				monarch.Match(`^\s*#\s*\w+`, "keyword.directive"),
			},
			"whitespace": {
				monarch.Match(`[ \t\r\n]+`, "white"),
				monarch.MatchNext(`/\*`, "comment", "@comment"),
				monarch.Match(`//.*$`, "comment"),
			},
			"comment": {
				monarch.Match(`[^/*]+`, "comment"),
				monarch.MatchNext(`/\*`, "comment", monarch.NextPush),
				monarch.MatchNext(`\*/`, "comment", monarch.NextPop),
				monarch.Match(`[/*]`, "comment"),
			},
		},
	}
}

// Register adds the language to r and installs its tokenizer.
func Register(r *monarch.Registry) (*monarch.Tokenizer, error) {
	r.Register(Extension)
	return r.SetTokensProvider(LanguageID, Definition())
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
