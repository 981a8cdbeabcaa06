package monarch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDefinition is a small C-like language exercising every action form.
func testDefinition() *Definition {
	return &Definition{
		Lists: map[string][]string{
			"keywords": {"if", "else", "Return"},
		},
		Patterns: map[string]string{
			"digits": `\d+`,
			"hex":    `0x[0-9a-f]+`,
		},
		Brackets: []Bracket{
			{Open: "{", Close: "}", Token: "delimiter.curly"},
			{Open: "(", Close: ")", Token: "delimiter.parenthesis"},
		},
		States: map[string][]Rule{
			"root": {
				MatchCases(`[a-zA-Z]\w*`,
					When("@keywords", "keyword"),
					When(`[A-Z]\w*`, "type"),
					When("@default", "identifier"),
				),
				Include("@whitespace"),
				Match(`[{}()]|\.[)}]`, "@brackets"),
				Match(`@hex`, "number.hex"),
				Match(`@digits`, "number"),
				MatchGroups(`(")([^"]*)(")`, "string.quote", "string", "string.quote"),
				Match(`^#\w+`, "keyword.directive"),
				MatchCases(`;`, When("@eos", "delimiter.end"), When("@default", "delimiter")),
			},
			"whitespace": {
				Match(`[ \t]+`, "white"),
				MatchNext(`/\*`, "comment", "@comment"),
				Match(`//.*$`, "comment"),
			},
			"comment": {
				Match(`[^/*]+`, "comment"),
				MatchNext(`/\*`, "comment", NextPush),
				MatchNext(`\*/`, "comment", NextPop),
				Match(`[/*]`, "comment"),
			},
		},
	}
}

func mustCompile(t *testing.T, def *Definition) *Tokenizer {
	t.Helper()
	tok, err := Compile("test", def)
	require.NoError(t, err)
	return tok
}

type span struct {
	text string
	typ  string
}

func lineSpans(tok *Tokenizer, line string, state *State) ([]span, *State) {
	tokens, end := tok.TokenizeLine(line, state)
	l := Line{Text: line, Tokens: tokens}
	var out []span
	for _, s := range l.Spans() {
		out = append(out, span{s.Text, s.Type})
	}
	return out, end
}

func TestTokenizeLineClassifies(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	got, end := lineSpans(tok, `if Foo bar 0x1f 42 "hi"`, nil)
	assert.Equal(t, []span{
		{"if", "keyword"},
		{" ", "white"},
		{"Foo", "type"},
		{" ", "white"},
		{"bar", "identifier"},
		{" ", "white"},
		{"0x1f", "number.hex"},
		{" ", "white"},
		{"42", "number"},
		{" ", "white"},
		{`"`, "string.quote"},
		{"hi", "string"},
		{`"`, "string.quote"},
	}, got)
	assert.Equal(t, "root", end.Name())
	assert.Equal(t, 0, end.Depth())
}

func TestTokenizeLineFirstRuleWins(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	// "Return" is both in the keyword list and capitalized; the keyword case
	// comes first.
	got, _ := lineSpans(tok, "Return", nil)
	assert.Equal(t, []span{{"Return", "keyword"}}, got)
}

func TestTokenizeLineDefaultToken(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	got, _ := lineSpans(tok, "a@@é", nil)
	assert.Equal(t, []span{
		{"a", "identifier"},
		{"@@é", "source"},
	}, got, "unmatched runes merge into one default token")
}

func TestTokenizeLineLineStartRules(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	got, _ := lineSpans(tok, "#pragma", nil)
	assert.Equal(t, []span{{"#pragma", "keyword.directive"}}, got)

	got, _ = lineSpans(tok, " #pragma", nil)
	assert.Equal(t, []span{
		{" ", "white"},
		{"#", "source"},
		{"pragma", "identifier"},
	}, got)
}

func TestTokenizeLineEOSGuard(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	got, _ := lineSpans(tok, "a;b;", nil)
	assert.Equal(t, []span{
		{"a", "identifier"},
		{";", "delimiter"},
		{"b", "identifier"},
		{";", "delimiter.end"},
	}, got)
}

func TestTokenizeLineBrackets(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	tokens, _ := tok.TokenizeLine("(){.}.", nil)
	require.Len(t, tokens, 5)
	assert.Equal(t, Token{Offset: 0, Type: "delimiter.parenthesis", Bracket: BracketOpen}, tokens[0])
	assert.Equal(t, Token{Offset: 1, Type: "delimiter.parenthesis", Bracket: BracketClose}, tokens[1])
	assert.Equal(t, Token{Offset: 2, Type: "delimiter.curly", Bracket: BracketOpen}, tokens[2])
	assert.Equal(t, Token{Offset: 3, Type: "delimiter.curly", Bracket: BracketClose}, tokens[3], "\".}\" resolves through its closing brace")
	assert.Equal(t, Token{Offset: 5, Type: "source"}, tokens[4], "a lone \".\" matches nothing")
}

func TestTokenizeLineNestedComments(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	state := tok.InitialState()
	var depths []int
	for _, line := range []string{"x /* a", "/* b */", "c */ y"} {
		_, state = tok.TokenizeLine(line, state)
		depths = append(depths, state.Depth())
	}
	assert.Equal(t, []int{1, 1, 0}, depths)
	assert.Equal(t, "root", state.Name())

	got, end := lineSpans(tok, "/* a /* b */ c */ d", nil)
	assert.Equal(t, []span{
		{"/* a /* b */ c */", "comment"},
		{" ", "white"},
		{"d", "identifier"},
	}, got)
	assert.Equal(t, 0, end.Depth())
}

func TestTokenizeLineGroupOffsetsAreBytes(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	tokens, _ := tok.TokenizeLine(`"日本"x`, nil)
	require.Len(t, tokens, 4)
	assert.Equal(t, 0, tokens[0].Offset)
	assert.Equal(t, 1, tokens[1].Offset)
	assert.Equal(t, 7, tokens[2].Offset)
	assert.Equal(t, 8, tokens[3].Offset)
	assert.Equal(t, "identifier", tokens[3].Type)
}

func TestTokenizeLineIgnoreCase(t *testing.T) {
	def := testDefinition()
	def.IgnoreCase = true
	tok := mustCompile(t, def)

	got, _ := lineSpans(tok, "IF Else", nil)
	assert.Equal(t, []span{
		{"IF", "keyword"},
		{" ", "white"},
		{"Else", "keyword"},
	}, got)
}

func TestTokenizeLineZeroLengthMatchesDoNotLoop(t *testing.T) {
	tok := mustCompile(t, &Definition{
		States: map[string][]Rule{
			"root": {
				Match(`x*`, "x"),
				MatchNext(`(?=y)`, "", "@other"),
			},
			"other": {
				MatchNext(`(?=y)`, "", NextPop),
				Match(`y`, "y"),
			},
		},
	})

	got, _ := lineSpans(tok, "xxyz", nil)
	var joined string
	for _, s := range got {
		joined += s.text
	}
	assert.Equal(t, "xxyz", joined)
	assert.Equal(t, span{"xx", "x"}, got[0])
	assert.Equal(t, "source", got[len(got)-1].typ)
}

func TestTokenize(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	lines := tok.Tokenize("a /* b\r\nc */ d")
	require.Len(t, lines, 2)
	assert.Equal(t, "a /* b", lines[0].Text)
	assert.Equal(t, 1, lines[0].EndState.Depth())
	assert.True(t, lines[1].State.Equals(lines[0].EndState))

	spans := lines[1].Spans()
	assert.Equal(t, "c */", spans[0].Text)
	assert.Equal(t, "comment", spans[0].Type)
	assert.Equal(t, "d", spans[len(spans)-1].Text)
}

func TestQualify(t *testing.T) {
	tok := mustCompile(t, testDefinition())
	assert.Equal(t, "keyword.test", tok.Qualify("keyword"))
	assert.Equal(t, "", tok.Qualify(""))

	def := testDefinition()
	def.TokenPostfix = ".c"
	tok = mustCompile(t, def)
	assert.Equal(t, "number.hex.c", tok.Qualify("number.hex"))
}

func TestStateStack(t *testing.T) {
	root := newState("root")
	s := root.Push("comment").Push("comment")

	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, []string{"root", "comment", "comment"}, s.Stack())
	assert.True(t, s.Equals(newState("root").Push("comment").Push("comment")))
	assert.False(t, s.Equals(root.Push("comment")))
	assert.Same(t, root, s.Bottom())
	assert.Same(t, root, root.Pop(), "the bottom state is never popped")
	assert.Equal(t, "comment", s.Pop().Name())
}

func TestTokenizeLinePopAll(t *testing.T) {
	tok := mustCompile(t, &Definition{
		States: map[string][]Rule{
			"root": {
				MatchNext(`\(`, "open", "@inner"),
				Match(`[a-z]+`, "word"),
			},
			"inner": {
				MatchNext(`\(`, "open", NextPush),
				MatchNext(`!`, "bang", NextPopAll),
				Match(`[a-z]+`, "inner"),
			},
		},
	})

	_, mid := tok.TokenizeLine("((a(", nil)
	assert.Equal(t, 3, mid.Depth())

	got, end := lineSpans(tok, "!b", mid)
	assert.Equal(t, []span{{"!", "bang"}, {"b", "word"}}, got)
	assert.Equal(t, 0, end.Depth())
	assert.Equal(t, "root", end.Name())
}

func TestTokenizeLineInvalidUTF8(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	line := "/* \xff\xfe */ x"
	got, end := lineSpans(tok, line, nil)
	assert.Equal(t, []span{
		{"/* \xff\xfe */", "comment"},
		{" ", "white"},
		{"x", "identifier"},
	}, got)
	assert.Equal(t, 0, end.Depth())

	got, _ = lineSpans(tok, "\"\xff\" x", nil)
	assert.Equal(t, []span{
		{`"`, "string.quote"},
		{"\xff", "string"},
		{`"`, "string.quote"},
		{" ", "white"},
		{"x", "identifier"},
	}, got)
}
