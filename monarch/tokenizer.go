package monarch

import (
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// maxStalls limits consecutive zero-length matches at one position, so state
// transitions on empty matches cannot loop forever.
const maxStalls = 16

// A Token starts at Offset (a byte index into its line) and runs until the
// next token or the end of the line. Type is the bare token class, such as
// "number.hex"; use Tokenizer.Qualify for the postfixed form.
type Token struct {
	Offset  int
	Type    string
	Bracket BracketKind
}

// A Tokenizer is a compiled Definition. It is immutable and safe for
// concurrent use.
type Tokenizer struct {
	id           string
	def          *Definition
	postfix      string
	defaultToken string
	ignoreCase   bool
	start        string
	brackets     []Bracket
	states       map[string][]*compiledRule
}

// ID returns the language id the tokenizer was compiled for.
func (t *Tokenizer) ID() string {
	return t.id
}

// Definition returns the definition the tokenizer was compiled from. Do not
// modify it.
func (t *Tokenizer) Definition() *Definition {
	return t.def
}

// DefaultToken returns the class given to text that no rule matches.
func (t *Tokenizer) DefaultToken() string {
	return t.defaultToken
}

// InitialState returns the stack every document starts with.
func (t *Tokenizer) InitialState() *State {
	return newState(t.start)
}

// Qualify appends the token postfix to a class. The empty class stays empty.
func (t *Tokenizer) Qualify(class string) string {
	if class == "" {
		return ""
	}
	return class + t.postfix
}

// TokenizeLine classifies line, which must not contain a line delimiter,
// starting in state (nil means the initial state). It returns the tokens and
// the state the next line starts in.
func (t *Tokenizer) TokenizeLine(line string, state *State) ([]Token, *State) {
	if state == nil {
		state = t.InitialState()
	}

	var tokens []Token
	var stalls int
	pos := 0
	for pos < len(line) {
		rules, ok := t.states[state.name]
		if !ok { // A state from some other tokenizer; start over
			state = t.InitialState()
			rules = t.states[state.name]
		}

		rest := line[pos:]
		var progressed bool
		for _, r := range rules {
			if r.lineStart && pos > 0 {
				continue
			}
			m, err := r.re.FindStringMatch(rest)
			if err != nil || m == nil {
				continue
			}

			// regexp2 works on runes and turns each invalid byte into U+FFFD,
			// so slice the line itself rather than trusting m.String().
			matched := rest[:byteOffset(rest, m.Index+m.Length)]
			if matched == "" && (!r.action.changesState() || stalls >= maxStalls) {
				continue
			}
			eos := len(matched) == len(rest)

			if r.action.group != nil {
				tokens, state = t.emitGroups(tokens, state, r.action, m, rest, pos, eos)
			} else {
				var tok Token
				var next string
				tok.Offset = pos
				tok.Type, next, tok.Bracket = t.resolve(r.action, matched, eos)
				if matched != "" {
					tokens = appendToken(tokens, tok)
				}
				state = transition(state, next)
			}

			if matched == "" {
				stalls++
			} else {
				stalls = 0
			}
			pos += len(matched)
			progressed = true
			break
		}

		if !progressed {
			_, size := utf8.DecodeRuneInString(rest)
			tokens = appendToken(tokens, Token{Offset: pos, Type: t.defaultToken})
			pos += size
			stalls = 0
		}
	}

	return tokens, state
}

func (t *Tokenizer) emitGroups(tokens []Token, state *State, a *compiledAction, m *regexp2.Match, rest string, pos int, eos bool) ([]Token, *State) {
	groups := m.Groups()
	for i, ga := range a.group {
		if i+1 >= len(groups) {
			break
		}
		g := groups[i+1]
		start := byteOffset(rest, g.Index)
		text := rest[start:byteOffset(rest, g.Index+g.Length)]
		tok := Token{Offset: pos + start}
		var next string
		tok.Type, next, tok.Bracket = t.resolve(ga, text, eos)
		if text != "" {
			tokens = appendToken(tokens, tok)
		}
		state = transition(state, next)
	}
	return tokens, transition(state, a.next)
}

// resolve walks the cases of a to a token class and next state.
func (t *Tokenizer) resolve(a *compiledAction, matched string, eos bool) (string, string, BracketKind) {
	next := a.next
	for len(a.cases) > 0 {
		var picked *compiledAction
		for i := range a.cases {
			if t.accepts(&a.cases[i], matched, eos) {
				picked = a.cases[i].action
				break
			}
		}
		if picked == nil {
			return t.defaultToken, next, BracketNone
		}
		a = picked
		if a.next != "" {
			next = a.next
		}
	}

	if a.token == TokenBrackets {
		tok, kind := t.bracket(matched)
		return tok, next, kind
	}
	return a.token, next, BracketNone
}

func (t *Tokenizer) accepts(c *compiledCase, matched string, eos bool) bool {
	switch c.kind {
	case guardDefault:
		return true
	case guardEOS:
		return eos
	case guardList:
		if t.ignoreCase {
			matched = strings.ToLower(matched)
		}
		_, ok := c.list[matched]
		return ok
	case guardRegex:
		ok, err := c.re.MatchString(matched)
		return err == nil && ok
	}
	return false
}

// bracket classifies matched by the declared brackets: an exact open or close
// sequence first, then the first bracket sequence found inside matched (so
// "[." is a square bracket). Anything else gets the default token.
func (t *Tokenizer) bracket(matched string) (string, BracketKind) {
	for _, b := range t.brackets {
		if matched == b.Open {
			return b.Token, BracketOpen
		}
		if matched == b.Close {
			return b.Token, BracketClose
		}
	}
	for i := 0; i < len(matched); i++ {
		for _, b := range t.brackets {
			if strings.HasPrefix(matched[i:], b.Open) {
				return b.Token, BracketOpen
			}
			if strings.HasPrefix(matched[i:], b.Close) {
				return b.Token, BracketClose
			}
		}
	}
	return t.defaultToken, BracketNone
}

func (a *compiledAction) changesState() bool {
	if a.next != "" {
		return true
	}
	for _, g := range a.group {
		if g.changesState() {
			return true
		}
	}
	for _, c := range a.cases {
		if c.action.changesState() {
			return true
		}
	}
	return false
}

func transition(state *State, next string) *State {
	switch next {
	case "":
		return state
	case NextPush:
		return state.Push(state.name)
	case NextPop:
		return state.Pop()
	case NextPopAll:
		return state.Bottom()
	}
	return state.Push(next)
}

// appendToken merges tok into the previous token when both carry the same
// class. Bracket tokens are never merged so each bracket stays addressable.
func appendToken(tokens []Token, tok Token) []Token {
	if n := len(tokens); n > 0 {
		last := tokens[n-1]
		if last.Offset == tok.Offset {
			tokens[n-1] = tok
			return tokens
		}
		if last.Type == tok.Type && last.Bracket == BracketNone && tok.Bracket == BracketNone {
			return tokens
		}
	}
	return append(tokens, tok)
}

// byteOffset converts a rune index reported by regexp2 into a byte index.
func byteOffset(s string, runeIdx int) int {
	for i := range s {
		if runeIdx == 0 {
			return i
		}
		runeIdx--
	}
	return len(s)
}

// A Line is one tokenized line of a document.
type Line struct {
	Text     string
	Tokens   []Token
	State    *State // State the line started in
	EndState *State
}

// A Span is a token resolved against its line's text.
type Span struct {
	Start   int // Byte offsets into the line, End exclusive
	End     int
	Type    string
	Text    string
	Bracket BracketKind
}

// Spans resolves the line's tokens into text ranges.
func (l Line) Spans() []Span {
	spans := make([]Span, len(l.Tokens))
	for i, tok := range l.Tokens {
		end := len(l.Text)
		if i+1 < len(l.Tokens) {
			end = l.Tokens[i+1].Offset
		}
		spans[i] = Span{
			Start:   tok.Offset,
			End:     end,
			Type:    tok.Type,
			Text:    l.Text[tok.Offset:end],
			Bracket: tok.Bracket,
		}
	}
	return spans
}

// Tokenize splits text into lines on '\n', dropping a trailing '\r' from
// each, and tokenizes them in order.
func (t *Tokenizer) Tokenize(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, len(raw))
	state := t.InitialState()
	for i, s := range raw {
		s = strings.TrimSuffix(s, "\r")
		tokens, end := t.TokenizeLine(s, state)
		lines[i] = Line{Text: s, Tokens: tokens, State: state, EndState: end}
		state = end
	}
	return lines
}
