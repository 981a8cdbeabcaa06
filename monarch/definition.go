// Package monarch executes declarative, Monarch-style tokenizer definitions.
//
// A Definition is plain data: named word lists, named regular-expression
// fragments, bracket pairs, and an ordered list of rules for every state.
// Compile turns it into a Tokenizer that classifies one line at a time,
// carrying a stack of states from line to line so constructs such as nested
// block comments span lines correctly.
package monarch

// Special names understood inside rules and actions.
const (
	NextPush   = "@push"
	NextPop    = "@pop"
	NextPopAll = "@popall"

	GuardDefault = "@default"
	GuardEOS     = "@eos"

	TokenBrackets = "@brackets"
)

// A Definition describes a language's tokenizer. It is the payload handed to
// Registry.SetTokensProvider.
type Definition struct {
	TokenPostfix string // Appended by Qualify; defaults to "." + language id
	DefaultToken string // Class of text no rule matches; defaults to "source"
	IgnoreCase   bool
	Start        string // Initial state; defaults to "root"

	Lists    map[string][]string // Referenced by "@name" case guards
	Patterns map[string]string   // Referenced by "@name" inside rule regexes
	Brackets []Bracket

	States map[string][]Rule
}

// A Bracket pairs an open and close sequence with the token class both get.
type Bracket struct {
	Open  string
	Close string
	Token string
}

// A Rule either matches Regex at the current position and performs Action,
// or (when Include is set) splices in the rules of another state.
type Rule struct {
	Regex   string
	Action  Action
	Include string
}

// An Action decides the token class of a match and how the state stack moves.
// Exactly one of Token, Cases, or Group is meaningful.
type Action struct {
	Token string
	Cases []Case
	Group []Action
	Next  string
}

// A Case is tried in order; the first guard accepting the matched text picks
// the action.
type Case struct {
	Guard  string
	Action Action
}

// BracketKind tells whether a token opened or closed a bracket pair.
type BracketKind int8

const (
	BracketNone BracketKind = iota
	BracketOpen
	BracketClose
)

// Match is a rule classifying everything regex matches as token.
func Match(regex, token string) Rule {
	return Rule{Regex: regex, Action: Action{Token: token}}
}

// MatchNext is Match followed by a state transition.
func MatchNext(regex, token, next string) Rule {
	return Rule{Regex: regex, Action: Action{Token: token, Next: next}}
}

// MatchCases picks the token class of the match from cases.
func MatchCases(regex string, cases ...Case) Rule {
	return Rule{Regex: regex, Action: Action{Cases: cases}}
}

// MatchGroups assigns one token class per capture group of regex.
func MatchGroups(regex string, tokens ...string) Rule {
	group := make([]Action, len(tokens))
	for i, tok := range tokens {
		group[i] = Action{Token: tok}
	}
	return Rule{Regex: regex, Action: Action{Group: group}}
}

// Include splices the rules of state (written "@state") in place.
func Include(state string) Rule {
	return Rule{Include: state}
}

// When builds a Case.
func When(guard, token string) Case {
	return Case{Guard: guard, Action: Action{Token: token}}
}
