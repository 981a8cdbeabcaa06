package monarch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"go.uber.org/multierr"
)

// maxExpandPasses bounds how deeply "@name" pattern references may nest.
const maxExpandPasses = 5

// matchTimeout stops a pathological rule from hanging a redraw.
const matchTimeout = 250 * time.Millisecond

var patternRef = regexp2.MustCompile(`@(\w+)`, regexp2.ECMAScript)

type compiledRule struct {
	re        *regexp2.Regexp
	lineStart bool // Only tried at offset zero of a line
	action    *compiledAction
}

type compiledAction struct {
	token string
	cases []compiledCase
	group []*compiledAction
	next  string
}

type guardKind uint8

const (
	guardDefault guardKind = iota
	guardEOS
	guardList
	guardRegex
)

type compiledCase struct {
	kind   guardKind
	list   map[string]struct{}
	re     *regexp2.Regexp
	action *compiledAction
}

type compiler struct {
	id     string
	def    *Definition
	opts   regexp2.RegexOptions
	lists  map[string]map[string]struct{}
	done   map[string][]*compiledRule
	active map[string]bool
	errs   error
}

// Compile validates def and prepares it for tokenizing. Every problem found
// is reported; the returned error unwraps (via multierr.Errors) into one
// *CompileError per problem.
func Compile(id string, def *Definition) (*Tokenizer, error) {
	if def == nil {
		return nil, fmt.Errorf("%s: nil definition", id)
	}

	t := &Tokenizer{
		id:           id,
		def:          def,
		postfix:      def.TokenPostfix,
		defaultToken: def.DefaultToken,
		ignoreCase:   def.IgnoreCase,
		start:        def.Start,
		brackets:     def.Brackets,
	}
	if t.postfix == "" {
		t.postfix = "." + id
	}
	if t.defaultToken == "" {
		t.defaultToken = "source"
	}
	if t.start == "" {
		t.start = "root"
	}

	c := &compiler{
		id:     id,
		def:    def,
		opts:   regexp2.ECMAScript,
		lists:  make(map[string]map[string]struct{}, len(def.Lists)),
		done:   make(map[string][]*compiledRule, len(def.States)),
		active: make(map[string]bool),
	}
	if def.IgnoreCase {
		c.opts |= regexp2.IgnoreCase
	}
	for name, words := range def.Lists {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			if def.IgnoreCase {
				w = strings.ToLower(w)
			}
			set[w] = struct{}{}
		}
		c.lists[name] = set
	}

	if _, ok := def.States[t.start]; !ok {
		c.fail(t.start, -1, fmt.Errorf("%w %q (start)", ErrUnknownState, t.start))
	}

	// Sorted so error order is stable.
	names := make([]string, 0, len(def.States))
	for name := range def.States {
		names = append(names, name)
	}
	sort.Strings(names)

	t.states = make(map[string][]*compiledRule, len(names))
	for _, name := range names {
		t.states[name] = c.state(name)
	}

	if c.errs != nil {
		return nil, c.errs
	}
	return t, nil
}

func (c *compiler) fail(state string, rule int, err error) {
	c.errs = multierr.Append(c.errs, &CompileError{Language: c.id, State: state, Rule: rule, Err: err})
}

// state compiles the rules of one state, splicing includes. Each state is
// compiled once so errors in an included state are reported once.
func (c *compiler) state(name string) []*compiledRule {
	if rules, ok := c.done[name]; ok {
		return rules
	}
	c.active[name] = true
	defer delete(c.active, name)

	var rules []*compiledRule
	for i, rule := range c.def.States[name] {
		if rule.Include != "" {
			target := strings.TrimPrefix(rule.Include, "@")
			if _, ok := c.def.States[target]; !ok {
				c.fail(name, i, fmt.Errorf("%w %q (include)", ErrUnknownState, target))
				continue
			}
			if c.active[target] {
				c.fail(name, i, fmt.Errorf("%w through %q", ErrIncludeCycle, target))
				continue
			}
			rules = append(rules, c.state(target)...)
			continue
		}

		if r := c.rule(name, i, rule); r != nil {
			rules = append(rules, r)
		}
	}

	c.done[name] = rules
	return rules
}

func (c *compiler) rule(state string, idx int, rule Rule) *compiledRule {
	src, err := c.expand(rule.Regex)
	if err != nil {
		c.fail(state, idx, err)
		return nil
	}

	r := &compiledRule{lineStart: strings.HasPrefix(src, "^")}
	r.re, err = regexp2.Compile("^(?:"+src+")", c.opts)
	if err != nil {
		c.fail(state, idx, fmt.Errorf("%w %q: %v", ErrBadRegex, rule.Regex, err))
		return nil
	}
	r.re.MatchTimeout = matchTimeout

	captures := len(r.re.GetGroupNumbers()) - 1 // Group 0 is the whole match
	r.action = c.action(state, idx, rule.Action, captures)
	return r
}

func (c *compiler) action(state string, idx int, a Action, captures int) *compiledAction {
	ca := &compiledAction{token: a.Token}

	if a.Next != "" {
		switch a.Next {
		case NextPush, NextPop, NextPopAll:
			ca.next = a.Next
		default:
			target := strings.TrimPrefix(a.Next, "@")
			if _, ok := c.def.States[target]; !ok {
				c.fail(state, idx, fmt.Errorf("%w %q (next)", ErrUnknownState, target))
			}
			ca.next = target
		}
	}

	if len(a.Group) > 0 {
		if len(a.Group) != captures {
			c.fail(state, idx, fmt.Errorf("%w: %d actions, %d groups", ErrGroupMismatch, len(a.Group), captures))
		}
		for _, g := range a.Group {
			ca.group = append(ca.group, c.action(state, idx, g, captures))
		}
	}

	for _, cs := range a.Cases {
		if cc, ok := c.guard(state, idx, cs.Guard); ok {
			cc.action = c.action(state, idx, cs.Action, captures)
			ca.cases = append(ca.cases, cc)
		}
	}

	return ca
}

func (c *compiler) guard(state string, idx int, guard string) (compiledCase, bool) {
	switch {
	case guard == GuardDefault:
		return compiledCase{kind: guardDefault}, true
	case guard == GuardEOS:
		return compiledCase{kind: guardEOS}, true
	case strings.HasPrefix(guard, "@"):
		list, ok := c.lists[guard[1:]]
		if !ok {
			c.fail(state, idx, fmt.Errorf("%w %q (case)", ErrUnknownList, guard[1:]))
			return compiledCase{}, false
		}
		return compiledCase{kind: guardList, list: list}, true
	}

	src, err := c.expand(guard)
	if err != nil {
		c.fail(state, idx, err)
		return compiledCase{}, false
	}
	re, err := regexp2.Compile("^(?:"+src+")$", c.opts)
	if err != nil {
		c.fail(state, idx, fmt.Errorf("%w %q: %v", ErrBadRegex, guard, err))
		return compiledCase{}, false
	}
	re.MatchTimeout = matchTimeout
	return compiledCase{kind: guardRegex, re: re}, true
}

// expand substitutes "@name" with the named pattern, wrapped in a
// non-capturing group so alternations inside it stay contained.
func (c *compiler) expand(src string) (string, error) {
	for pass := 0; pass < maxExpandPasses && strings.Contains(src, "@"); pass++ {
		var missing string
		out, err := patternRef.ReplaceFunc(src, func(m regexp2.Match) string {
			name := m.GroupByNumber(1).String()
			sub, ok := c.def.Patterns[name]
			if !ok {
				if missing == "" {
					missing = name
				}
				return m.String()
			}
			if sub == "" {
				return ""
			}
			return "(?:" + sub + ")"
		}, -1, -1)
		if err != nil {
			return "", fmt.Errorf("%w %q: %v", ErrBadRegex, src, err)
		}
		if missing != "" {
			return "", fmt.Errorf("%w %q", ErrUnknownPattern, missing)
		}
		src = out
	}
	return src, nil
}
