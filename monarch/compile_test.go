package monarch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestCompileDefaults(t *testing.T) {
	tok := mustCompile(t, testDefinition())

	assert.Equal(t, "test", tok.ID())
	assert.Equal(t, "source", tok.DefaultToken())
	assert.Equal(t, "root", tok.InitialState().Name())
	assert.Equal(t, 0, tok.InitialState().Depth())
}

func TestCompileExpandsPatterns(t *testing.T) {
	tok := mustCompile(t, &Definition{
		Patterns: map[string]string{
			"digit":  `[0-9]`,
			"number": `@digit+`,
			"empty":  ``,
		},
		States: map[string][]Rule{
			"root": {
				Match(`@empty@number`, "number"),
			},
		},
	})

	got, _ := lineSpans(tok, "123x", nil)
	assert.Equal(t, []span{{"123", "number"}, {"x", "source"}}, got)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules map[string][]Rule
		want  error
		state string
		rule  int
	}{
		{
			name:  "missing start state",
			rules: map[string][]Rule{"other": {Match(`a`, "a")}},
			want:  ErrUnknownState,
			state: "root",
			rule:  -1,
		},
		{
			name:  "unknown next state",
			rules: map[string][]Rule{"root": {Match(`a`, "a"), MatchNext(`b`, "b", "@nowhere")}},
			want:  ErrUnknownState,
			state: "root",
			rule:  1,
		},
		{
			name:  "unknown include",
			rules: map[string][]Rule{"root": {Include("@nowhere")}},
			want:  ErrUnknownState,
			state: "root",
		},
		{
			name: "include cycle",
			rules: map[string][]Rule{
				"root": {Include("@a")},
				"a":    {Include("@root")},
			},
			want: ErrIncludeCycle,
		},
		{
			name:  "unknown list",
			rules: map[string][]Rule{"root": {MatchCases(`\w+`, When("@nope", "x"))}},
			want:  ErrUnknownList,
			state: "root",
		},
		{
			name:  "unknown pattern",
			rules: map[string][]Rule{"root": {Match(`@nope`, "x")}},
			want:  ErrUnknownPattern,
			state: "root",
		},
		{
			name:  "group mismatch",
			rules: map[string][]Rule{"root": {MatchGroups(`(a)(b)`, "a")}},
			want:  ErrGroupMismatch,
			state: "root",
		},
		{
			name:  "bad regex",
			rules: map[string][]Rule{"root": {Match(`(`, "x")}},
			want:  ErrBadRegex,
			state: "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := Compile("test", &Definition{States: tt.rules})
			require.Error(t, err)
			assert.Nil(t, tok)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var cerr *CompileError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "test", cerr.Language)
			if tt.state != "" {
				assert.Equal(t, tt.state, cerr.State)
				assert.Equal(t, tt.rule, cerr.Rule)
			}
		})
	}
}

func TestCompileReportsEveryProblem(t *testing.T) {
	_, err := Compile("test", &Definition{
		States: map[string][]Rule{
			"root": {
				Match(`(`, "x"),
				MatchNext(`a`, "a", "@nowhere"),
				MatchCases(`b`, When("@nope", "b")),
			},
		},
	})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.Contains(t, err.Error(), `test: state "root" rule 1`)
}

func TestCompileIncludedStateErrorsReportedOnce(t *testing.T) {
	_, err := Compile("test", &Definition{
		States: map[string][]Rule{
			"root":  {Include("@inner")},
			"other": {Include("@inner")},
			"inner": {Match(`(`, "x")},
		},
	})
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
}

func TestCompileNilDefinition(t *testing.T) {
	_, err := Compile("test", nil)
	assert.Error(t, err)
}
