package buffer

import (
	"sort"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/plhl/monarch"
)

// A Match is one token of a line, in rune columns.
type Match struct {
	Col     int
	EndCol  int // Inclusive
	Class   string
	Bracket monarch.BracketKind
}

// ByCol implements sort.Interface for []Match based on the Col field.
type ByCol []Match

func (c ByCol) Len() int           { return len(c) }
func (c ByCol) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c ByCol) Less(i, j int) bool { return c[i].Col < c[j].Col }

type lineCache struct {
	valid   bool
	matches []Match
	start   *monarch.State
	end     *monarch.State
}

// A Highlighter can answer how to color any part of a provided Buffer. It
// tokenizes lines on demand and caches the matches and the tokenizer state
// at the end of every line, so a line can be redone without redoing the
// lines above it.
type Highlighter struct {
	Buffer      Buffer
	Language    *Language
	Colorscheme *Colorscheme

	lines []lineCache
}

func NewHighlighter(buffer Buffer, lang *Language, colorscheme *Colorscheme) *Highlighter {
	return &Highlighter{
		Buffer:      buffer,
		Language:    lang,
		Colorscheme: colorscheme,
		lines:       make([]lineCache, buffer.Lines()),
	}
}

// resize keeps one cache entry per buffer line.
func (h *Highlighter) resize() {
	lines := h.Buffer.Lines()
	if len(h.lines) < lines {
		h.lines = append(h.lines, make([]lineCache, lines-len(h.lines))...)
	} else {
		h.lines = h.lines[:lines]
	}
}

// UpdateLines forces the matches of lines startLine to endLine, inclusive,
// to be redone. Invalidated lines above startLine are redone first, since
// their end states are needed. It is cheaper to invalidate lines on change
// and call UpdateInvalidatedLines.
//
// When the end state of endLine changes, the line below is invalidated.
func (h *Highlighter) UpdateLines(startLine, endLine int) {
	h.resize()
	if h.Language == nil || h.Language.Tokenizer == nil {
		h.validateLines(startLine, endLine)
		return
	}
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(h.lines) {
		endLine = len(h.lines) - 1
	}
	for startLine > 0 && startLine <= endLine && !h.lines[startLine-1].valid {
		startLine--
	}

	tok := h.Language.Tokenizer
	for i := startLine; i <= endLine; i++ {
		state := tok.InitialState()
		if i > 0 {
			state = h.lines[i-1].end
		}

		text := LineText(h.Buffer, i)
		tokens, end := tok.TokenizeLine(text, state)

		old := h.lines[i]
		h.lines[i] = lineCache{
			valid:   true,
			matches: toMatches(text, tokens, old.matches[:0]),
			start:   state,
			end:     end,
		}

		if i == endLine && i+1 < len(h.lines) && (old.end == nil || !old.end.Equals(end)) {
			h.lines[i+1].valid = false
		}
	}
}

// toMatches converts tokens with byte offsets into matches with rune columns.
func toMatches(text string, tokens []monarch.Token, matches []Match) []Match {
	col, pos := 0, 0
	for i, tok := range tokens {
		for pos < tok.Offset {
			_, size := utf8.DecodeRuneInString(text[pos:])
			pos += size
			col++
		}
		end := len(text)
		if i+1 < len(tokens) {
			end = tokens[i+1].Offset
		}
		matches = append(matches, Match{
			Col:     col,
			EndCol:  col + utf8.RuneCountInString(text[tok.Offset:end]) - 1,
			Class:   tok.Type,
			Bracket: tok.Bracket,
		})
	}
	return matches
}

// UpdateInvalidatedLines only updates the highlighting for lines that are invalidated
// between lines startLine and endLine, inclusively. Invalid lines above
// startLine are redone first, down to endLine, since a changed end state
// above the range reaches into it through lines still marked valid.
func (h *Highlighter) UpdateInvalidatedLines(startLine, endLine int) {
	h.resize()
	first := max(startLine, 0)
	for i := 0; i < first && i < len(h.lines); i++ {
		if !h.lines[i].valid {
			first = i
			break
		}
	}
	for i := first; i <= endLine && i < len(h.lines); i++ {
		if !h.lines[i].valid {
			h.UpdateLines(i, i)
		}
	}
}

func (h *Highlighter) HasInvalidatedLines(startLine, endLine int) bool {
	if len(h.lines) != h.Buffer.Lines() {
		return true
	}
	for i := max(startLine, 0); i <= endLine && i < len(h.lines); i++ {
		if !h.lines[i].valid {
			return true
		}
	}
	return false
}

// validateLines marks lines as done without tokens, for buffers without a
// language.
func (h *Highlighter) validateLines(startLine, endLine int) {
	for i := max(startLine, 0); i <= endLine && i < len(h.lines); i++ {
		h.lines[i] = lineCache{valid: true}
	}
}

// InvalidateLines marks lines startLine to endLine, inclusive, as changed.
// endLine may lie past the end of the buffer.
func (h *Highlighter) InvalidateLines(startLine, endLine int) {
	for i := max(startLine, 0); i <= endLine && i < len(h.lines); i++ {
		h.lines[i].valid = false
	}
}

// GetLineMatches returns the matches of a line, sorted by column. The line
// must have been updated.
func (h *Highlighter) GetLineMatches(line int) []Match {
	if line < 0 || line >= len(h.lines) {
		return nil
	}
	data := h.lines[line].matches
	sort.Sort(ByCol(data))
	return data
}

// MatchAt returns the match covering line, col, updating lines as needed.
func (h *Highlighter) MatchAt(line, col int) (Match, bool) {
	h.UpdateInvalidatedLines(0, line)
	for _, m := range h.GetLineMatches(line) {
		if col >= m.Col && col <= m.EndCol {
			return m, true
		}
	}
	return Match{}, false
}

// StateAt returns the tokenizer state line starts in, updating lines as
// needed. It is nil for buffers without a language.
func (h *Highlighter) StateAt(line int) *monarch.State {
	if h.Language == nil || h.Language.Tokenizer == nil {
		return nil
	}
	h.UpdateInvalidatedLines(0, line)
	if line < 0 || line >= len(h.lines) {
		return nil
	}
	return h.lines[line].start
}

func (h *Highlighter) GetStyle(match Match) tcell.Style {
	return h.Colorscheme.GetStyle(match.Class)
}
