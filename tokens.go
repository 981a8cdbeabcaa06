package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/plhl/monarch"
)

// A tokenRow is one token as printed by the tokens command. Line and Col
// count from one; Col counts runes.
type tokenRow struct {
	Line    int      `json:"line"`
	Col     int      `json:"col"`
	Class   string   `json:"class"`
	Text    string   `json:"text"`
	Bracket string   `json:"bracket,omitempty"`
	State   []string `json:"state"` // Stack the line starts in
}

func newTokensCommand() *cobra.Command {
	var (
		output string
		lang   string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the tokens of a file",
		Long: `Tokenize FILE line by line and print every token with its class and
the tokenizer state stack its line starts in. Whitespace tokens are left
out unless --all is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			_, tok, err := tokenizerFor(getRegistry(cmd.Context()), args[0], lang)
			if err != nil {
				return err
			}

			rows := tokenRows(tok, string(data), all)
			getLogger(cmd.Context()).Debug("tokenized", "file", args[0], "tokens", len(rows))

			switch output {
			case "json":
				return writeTokensJSON(cmd.OutOrStdout(), rows)
			case "table", "":
				writeTokensTable(cmd.OutOrStdout(), rows)
				return nil
			}
			return fmt.Errorf("unknown output format %q (table|json)", output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table|json)")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language id or alias, instead of guessing from the file name")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include whitespace tokens")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// tokenizerFor picks the tokenizer by language name when one is given, and
// by file name otherwise.
func tokenizerFor(reg *monarch.Registry, path, lang string) (monarch.LanguageExtension, *monarch.Tokenizer, error) {
	if lang != "" {
		ext, ok := reg.Lookup(lang)
		if !ok {
			return ext, nil, fmt.Errorf("%w %q", monarch.ErrUnknownLanguage, lang)
		}
		tok, ok := reg.Tokenizer(ext.ID)
		if !ok {
			return ext, nil, fmt.Errorf("%w %q: no tokenizer", monarch.ErrUnknownLanguage, lang)
		}
		return ext, tok, nil
	}

	ext, tok, ok := reg.ForFilename(path)
	if !ok {
		return ext, nil, fmt.Errorf("%w for %s (use --lang)", monarch.ErrUnknownLanguage, path)
	}
	return ext, tok, nil
}

func tokenRows(tok *monarch.Tokenizer, text string, all bool) []tokenRow {
	var rows []tokenRow
	for i, line := range tok.Tokenize(text) {
		stack := line.State.Stack()
		for _, span := range line.Spans() {
			if span.Type == "white" && !all {
				continue
			}
			row := tokenRow{
				Line:  i + 1,
				Col:   utf8.RuneCountInString(line.Text[:span.Start]) + 1,
				Class: tok.Qualify(span.Type),
				Text:  span.Text,
				State: stack,
			}
			switch span.Bracket {
			case monarch.BracketOpen:
				row.Bracket = "open"
			case monarch.BracketClose:
				row.Bracket = "close"
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func writeTokensTable(w io.Writer, rows []tokenRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Line", "Col", "Class", "Text", "Bracket", "State"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Line, row.Col, row.Class, fmt.Sprintf("%q", row.Text), row.Bracket, row.State[len(row.State)-1]})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d tokens)\n", len(rows))
}

func writeTokensJSON(w io.Writer, rows []tokenRow) error {
	if rows == nil {
		rows = []tokenRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rows)
}
