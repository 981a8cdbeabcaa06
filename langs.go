package main

import (
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newLangsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the registered languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			reg := getRegistry(cmd.Context())

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)

			t.AppendHeader(table.Row{"ID", "Name", "Extensions", "Aliases", "States"})
			for _, ext := range reg.Languages() {
				states := "-"
				if tok, ok := reg.Tokenizer(ext.ID); ok {
					states = strings.Join(sortedKeys(tok.Definition().States), ", ")
				}
				t.AppendRow(table.Row{
					ext.ID,
					ext.Name(),
					strings.Join(ext.Extensions, ", "),
					strings.Join(ext.Aliases, ", "),
					states,
				})
			}
			t.Render()
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
