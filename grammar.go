package main

import (
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/plhl/lang/pl"
	"github.com/fivemoreminix/plhl/monarch"
)

func newMonarchCommand() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "monarch [LANG]",
		Short: "Print a language grammar as Monarch JSON",
		Long: `Print the grammar of LANG (default "pl") as the JSON object Monaco's
setMonarchTokensProvider accepts, so the same highlighting can be used in
web editors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := pl.LanguageID
			if len(args) == 1 {
				name = args[0]
			}
			_, tok, err := tokenizerFor(getRegistry(cmd.Context()), "", name)
			if err != nil {
				return err
			}

			indent := "  "
			if compact {
				indent = ""
			}
			return monarch.WriteJSON(cmd.OutOrStdout(), tok.Definition(), indent)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print on a single line")

	return cmd
}
