package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the plhl version.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "plhl v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Pattern Language highlighting built with Go and chroma")
		},
	}
}
