package main

import (
	"fmt"

	"github.com/alecthomas/chroma"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/fivemoreminix/plhl/render"
)

func newClassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show the token classes in the configured style",
		Long: `List every token class the grammar emits, the chroma token type it
renders as, and a sample in the configured style.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			style, err := render.Style(cfg.Style)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := lipgloss.NewRenderer(out)
			title := r.NewStyle().Bold(true).MarginBottom(1)
			name := r.NewStyle().Width(20)
			kind := r.NewStyle().Width(24).Faint(true)

			_, _ = fmt.Fprintln(out, title.Render("Style: "+style.Name))
			for _, class := range render.Classes() {
				tt := render.TokenType(class)
				sample := sampleStyle(r, style.Get(tt)).Render(class)
				_, _ = fmt.Fprintln(out, lipgloss.JoinHorizontal(lipgloss.Top, name.Render(class), kind.Render(tt.String()), sample))
			}
			return nil
		},
	}
}

// sampleStyle converts a chroma style entry into a lipgloss style.
func sampleStyle(r *lipgloss.Renderer, entry chroma.StyleEntry) lipgloss.Style {
	s := r.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Background.IsSet() {
		s = s.Background(lipgloss.Color(entry.Background.String()))
	}
	return s.
		Bold(entry.Bold == chroma.Yes).
		Italic(entry.Italic == chroma.Yes).
		Underline(entry.Underline == chroma.Yes)
}
