package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// A Theme is a map of string names to styles for the editor chrome. Token
// colors are not part of a theme; see buffer.Colorscheme. If a theme value
// cannot be found, the `DefaultTheme` value is used instead. DefaultTheme
// lists every key.
type Theme map[string]tcell.Style

func (theme *Theme) GetOrDefault(key string) tcell.Style {
	if theme != nil {
		if val, ok := (*theme)[key]; ok {
			return val
		}
	}

	if val, ok := DefaultTheme[key]; ok {
		return val
	}
	panic(fmt.Sprintf("key \"%v\" not present in default theme", key))
}

// DefaultTheme uses only the first 16 colors present in most colored terminals.
var DefaultTheme = Theme{
	"InputField":          tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"Normal":              tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"StatusBar":           tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"StatusBarError":      tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon),
	"Tab":                 tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TabContainer":        tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
	"TabContainerFocused": tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TabSelected":         tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"TextEdit":            tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TextEditSelected":    tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
}
