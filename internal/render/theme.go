package render

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme holds the status-row style for each severity.
type Theme struct {
	Info    tcell.Style
	Warning tcell.Style
	Error   tcell.Style
}

// DefaultTheme returns the built-in styles: black on white for info,
// black on yellow for warnings, white on red for errors.
func DefaultTheme() Theme {
	return Theme{
		Info:    tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
		Warning: tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow),
		Error:   tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorRed),
	}
}

// ThemeFromHex builds a theme from per-severity background colors given
// as "#rrggbb" hex strings. The foreground is black or white, whichever
// reads better on that background. A value that is empty or does not
// parse keeps the default style for its severity.
func ThemeFromHex(info, warning, errorHex string) Theme {
	theme := DefaultTheme()
	theme.Info = styleFromHex(info, theme.Info)
	theme.Warning = styleFromHex(warning, theme.Warning)
	theme.Error = styleFromHex(errorHex, theme.Error)
	return theme
}

func styleFromHex(hex string, fallback tcell.Style) tcell.Style {
	if hex == "" {
		return fallback
	}
	bg, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	fg := tcell.ColorWhite
	if luminance(bg) > 0.5 {
		fg = tcell.ColorBlack
	}
	r, g, b := bg.RGB255()
	return tcell.StyleDefault.
		Foreground(fg).
		Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// luminance is the perceived brightness of a color in [0, 1].
func luminance(c colorful.Color) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}
