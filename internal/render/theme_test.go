package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	fg, bg, _ := theme.Info.Decompose()
	if fg != tcell.ColorBlack || bg != tcell.ColorWhite {
		t.Errorf("info style = fg %v bg %v, want black on white", fg, bg)
	}
	fg, bg, _ = theme.Warning.Decompose()
	if fg != tcell.ColorBlack || bg != tcell.ColorYellow {
		t.Errorf("warning style = fg %v bg %v, want black on yellow", fg, bg)
	}
	fg, bg, _ = theme.Error.Decompose()
	if fg != tcell.ColorWhite || bg != tcell.ColorRed {
		t.Errorf("error style = fg %v bg %v, want white on red", fg, bg)
	}
}

func TestThemeFromHex(t *testing.T) {
	theme := ThemeFromHex("#00ff00", "#000080", "bogus")

	fg, bg, _ := theme.Info.Decompose()
	if bg != tcell.NewRGBColor(0, 255, 0) {
		t.Errorf("info bg = %v, want pure green", bg)
	}
	if fg != tcell.ColorBlack {
		t.Errorf("info fg = %v, want black on a light background", fg)
	}

	fg, bg, _ = theme.Warning.Decompose()
	if bg != tcell.NewRGBColor(0, 0, 128) {
		t.Errorf("warning bg = %v, want navy", bg)
	}
	if fg != tcell.ColorWhite {
		t.Errorf("warning fg = %v, want white on a dark background", fg)
	}

	if theme.Error != DefaultTheme().Error {
		t.Error("malformed hex did not fall back to the default error style")
	}
}

func TestThemeFromHexEmptyKeepsDefaults(t *testing.T) {
	if ThemeFromHex("", "", "") != DefaultTheme() {
		t.Error("empty values did not keep the default theme")
	}
}
