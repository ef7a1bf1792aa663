// Package render paints editor frames: gutter and text rows, a styled
// status row, and a message row for info text or the command line. The
// renderer keeps the scroll offset between frames so the viewport
// follows the cursor.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/mote/internal/editor"
)

// Screen is the paint surface the renderer draws on. *term.Terminal
// implements it; tests use an in-memory grid.
type Screen interface {
	Size() (width, height int)
	Clear()
	SetCell(x, y int, r rune, style tcell.Style)
	ShowCursor(x, y int)
	Show()
}

// The bottom two rows hold the status row and the message row.
const infoRows = 2

// Renderer draws frames of editor state. Not safe for concurrent use;
// the main loop is the only caller.
type Renderer struct {
	screen Screen
	theme  Theme
	scroll int
}

// New creates a renderer painting on screen with the given theme.
func New(screen Screen, theme Theme) *Renderer {
	return &Renderer{screen: screen, theme: theme}
}

// Render paints one frame: content rows, status row, message row, and
// the hardware cursor.
func (r *Renderer) Render(state *editor.State, commandBuffer string) {
	width, height := r.screen.Size()
	totalRows := height
	if totalRows < 3 {
		totalRows = 3
	}
	contentRows := totalRows - infoRows

	r.updateScroll(state, contentRows)
	r.screen.Clear()

	buf := state.Buffer()
	totalLines := buf.LineCount()
	digits := len(strconv.Itoa(totalLines))
	gutterWidth := 2 + digits + 1

	for row := 0; row < contentRows; row++ {
		lineIndex := r.scroll + row
		var text string
		if lineIndex < totalLines {
			marker := "  "
			if lineIndex == state.CursorLine() {
				marker = "> "
			}
			text = fmt.Sprintf("%s%*d %s", marker, digits, lineIndex+1, buf.Line(lineIndex))
		} else {
			text = "  " + strings.Repeat(" ", digits) + " ~"
		}
		r.drawText(0, row, width, text, tcell.StyleDefault)
	}

	r.drawStatusRow(state, contentRows, width, totalLines)
	r.drawMessageRow(state, commandBuffer, contentRows+1, width)
	r.placeCursor(state, commandBuffer, contentRows, gutterWidth, width, totalRows)

	r.screen.Show()
}

// drawStatusRow paints the full-width status bar. Warning and error
// statuses replace the bar text and pick the matching theme style.
func (r *Renderer) drawStatusRow(state *editor.State, y, width, totalLines int) {
	style := r.theme.Info
	var text string
	switch state.StatusLevel() {
	case editor.SeverityWarning:
		style = r.theme.Warning
		text = state.Status()
	case editor.SeverityError:
		style = r.theme.Error
		text = state.Status()
	default:
		buf := state.Buffer()
		file := buf.Path()
		if file == "" {
			file = "[No Name]"
		}
		var b strings.Builder
		b.WriteString(modeLabel(state.Mode()))
		b.WriteByte(' ')
		b.WriteString(file)
		if buf.Dirty() {
			b.WriteString(" [+]")
		}
		fmt.Fprintf(&b, "  Ln %d, Col %d  Lines %d",
			state.CursorLine()+1, state.CursorColumn()+1, totalLines)
		text = b.String()
	}

	next := r.drawText(0, y, width, text, style)
	for x := next; x < width; x++ {
		r.screen.SetCell(x, y, ' ', style)
	}
}

// drawMessageRow paints the bottom row: the pending colon command while
// the command line is open, otherwise any info status text.
func (r *Renderer) drawMessageRow(state *editor.State, commandBuffer string, y, width int) {
	if state.Mode() == editor.ModeCommandLine {
		r.drawText(0, y, width, ":"+commandBuffer, tcell.StyleDefault)
		return
	}
	if state.StatusLevel() == editor.SeverityInfo {
		r.drawText(0, y, width, state.Status(), tcell.StyleDefault)
	}
}

// placeCursor positions the hardware cursor at the edited cell, or at
// the end of the typed command on the message row.
func (r *Renderer) placeCursor(state *editor.State, commandBuffer string, contentRows, gutterWidth, width, totalRows int) {
	var x, y int
	if state.Mode() == editor.ModeCommandLine {
		y = contentRows + 1
		x = 1 + uniseg.StringWidth(commandBuffer)
	} else {
		rel := state.CursorLine() - r.scroll
		if rel < 0 {
			rel = 0
		}
		if rel > contentRows-1 {
			rel = contentRows - 1
		}
		y = rel
		line := state.Buffer().Line(state.CursorLine())
		col := state.CursorColumn()
		if col > len(line) {
			col = len(line)
		}
		x = gutterWidth + uniseg.StringWidth(line[:col])
	}

	if width > 0 && x > width-1 {
		x = width - 1
	}
	if y > totalRows-1 {
		y = totalRows - 1
	}
	r.screen.ShowCursor(x, y)
}

// drawText paints text at (x, y) clipped to maxWidth columns and
// returns the column after the last painted cell. Widths follow
// grapheme clusters so wide runes advance two columns.
func (r *Renderer) drawText(x, y, maxWidth int, text string, style tcell.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := g.Width()
		if w <= 0 {
			continue
		}
		if x+w > maxWidth {
			break
		}
		r.screen.SetCell(x, y, g.Runes()[0], style)
		x += w
	}
	return x
}

// updateScroll moves the viewport so the cursor stays visible, then
// clamps the offset to the scrollable range.
func (r *Renderer) updateScroll(state *editor.State, contentRows int) {
	if contentRows <= 0 {
		r.scroll = 0
		return
	}
	totalLines := state.Buffer().LineCount()
	if r.scroll >= totalLines {
		r.scroll = totalLines - 1
	}

	cursor := state.CursorLine()
	if cursor < r.scroll {
		r.scroll = cursor
	} else if cursor >= r.scroll+contentRows {
		r.scroll = cursor - contentRows + 1
	}

	maxOffset := 0
	if totalLines > contentRows {
		maxOffset = totalLines - contentRows
	}
	if r.scroll > maxOffset {
		r.scroll = maxOffset
	}
}

// modeLabel returns the status-row banner for the active mode.
func modeLabel(m editor.Mode) string {
	switch m {
	case editor.ModeInsert:
		return "-- INSERT --"
	case editor.ModeCommandLine:
		return "-- COMMAND --"
	default:
		return "-- NORMAL --"
	}
}
