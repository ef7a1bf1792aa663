package mode

import (
	"unicode"

	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/key"
)

func (e *Engine) handleInsertMode(ev key.Event) {
	switch ev.Code {
	case key.CodeEscape:
		e.state.SetMode(editor.ModeNormal)
		e.state.ClearStatus()
	case key.CodeEnter:
		e.insertNewline()
	case key.CodeBackspace:
		e.handleBackspace()
	case key.CodeLeft:
		e.state.MoveCursorColumn(-1)
	case key.CodeRight:
		e.state.MoveCursorColumn(1)
	case key.CodeUp:
		e.state.MoveCursorLine(-1)
	case key.CodeDown:
		e.state.MoveCursorLine(1)
	case key.CodeRune:
		if unicode.IsPrint(ev.Rune) {
			e.insertCharacter(ev.Rune)
		}
	}
}

func (e *Engine) insertCharacter(r rune) {
	buf := e.state.Buffer()
	line := e.state.CursorLine()
	col := e.state.CursorColumn()

	text := string(r)
	if buf.InsertText(line, col, text) == nil {
		e.state.SetCursor(line, col+len(text))
	}
}

// insertNewline splits the current line at the cursor and moves to the
// start of the new line.
func (e *Engine) insertNewline() {
	buf := e.state.Buffer()
	pos := clampPosition(buf, position{e.state.CursorLine(), e.state.CursorColumn()})

	current := buf.Line(pos.line)
	tail := current[pos.col:]
	_ = buf.SetLine(pos.line, current[:pos.col])
	if buf.InsertLine(pos.line+1, tail) != nil {
		e.state.SetStatus("Insert failed", editor.SeverityError)
		return
	}
	e.state.SetCursor(pos.line+1, 0)
}

// handleBackspace deletes the character before the cursor, joining with
// the previous line at column zero.
func (e *Engine) handleBackspace() {
	buf := e.state.Buffer()
	line := e.state.CursorLine()
	col := e.state.CursorColumn()

	if col > 0 {
		if buf.DeleteChar(line, col) == nil {
			e.state.SetCursor(line, col-1)
		}
		return
	}
	if line == 0 {
		return
	}

	current := buf.Line(line)
	if buf.DeleteLine(line) != nil {
		return
	}
	previous := buf.Line(line - 1)
	_ = buf.SetLine(line-1, previous+current)
	e.state.SetCursor(line-1, len(previous))
}
