package mode

import (
	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/key"
)

// handleNormalMode dispatches one normal-mode key. Resolution order:
// Escape, then registry bindings (only when no command is pending), then
// arrow keys, then count digits, then the pending multi-key command, and
// finally the literal key map.
func (e *Engine) handleNormalMode(ev key.Event) {
	if ev.Code == key.CodeEscape {
		e.pending = ""
		e.counts.reset()
		e.state.ClearStatus()
		return
	}

	if e.executeRegisteredBinding(ev) {
		return
	}

	switch ev.Code {
	case key.CodeDown:
		switch e.pending {
		case "d":
			e.pending = ""
			e.deleteLinesDown()
		case "y":
			e.pending = ""
			e.yankLinesDown()
		default:
			e.pending = ""
			e.state.MoveCursorLine(e.counts.consumeOr(1))
			e.state.ClearStatus()
		}
		return
	case key.CodeUp:
		switch e.pending {
		case "d":
			e.pending = ""
			e.deleteLinesUp()
		case "y":
			e.pending = ""
			e.yankLinesUp()
		default:
			e.pending = ""
			e.state.MoveCursorLine(-e.counts.consumeOr(1))
			e.state.ClearStatus()
		}
		return
	case key.CodeLeft:
		e.pending = ""
		e.state.MoveCursorColumn(-e.counts.consumeOr(1))
		e.state.ClearStatus()
		return
	case key.CodeRight:
		e.pending = ""
		e.state.MoveCursorColumn(e.counts.consumeOr(1))
		e.state.ClearStatus()
		return
	}

	if ev.Code != key.CodeRune {
		e.pending = ""
		e.counts.reset()
		e.state.ClearStatus()
		return
	}

	r := ev.Rune

	// A leading zero is the line-start motion (or the d0/y0 operator);
	// with digits already accumulated it is part of the count.
	if r == '0' && !e.counts.hasPrefix && !e.counts.hasMotion {
		switch e.pending {
		case "d":
			e.pending = ""
			e.deleteToLineStart()
			return
		case "y":
			e.pending = ""
			e.yankToLineStart()
			return
		case "":
			e.counts.reset()
			e.state.SetCursor(e.state.CursorLine(), 0)
			e.state.ClearStatus()
			return
		}
	}

	if r >= '0' && r <= '9' {
		if e.pending == "" {
			e.counts.appendPrefix(int(r - '0'))
		} else {
			e.counts.appendMotion(int(r - '0'))
		}
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
		return
	}

	if e.pending != "" {
		e.handlePending(r)
		return
	}

	e.handleNormalKey(r)
}

// handlePending resolves the second (or third) key of a multi-key
// command: find targets, operator motions, and the gg pair.
func (e *Engine) handlePending(r rune) {
	switch {
	case e.pending == "f" || e.pending == "F" || e.pending == "t" || e.pending == "T":
		cmd := rune(e.pending[0])
		e.pending = ""
		e.applyFindCommand(cmd, findMove, r)

	case e.pending[0] == 'd':
		if len(e.pending) == 2 {
			cmd := rune(e.pending[1])
			e.pending = ""
			e.applyFindCommand(cmd, findDelete, r)
			return
		}
		e.handleOperatorPending(r, false)

	case e.pending[0] == 'y':
		if len(e.pending) == 2 {
			cmd := rune(e.pending[1])
			e.pending = ""
			e.applyFindCommand(cmd, findYank, r)
			return
		}
		e.handleOperatorPending(r, true)

	case e.pending == "g":
		e.pending = ""
		if r == 'g' {
			e.counts.reset()
			e.state.SetCursor(0, 0)
			e.state.ClearStatus()
			return
		}
		e.counts.reset()
		e.state.SetStatus("Unknown command", editor.SeverityWarning)

	default:
		e.pending = ""
		e.counts.reset()
		e.state.SetStatus("Unknown command", editor.SeverityWarning)
	}
}

// handleOperatorPending resolves the motion key after d or y.
func (e *Engine) handleOperatorPending(r rune, yank bool) {
	e.pending = ""

	switch r {
	case 'd':
		if !yank {
			e.deleteLines()
			return
		}
	case 'y':
		if yank {
			e.yankLines()
			return
		}
	case 'w', 'W', 'b', 'B', 'e', 'E':
		e.operateOnWords(r, yank)
		return
	case 'j':
		if yank {
			e.yankLinesDown()
		} else {
			e.deleteLinesDown()
		}
		return
	case 'k':
		if yank {
			e.yankLinesUp()
		} else {
			e.deleteLinesUp()
		}
		return
	case '}':
		e.operateToParagraph(true, yank)
		return
	case '{':
		e.operateToParagraph(false, yank)
		return
	case '$':
		e.operateToLineEnd(yank)
		return
	case 'f', 'F', 't', 'T':
		if yank {
			e.pending = "y" + string(r)
		} else {
			e.pending = "d" + string(r)
		}
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
		return
	case ';':
		if yank {
			e.applyRepeatFind(false, findYank)
		} else {
			e.applyRepeatFind(false, findDelete)
		}
		return
	case ',':
		if yank {
			e.applyRepeatFind(true, findYank)
		} else {
			e.applyRepeatFind(true, findDelete)
		}
		return
	}

	e.counts.reset()
	if yank {
		e.state.SetStatus("y command requires motion", editor.SeverityWarning)
	} else {
		e.state.SetStatus("d command requires motion", editor.SeverityWarning)
	}
}

// handleNormalKey is the literal key map, reached when nothing is
// pending and the registry declined the gesture.
func (e *Engine) handleNormalKey(r rune) {
	switch r {
	case 'h':
		e.state.MoveCursorColumn(-e.counts.consumeOr(1))
		e.state.ClearStatus()
	case 'j':
		e.state.MoveCursorLine(e.counts.consumeOr(1))
		e.state.ClearStatus()
	case 'k':
		e.state.MoveCursorLine(-e.counts.consumeOr(1))
		e.state.ClearStatus()
	case 'l':
		e.state.MoveCursorColumn(e.counts.consumeOr(1))
		e.state.ClearStatus()
	case 'i':
		e.enterInsertMode()
	case 'a':
		e.appendAfterCursor()
	case 'A':
		e.appendAtLineEnd()
	case 'I':
		e.insertAtLineStart()
	case 'o':
		e.openLineBelow()
	case 'O':
		e.openLineAbove()
	case ':':
		e.counts.reset()
		e.commandBuffer = e.commandBuffer[:0]
		e.state.SetMode(editor.ModeCommandLine)
		e.state.SetStatus("-- COMMAND --", editor.SeverityInfo)
	case 'x':
		e.deleteCharacters()
	case 'w', 'W':
		e.moveWordForward(r == 'W')
	case 'b', 'B':
		e.moveWordBackward(r == 'B')
	case 'e', 'E':
		e.moveWordEnd(r == 'E')
	case '}':
		e.moveParagraph(true)
	case '{':
		e.moveParagraph(false)
	case '$':
		e.moveLineEnd()
	case '^':
		e.moveFirstNonBlank()
	case 'G':
		e.moveToLine()
	case 'g':
		e.pending = "g"
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
	case 'f', 'F', 't', 'T':
		e.pending = string(r)
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
	case ';':
		e.applyRepeatFind(false, findMove)
	case ',':
		e.applyRepeatFind(true, findMove)
	case 'd':
		e.pending = "d"
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
	case 'y':
		e.pending = "y"
		e.state.SetStatus(e.counts.pendingStatus(e.pending), editor.SeverityInfo)
	case 'p', 'P':
		e.counts.reset()
		e.pasteAfterCursor()
	case 'u':
		e.counts.reset()
		e.state.SetStatus("Nothing to undo", editor.SeverityWarning)
	case 'r':
		e.counts.reset()
		e.state.SetStatus("Nothing to redo", editor.SeverityWarning)
	default:
		e.counts.reset()
		e.state.SetStatus("Not mapped in normal mode", editor.SeverityWarning)
	}
}

func (e *Engine) moveWordForward(big bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	requested := e.counts.consumeOr(1)
	if requested < 1 {
		requested = 1
	}

	current := start
	for completed := 0; completed < requested; completed++ {
		var next position
		if big {
			next = nextBigWordStart(buf, current)
		} else {
			next = nextWordStart(buf, current)
		}
		if next == current {
			break
		}
		current = next
	}

	if current == start {
		e.state.SetStatus("End of buffer", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(current.line, current.col)
	e.state.ClearStatus()
}

func (e *Engine) moveWordBackward(big bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	requested := e.counts.consumeOr(1)
	if requested < 1 {
		requested = 1
	}

	current := start
	for completed := 0; completed < requested; completed++ {
		var prev position
		if big {
			prev = previousBigWordStart(buf, current)
		} else {
			prev = previousWordStart(buf, current)
		}
		if prev == current {
			break
		}
		current = prev
	}

	if current == start {
		e.state.SetStatus("Start of buffer", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(current.line, current.col)
	e.state.ClearStatus()
}

func (e *Engine) moveWordEnd(big bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	requested := e.counts.consumeOr(1)
	if requested < 1 {
		requested = 1
	}

	current := start
	last := start
	completed := 0
	for ; completed < requested; completed++ {
		var end position
		if big {
			end = bigWordEndInclusive(buf, current)
		} else {
			end = wordEndInclusive(buf, current)
		}
		if end == current && end == last {
			break
		}
		last = end
		current = position{end.line, end.col + 1}
	}

	if completed == 0 {
		e.state.SetStatus("End of buffer", editor.SeverityWarning)
		return
	}
	targetCol := last.col
	if line := buf.Line(last.line); targetCol >= len(line) {
		targetCol = 0
		if len(line) > 0 {
			targetCol = len(line) - 1
		}
	}
	e.state.SetCursor(last.line, targetCol)
	e.state.ClearStatus()
}

func (e *Engine) moveParagraph(forward bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	count := e.counts.consumeOr(1)
	if count < 1 {
		count = 1
	}

	var target position
	if forward {
		target = nextParagraphBoundary(buf, start, count)
	} else {
		target = previousParagraphBoundary(buf, start, count)
	}
	if target == start {
		if forward {
			e.state.SetStatus("End of buffer", editor.SeverityWarning)
		} else {
			e.state.SetStatus("Start of buffer", editor.SeverityWarning)
		}
		return
	}
	e.state.SetCursor(target.line, target.col)
	e.state.ClearStatus()
}

func (e *Engine) moveLineEnd() {
	buf := e.state.Buffer()
	count := e.counts.consumeOr(1)
	if count < 1 {
		count = 1
	}

	targetLine := e.state.CursorLine()
	if count > 1 {
		targetLine += count - 1
		if last := buf.LineCount() - 1; targetLine > last {
			targetLine = last
		}
	}
	target := lineEndPosition(buf, targetLine)
	e.state.SetCursor(target.line, target.col)
	e.state.ClearStatus()
}

func (e *Engine) moveFirstNonBlank() {
	e.counts.reset()
	target := firstNonBlankPosition(e.state.Buffer(), e.state.CursorLine())
	e.state.SetCursor(target.line, target.col)
	e.state.ClearStatus()
}

// moveToLine implements G: the prefix count is a 1-based line number,
// defaulting to the last line.
func (e *Engine) moveToLine() {
	buf := e.state.Buffer()
	target := buf.LineCount()
	if e.counts.hasPrefix {
		if e.counts.prefix < target {
			target = e.counts.prefix
		}
	}
	e.counts.reset()

	if target == 0 {
		e.state.SetCursor(0, 0)
	} else {
		e.state.SetCursor(target-1, 0)
	}
	e.state.ClearStatus()
}

func (e *Engine) enterInsertMode() {
	e.counts.reset()
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}

func (e *Engine) appendAfterCursor() {
	e.counts.reset()
	e.state.MoveCursorColumn(1)
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}

func (e *Engine) appendAtLineEnd() {
	e.counts.reset()
	line := e.state.CursorLine()
	e.state.SetCursor(line, len(e.state.Buffer().Line(line)))
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}

func (e *Engine) insertAtLineStart() {
	e.counts.reset()
	target := firstNonBlankPosition(e.state.Buffer(), e.state.CursorLine())
	e.state.SetCursor(target.line, target.col)
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}

// openLineBelow splits at the cursor like Enter does, then enters insert
// mode on the new line.
func (e *Engine) openLineBelow() {
	e.counts.reset()
	e.insertNewline()
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}

func (e *Engine) openLineAbove() {
	e.counts.reset()
	line := e.state.CursorLine()
	if e.state.Buffer().InsertLine(line, "") == nil {
		e.state.SetCursor(line, 0)
	}
	e.state.SetMode(editor.ModeInsert)
	e.state.SetStatus("-- INSERT --", editor.SeverityInfo)
}
