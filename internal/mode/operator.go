package mode

import (
	"fmt"

	"github.com/dshills/mote/internal/editor"
)

func (e *Engine) hasYank() bool {
	return len(e.yank) > 0
}

// copyLineRange replaces the yank buffer with up to lineCount lines
// starting at startLine, marked linewise. It returns the number of lines
// copied, zero when the range is empty or out of bounds.
func (e *Engine) copyLineRange(startLine, lineCount int) int {
	buf := e.state.Buffer()
	if startLine >= buf.LineCount() || lineCount == 0 {
		return 0
	}
	if available := buf.LineCount() - startLine; lineCount > available {
		lineCount = available
	}

	fragments := make([]string, 0, lineCount)
	for i := 0; i < lineCount; i++ {
		fragments = append(fragments, buf.Line(startLine+i))
	}
	e.yank = fragments
	e.yankLinewise = true
	return lineCount
}

// copyCharacterRange replaces the yank buffer with the half-open span
// [start, end), marked charwise. Columns clamp to their lines; an empty
// or inverted span fails without touching the yank buffer.
func (e *Engine) copyCharacterRange(startLine, startCol, endLine, endCol int) bool {
	buf := e.state.Buffer()
	if startLine > endLine || (startLine == endLine && startCol >= endCol) {
		return false
	}

	last := buf.LineCount() - 1
	if startLine > last {
		startLine = last
	}
	if endLine > last {
		endLine = last
	}
	startText := buf.Line(startLine)
	endText := buf.Line(endLine)
	if startCol > len(startText) {
		startCol = len(startText)
	}
	if endCol > len(endText) {
		endCol = len(endText)
	}

	if startLine == endLine {
		if startCol >= endCol {
			return false
		}
		e.yank = []string{startText[startCol:endCol]}
	} else {
		fragments := make([]string, 0, endLine-startLine+1)
		fragments = append(fragments, startText[startCol:])
		for line := startLine + 1; line < endLine; line++ {
			fragments = append(fragments, buf.Line(line))
		}
		fragments = append(fragments, endText[:endCol])
		e.yank = fragments
	}
	e.yankLinewise = false
	return true
}

// deleteLineRange removes up to lineCount lines starting at startLine and
// returns how many deletions succeeded. The buffer keeps its final empty
// line, so deleting the only line counts as a success that leaves "".
func (e *Engine) deleteLineRange(startLine, lineCount int) int {
	buf := e.state.Buffer()
	if lineCount == 0 || startLine >= buf.LineCount() {
		return 0
	}

	deleted := 0
	for i := 0; i < lineCount && startLine < buf.LineCount(); i++ {
		if buf.DeleteLine(startLine) != nil {
			break
		}
		deleted++
	}
	return deleted
}

// deleteCharacterRange removes the half-open span [start, end) with the
// same clamping rules as copyCharacterRange. A multi-line span merges the
// surviving prefix and suffix into one line.
func (e *Engine) deleteCharacterRange(startLine, startCol, endLine, endCol int) bool {
	buf := e.state.Buffer()
	if startLine > endLine || (startLine == endLine && startCol >= endCol) {
		return false
	}

	last := buf.LineCount() - 1
	if startLine > last {
		startLine = last
	}
	if endLine > last {
		endLine = last
	}
	startText := buf.Line(startLine)
	endText := buf.Line(endLine)
	if startCol > len(startText) {
		startCol = len(startText)
	}
	if endCol > len(endText) {
		endCol = len(endText)
	}

	if startLine == endLine {
		if startCol >= endCol {
			return false
		}
		_ = buf.SetLine(startLine, startText[:startCol]+startText[endCol:])
		return true
	}

	prefix := startText[:startCol]
	suffix := endText[endCol:]
	for i := 0; i < endLine-startLine; i++ {
		_ = buf.DeleteLine(startLine + 1)
	}
	_ = buf.SetLine(startLine, prefix+suffix)
	return true
}

// cutLineRange copies the range into the yank buffer, then deletes it.
func (e *Engine) cutLineRange(startLine, lineCount int) int {
	e.copyLineRange(startLine, lineCount)
	return e.deleteLineRange(startLine, lineCount)
}

// cutCharacterRange copies the span into the yank buffer, then deletes
// it. Copy and delete share their guards, so a successful copy cannot be
// followed by a failed delete.
func (e *Engine) cutCharacterRange(startLine, startCol, endLine, endCol int) bool {
	if !e.copyCharacterRange(startLine, startCol, endLine, endCol) {
		return false
	}
	return e.deleteCharacterRange(startLine, startCol, endLine, endCol)
}

// pasteAfterCursor inserts the yank buffer after the cursor. Linewise
// content lands below the cursor line; charwise content splices into the
// current line one column past the cursor. It reports failures in the
// status line itself so "Nothing to paste" survives to the user.
func (e *Engine) pasteAfterCursor() bool {
	if !e.hasYank() {
		e.state.SetStatus("Nothing to paste", editor.SeverityWarning)
		return false
	}

	buf := e.state.Buffer()
	cursor := clampPosition(buf, position{e.state.CursorLine(), e.state.CursorColumn()})

	if e.yankLinewise {
		insertLine := cursor.line + 1
		for i, fragment := range e.yank {
			if buf.InsertLine(insertLine+i, fragment) != nil {
				e.state.SetStatus("Paste failed", editor.SeverityWarning)
				return false
			}
		}
		first := insertLine
		if last := buf.LineCount() - 1; first > last {
			first = last
		}
		e.state.SetCursor(first, firstNonBlankColumn(buf.Line(first)))
		return true
	}

	line, col := cursor.line, cursor.col
	current := buf.Line(line)
	insertCol := col + 1
	if insertCol > len(current) {
		insertCol = len(current)
	}
	prefix := current[:insertCol]
	suffix := current[insertCol:]

	if len(e.yank) == 1 {
		fragment := e.yank[0]
		_ = buf.SetLine(line, prefix+fragment+suffix)
		cursorCol := len(prefix)
		if len(fragment) > 0 {
			cursorCol = len(prefix) + len(fragment) - 1
		}
		e.state.SetCursor(line, cursorCol)
		return true
	}

	_ = buf.SetLine(line, prefix+e.yank[0])
	for i := 1; i < len(e.yank); i++ {
		if buf.InsertLine(line+i, e.yank[i]) != nil {
			e.state.SetStatus("Paste failed", editor.SeverityWarning)
			return false
		}
	}
	lastLine := line + len(e.yank) - 1
	lastFragment := e.yank[len(e.yank)-1]
	_ = buf.SetLine(lastLine, lastFragment+suffix)
	cursorCol := 0
	if len(lastFragment) > 0 {
		cursorCol = len(lastFragment) - 1
	}
	e.state.SetCursor(lastLine, cursorCol)
	return true
}

// deleteLines implements dd: cut count lines starting at the cursor line.
func (e *Engine) deleteLines() {
	count := e.counts.consumeOr(1)
	deleted := e.cutLineRange(e.state.CursorLine(), count)
	if deleted == 0 {
		e.state.SetStatus("Delete failed", editor.SeverityWarning)
		return
	}
	e.state.MoveCursorLine(0)
	e.state.SetStatus(linesMessage("Deleted", deleted), editor.SeverityInfo)
}

// deleteLinesDown implements dj and d<Down>: a linewise cut downward,
// two lines by default.
func (e *Engine) deleteLinesDown() {
	lines := e.counts.consumeOr(2)
	if lines < 1 {
		lines = 1
	}
	deleted := e.cutLineRange(e.state.CursorLine(), lines)
	if deleted == 0 {
		e.state.SetStatus("Delete failed", editor.SeverityWarning)
		return
	}
	e.state.MoveCursorLine(0)
	e.state.SetStatus(linesMessage("Deleted", deleted), editor.SeverityInfo)
}

// deleteLinesUp implements dk and d<Up>: the span ends at the cursor line
// and extends upward.
func (e *Engine) deleteLinesUp() {
	lines := e.counts.consumeOr(2)
	if lines < 1 {
		lines = 1
	}
	start := 0
	if current := e.state.CursorLine(); lines <= current+1 {
		start = current + 1 - lines
	}
	deleted := e.cutLineRange(start, lines)
	if deleted == 0 {
		e.state.SetStatus("Delete failed", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(start, 0)
	e.state.SetStatus(linesMessage("Deleted", deleted), editor.SeverityInfo)
}

// yankLines implements yy.
func (e *Engine) yankLines() {
	count := e.counts.consumeOr(1)
	if e.copyLineRange(e.state.CursorLine(), count) == 0 {
		e.state.SetStatus("Yank failed", editor.SeverityWarning)
		return
	}
	e.state.SetStatus("Yanked line", editor.SeverityInfo)
}

// yankLinesDown implements yj and y<Down>.
func (e *Engine) yankLinesDown() {
	lines := e.counts.consumeOr(2)
	if lines < 1 {
		lines = 1
	}
	copied := e.copyLineRange(e.state.CursorLine(), lines)
	if copied == 0 {
		e.state.SetStatus("Yank failed", editor.SeverityWarning)
		return
	}
	e.state.SetStatus(linesMessage("Yanked", copied), editor.SeverityInfo)
}

// yankLinesUp implements yk and y<Up>, moving the cursor to the top of
// the yanked span the way dk does.
func (e *Engine) yankLinesUp() {
	lines := e.counts.consumeOr(2)
	if lines < 1 {
		lines = 1
	}
	start := 0
	if current := e.state.CursorLine(); lines <= current+1 {
		start = current + 1 - lines
	}
	copied := e.copyLineRange(start, lines)
	if copied == 0 {
		e.state.SetStatus("Yank failed", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(start, 0)
	e.state.SetStatus(linesMessage("Yanked", copied), editor.SeverityInfo)
}

// operateOnWords runs the w/W/b/B/e/E motions under the d or y operator.
// Forward word starts clamp to the cursor line so dw at the end of a line
// cannot swallow the newline; end motions keep their inclusive landing.
func (e *Engine) operateOnWords(motion rune, yank bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	requested := e.counts.consumeOr(1)
	if requested < 1 {
		requested = 1
	}
	big := motion == 'W' || motion == 'B' || motion == 'E'

	switch motion {
	case 'w', 'W':
		current := start
		completed := 0
		for ; completed < requested; completed++ {
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
		if completed == 0 {
			e.state.SetStatus(noWordMessage(big, true), editor.SeverityWarning)
			return
		}
		end := current
		if end.line != start.line {
			end = position{start.line, len(buf.Line(start.line))}
		}
		if yank {
			if !e.copyCharacterRange(start.line, start.col, end.line, end.col) {
				e.state.SetStatus("Yank failed", editor.SeverityWarning)
				return
			}
			e.state.SetStatus(wordsMessage("Yanked", completed, big), editor.SeverityInfo)
			return
		}
		if !e.cutCharacterRange(start.line, start.col, end.line, end.col) {
			e.state.SetStatus("Delete failed", editor.SeverityWarning)
			return
		}
		e.state.SetCursor(start.line, start.col)
		e.state.SetStatus(wordsMessage("Deleted", completed, big), editor.SeverityInfo)

	case 'b', 'B':
		current := start
		completed := 0
		for ; completed < requested; completed++ {
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
		if completed == 0 {
			e.state.SetStatus(noWordMessage(big, false), editor.SeverityWarning)
			return
		}
		if yank {
			if !e.copyCharacterRange(current.line, current.col, start.line, start.col) {
				e.state.SetStatus("Yank failed", editor.SeverityWarning)
				return
			}
			e.state.SetCursor(current.line, current.col)
			e.state.SetStatus(wordsMessage("Yanked", completed, big), editor.SeverityInfo)
			return
		}
		if !e.cutCharacterRange(current.line, current.col, start.line, start.col) {
			e.state.SetStatus("Delete failed", editor.SeverityWarning)
			return
		}
		e.state.SetCursor(current.line, current.col)
		e.state.SetStatus(wordsMessage("Deleted", completed, big), editor.SeverityInfo)

	case 'e', 'E':
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
			e.state.SetStatus(noWordMessage(big, true), editor.SeverityWarning)
			return
		}
		exclusive := last.col + 1
		if max := len(buf.Line(last.line)); exclusive > max {
			exclusive = max
		}
		if yank {
			if !e.copyCharacterRange(start.line, start.col, last.line, exclusive) {
				e.state.SetStatus("Yank failed", editor.SeverityWarning)
				return
			}
			e.state.SetStatus(wordsMessage("Yanked", completed, big), editor.SeverityInfo)
			return
		}
		if !e.cutCharacterRange(start.line, start.col, last.line, exclusive) {
			e.state.SetStatus("Delete failed", editor.SeverityWarning)
			return
		}
		e.state.SetCursor(start.line, start.col)
		e.state.SetStatus(wordsMessage("Deleted", completed, big), editor.SeverityInfo)
	}
}

// operateToParagraph runs { or } under the d or y operator.
func (e *Engine) operateToParagraph(forward, yank bool) {
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
			e.state.SetStatus("No paragraph ahead", editor.SeverityWarning)
		} else {
			e.state.SetStatus("No paragraph before", editor.SeverityWarning)
		}
		return
	}

	spanStart, spanEnd := start, target
	if !forward {
		spanStart, spanEnd = target, start
	}

	verb := "Deleted"
	if yank {
		verb = "Yanked"
		if !e.copyCharacterRange(spanStart.line, spanStart.col, spanEnd.line, spanEnd.col) {
			e.state.SetStatus("Yank failed", editor.SeverityWarning)
			return
		}
	} else {
		if !e.cutCharacterRange(spanStart.line, spanStart.col, spanEnd.line, spanEnd.col) {
			e.state.SetStatus("Delete failed", editor.SeverityWarning)
			return
		}
	}
	if !yank || !forward {
		e.state.SetCursor(spanStart.line, spanStart.col)
	}

	msg := verb + " to paragraph"
	if count > 1 {
		msg = fmt.Sprintf("%s (%d)", msg, count)
	}
	e.state.SetStatus(msg, editor.SeverityInfo)
}

// operateToLineEnd runs $ under the d or y operator. A count extends the
// span to the end of the count-th line below.
func (e *Engine) operateToLineEnd(yank bool) {
	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	count := e.counts.consumeOr(1)
	if count < 1 {
		count = 1
	}

	targetLine := start.line
	if count > 1 {
		targetLine = start.line + count - 1
		if last := buf.LineCount() - 1; targetLine > last {
			targetLine = last
		}
	}
	end := lineEndPosition(buf, targetLine)
	if start == end {
		e.state.SetStatus(nothingToOperate(yank), editor.SeverityWarning)
		return
	}

	verb := "Deleted"
	if yank {
		verb = "Yanked"
		if !e.copyCharacterRange(start.line, start.col, end.line, end.col) {
			e.state.SetStatus("Yank failed", editor.SeverityWarning)
			return
		}
	} else {
		if !e.cutCharacterRange(start.line, start.col, end.line, end.col) {
			e.state.SetStatus("Delete failed", editor.SeverityWarning)
			return
		}
		e.state.SetCursor(start.line, start.col)
	}

	msg := verb + " to line end"
	if targetLine != start.line {
		msg = fmt.Sprintf("%s (%d lines)", msg, targetLine-start.line+1)
	}
	e.state.SetStatus(msg, editor.SeverityInfo)
}

// deleteToLineStart implements d0.
func (e *Engine) deleteToLineStart() {
	buf := e.state.Buffer()
	line := e.state.CursorLine()
	col := e.state.CursorColumn()
	if max := len(buf.Line(line)); col > max {
		col = max
	}
	e.counts.reset()

	if col == 0 {
		e.state.SetStatus("Already at line start", editor.SeverityWarning)
		return
	}
	if !e.cutCharacterRange(line, 0, line, col) {
		e.state.SetStatus("Delete failed", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(line, 0)
	e.state.SetStatus("Deleted to line start", editor.SeverityInfo)
}

// yankToLineStart implements y0. The cursor stays put.
func (e *Engine) yankToLineStart() {
	buf := e.state.Buffer()
	line := e.state.CursorLine()
	col := e.state.CursorColumn()
	if max := len(buf.Line(line)); col > max {
		col = max
	}
	e.counts.reset()

	if col == 0 {
		e.state.SetStatus("Nothing to yank", editor.SeverityWarning)
		return
	}
	if !e.copyCharacterRange(line, 0, line, col) {
		e.state.SetStatus("Yank failed", editor.SeverityWarning)
		return
	}
	e.state.SetStatus("Yanked to line start", editor.SeverityInfo)
}

// deleteCharacters implements x: cut count characters at the cursor,
// staying within the line.
func (e *Engine) deleteCharacters() {
	count := e.counts.consumeOr(1)
	line := e.state.CursorLine()
	col := e.state.CursorColumn()
	if !e.cutCharacterRange(line, col, line, col+count) {
		e.state.SetStatus("Delete failed", editor.SeverityWarning)
		return
	}
	e.state.SetCursor(line, col)
	e.state.SetStatus("Deleted characters", editor.SeverityInfo)
}

func linesMessage(verb string, count int) string {
	msg := fmt.Sprintf("%s %d line", verb, count)
	if count != 1 {
		msg += "s"
	}
	return msg
}

func wordsMessage(verb string, count int, big bool) string {
	noun := "word"
	if big {
		noun = "WORD"
	}
	msg := fmt.Sprintf("%s %d %s", verb, count, noun)
	if count != 1 {
		msg += "s"
	}
	return msg
}

func noWordMessage(big, forward bool) string {
	noun := "word"
	if big {
		noun = "WORD"
	}
	if forward {
		return "No " + noun + " ahead"
	}
	return "No " + noun + " before"
}

func nothingToOperate(yank bool) string {
	if yank {
		return "Nothing to yank"
	}
	return "Nothing to delete"
}
