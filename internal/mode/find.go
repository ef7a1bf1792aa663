package mode

import (
	"fmt"
	"strings"

	"github.com/dshills/mote/internal/buffer"
	"github.com/dshills/mote/internal/editor"
)

// findKind identifies one of the four in-line character searches.
type findKind int

const (
	findForwardTo findKind = iota
	findForwardTill
	findBackwardTo
	findBackwardTill
)

func findKindFromCommand(cmd rune) (findKind, bool) {
	switch cmd {
	case 'f':
		return findForwardTo, true
	case 't':
		return findForwardTill, true
	case 'F':
		return findBackwardTo, true
	case 'T':
		return findBackwardTill, true
	}
	return 0, false
}

func findCommandFromState(backward, till bool) rune {
	switch {
	case backward && till:
		return 'T'
	case backward:
		return 'F'
	case till:
		return 't'
	}
	return 'f'
}

// findCharForward locates the count-th occurrence of target strictly
// after startCol. Columns are byte offsets.
func findCharForward(line string, target rune, startCol, count int) (int, bool) {
	if len(line) == 0 {
		return 0, false
	}
	if startCol >= len(line) {
		startCol = len(line) - 1
	}
	if count < 1 {
		count = 1
	}

	probe := startCol
	for count > 0 {
		if probe+1 >= len(line) {
			return 0, false
		}
		idx := strings.IndexRune(line[probe+1:], target)
		if idx < 0 {
			return 0, false
		}
		probe += 1 + idx
		count--
		if count == 0 {
			return probe, true
		}
	}
	return 0, false
}

// findCharBackward locates the count-th occurrence of target strictly
// before startCol.
func findCharBackward(line string, target rune, startCol, count int) (int, bool) {
	if len(line) == 0 {
		return 0, false
	}
	if startCol >= len(line) {
		startCol = len(line) - 1
	}
	if count < 1 {
		count = 1
	}

	probe := startCol
	for count > 0 {
		if probe == 0 {
			return 0, false
		}
		idx := strings.LastIndex(line[:probe], string(target))
		if idx < 0 {
			return 0, false
		}
		probe = idx
		count--
		if count == 0 {
			return probe, true
		}
	}
	return 0, false
}

// findMotionResult describes a resolved find: where the cursor lands,
// where the match sits, and whether an operator span includes the
// matched character ("to" does, "till" does not).
type findMotionResult struct {
	cursor        position
	matchedCol    int
	includeTarget bool
	backward      bool
}

// resolveFindMotion turns a find request into a cursor target. "till"
// variants stop one short of the match; a resolved cursor equal to the
// starting column counts as a miss.
func resolveFindMotion(buf *buffer.Buffer, start position, target rune, count int, kind findKind) (findMotionResult, bool) {
	start = clampPosition(buf, start)
	line := buf.Line(start.line)
	if len(line) == 0 {
		return findMotionResult{}, false
	}

	backward := kind == findBackwardTo || kind == findBackwardTill
	till := kind == findForwardTill || kind == findBackwardTill
	if count < 1 {
		count = 1
	}

	var matched int
	var ok bool
	if backward {
		matched, ok = findCharBackward(line, target, start.col, count)
	} else {
		matched, ok = findCharForward(line, target, start.col, count)
	}
	if !ok {
		return findMotionResult{}, false
	}

	cursorCol := matched
	if till {
		if backward {
			cursorCol = matched + 1
			if cursorCol > len(line) {
				cursorCol = len(line)
			}
		} else {
			if matched == 0 {
				return findMotionResult{}, false
			}
			cursorCol = matched - 1
		}
	}
	if cursorCol > len(line) {
		cursorCol = len(line)
	}
	if cursorCol == start.col {
		return findMotionResult{}, false
	}

	return findMotionResult{
		cursor:        position{start.line, cursorCol},
		matchedCol:    matched,
		includeTarget: !till,
		backward:      backward,
	}, true
}

// findAction selects what a resolved find does with its span.
type findAction int

const (
	findMove findAction = iota
	findDelete
	findYank
)

// applyFindCommand runs one of f/t/F/T as a motion, a delete span, or a
// yank span. On success the find is recorded for ; and , repeats.
func (e *Engine) applyFindCommand(cmd rune, action findAction, target rune) bool {
	kind, ok := findKindFromCommand(cmd)
	if !ok {
		return false
	}

	buf := e.state.Buffer()
	start := position{e.state.CursorLine(), e.state.CursorColumn()}
	count := e.counts.consumeOr(1)

	if len(buf.Line(start.line)) == 0 {
		e.state.SetStatus("Line empty", editor.SeverityWarning)
		return false
	}

	result, ok := resolveFindMotion(buf, start, target, count, kind)
	if !ok {
		e.state.SetStatus("Target not found", editor.SeverityWarning)
		return false
	}

	till := kind == findForwardTill || kind == findBackwardTill

	switch action {
	case findDelete, findYank:
		lineLen := len(buf.Line(start.line))
		var rangeStart, rangeEnd int

		if !result.backward {
			rangeStart = start.col
			rangeEnd = result.cursor.col + 1
			if result.includeTarget {
				rangeEnd = result.matchedCol + 1
			}
			if rangeEnd > lineLen {
				rangeEnd = lineLen
			}
			if rangeEnd <= start.col {
				e.state.SetStatus(nothingStatus(action), editor.SeverityWarning)
				return false
			}
		} else {
			rangeStart = result.cursor.col
			if result.includeTarget {
				rangeStart = result.matchedCol
			}
			if rangeStart >= start.col {
				e.state.SetStatus(nothingStatus(action), editor.SeverityWarning)
				return false
			}
			rangeEnd = start.col + 1
			if rangeEnd > lineLen {
				rangeEnd = lineLen
			}
		}

		if action == findDelete {
			if !e.cutCharacterRange(start.line, rangeStart, start.line, rangeEnd) {
				e.state.SetStatus("Delete failed", editor.SeverityWarning)
				return false
			}
		} else {
			if !e.copyCharacterRange(start.line, rangeStart, start.line, rangeEnd) {
				e.state.SetStatus("Yank failed", editor.SeverityWarning)
				return false
			}
		}
		e.state.SetCursor(start.line, rangeStart)

		verb := "Deleted"
		if action == findYank {
			verb = "Yanked"
		}
		msg := fmt.Sprintf("%s to '%c'", verb, target)
		if count > 1 {
			msg = fmt.Sprintf("%s (%d)", msg, count)
		}
		e.state.SetStatus(msg, editor.SeverityInfo)

	default:
		e.state.SetCursor(result.cursor.line, result.cursor.col)
		e.state.ClearStatus()
	}

	e.hasLastFind = true
	e.lastFindTarget = target
	e.lastFindBackward = result.backward
	e.lastFindTill = till
	return true
}

func nothingStatus(action findAction) string {
	if action == findYank {
		return "Nothing to yank"
	}
	return "Nothing to delete"
}

// applyRepeatFind reruns the recorded find, optionally reversed. The
// pending counts stay untouched on "No previous find" so a stray repeat
// does not eat a typed prefix.
func (e *Engine) applyRepeatFind(reverse bool, action findAction) bool {
	if !e.hasLastFind {
		e.state.SetStatus("No previous find", editor.SeverityWarning)
		return false
	}

	backward := e.lastFindBackward
	if reverse {
		backward = !backward
	}
	cmd := findCommandFromState(backward, e.lastFindTill)
	return e.applyFindCommand(cmd, action, e.lastFindTarget)
}
