package excmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/mote/internal/editor"
)

// Delete removes one line. ":d" deletes the cursor line; ":d N" deletes
// 1-based line N. Digits are collected from anywhere in the argument,
// and a value of zero falls back to the cursor line.
type Delete struct{}

// Matches implements Command.Matches.
func (Delete) Matches(input string) bool {
	return strings.HasPrefix(input, ":d")
}

// Execute implements Command.Execute.
func (Delete) Execute(state *editor.State, input string) {
	target := state.CursorLine()
	if digits := digitsIn(input[2:]); digits != "" {
		if parsed, err := strconv.Atoi(digits); err == nil && parsed > 0 {
			target = parsed - 1
		}
	}

	buf := state.Buffer()
	if target >= buf.LineCount() {
		state.SetStatus("Line out of range", editor.SeverityWarning)
		return
	}
	if err := buf.DeleteLine(target); err != nil {
		state.SetStatus("Line out of range", editor.SeverityWarning)
		return
	}
	state.MoveCursorLine(0)
	state.SetStatus(fmt.Sprintf("Deleted line %d", target+1), editor.SeverityInfo)
}

// digitsIn collects every ASCII digit in s, skipping other characters.
func digitsIn(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
