package excmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/mote/internal/buffer"
	"github.com/dshills/mote/internal/editor"
)

// Write saves the buffer. ":w path" writes to path; ":w" writes to the
// buffer's stored path.
type Write struct{}

// Matches implements Command.Matches.
func (Write) Matches(input string) bool {
	return strings.HasPrefix(input, ":w")
}

// Execute implements Command.Execute.
func (Write) Execute(state *editor.State, input string) {
	arg := strings.TrimLeft(input[2:], " \t")
	buf := state.Buffer()
	err := buf.Save(arg)
	switch {
	case errors.Is(err, buffer.ErrNoFilePath):
		state.SetStatus("No file specified for write", editor.SeverityWarning)
	case err != nil:
		state.SetStatus("Failed to write file", editor.SeverityError)
	default:
		state.SetStatus(fmt.Sprintf("Wrote %d lines", buf.LineCount()), editor.SeverityInfo)
	}
}
