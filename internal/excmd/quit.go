package excmd

import (
	"github.com/dshills/mote/internal/editor"
)

// Quit ends the session. ":q" refuses while the buffer holds unsaved
// changes; ":q!" discards them.
type Quit struct{}

// Matches implements Command.Matches.
func (Quit) Matches(input string) bool {
	return input == ":q" || input == ":q!"
}

// Execute implements Command.Execute.
func (Quit) Execute(state *editor.State, input string) {
	force := input == ":q!"
	if state.Buffer().Dirty() && !force {
		state.SetStatus("Unsaved changes. Use :q! to force quit.", editor.SeverityWarning)
		return
	}
	state.ClearStatus()
	state.RequestQuit()
}
