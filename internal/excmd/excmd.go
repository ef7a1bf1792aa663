// Package excmd implements the colon commands reachable from command
// mode: writing the buffer, quitting, and deleting lines. Commands are
// tried in registration order and the first match wins, so narrower
// matches must be registered ahead of broader prefixes.
package excmd

import (
	"github.com/dshills/mote/internal/editor"
)

// Command is a single colon command. Matches inspects the normalized
// ":name" form of the input; Execute receives the full input so each
// command parses its own arguments.
type Command interface {
	// Matches reports whether this command should handle the input.
	Matches(input string) bool

	// Execute runs the command against the editor state.
	Execute(state *editor.State, input string)
}

// Dispatcher routes a command line to the first matching Command.
type Dispatcher struct {
	commands []Command
}

// NewDispatcher creates a dispatcher over the given commands, tried in
// order.
func NewDispatcher(commands ...Command) *Dispatcher {
	return &Dispatcher{commands: commands}
}

// Defaults returns a dispatcher holding the built-in command set.
func Defaults() *Dispatcher {
	return NewDispatcher(Write{}, Quit{}, Delete{})
}

// Register appends a command to the match order.
func (d *Dispatcher) Register(cmd Command) {
	d.commands = append(d.commands, cmd)
}

// Handle executes the first command whose Matches accepts input and
// reports whether any command matched.
func (d *Dispatcher) Handle(state *editor.State, input string) bool {
	for _, cmd := range d.commands {
		if cmd.Matches(input) {
			cmd.Execute(state, input)
			return true
		}
	}
	return false
}
