package mode

import (
	"strings"
	"unicode"

	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/key"
)

// Dispatcher executes one colon command against the editor state and
// reports whether the command was recognized and succeeded.
type Dispatcher interface {
	Handle(state *editor.State, command string) bool
}

const commandTrimCutset = " \t\r\n"

func (e *Engine) handleCommandMode(ev key.Event) {
	switch ev.Code {
	case key.CodeEscape:
		e.commandBuffer = e.commandBuffer[:0]
		e.state.SetMode(editor.ModeNormal)
		e.state.ClearStatus()
	case key.CodeEnter:
		if len(e.commandBuffer) == 0 {
			e.state.SetStatus("Command line empty", editor.SeverityWarning)
		} else if !e.executeCommandLine(string(e.commandBuffer)) {
			e.state.SetStatus("Unknown command", editor.SeverityWarning)
		}
		e.commandBuffer = e.commandBuffer[:0]
		e.state.SetMode(editor.ModeNormal)
	case key.CodeBackspace:
		if len(e.commandBuffer) > 0 {
			e.commandBuffer = e.commandBuffer[:len(e.commandBuffer)-1]
		}
	case key.CodeRune:
		if unicode.IsPrint(ev.Rune) {
			e.commandBuffer = append(e.commandBuffer, ev.Rune)
		}
	}
}

// executeCommandLine splits the typed line on | and ; separators,
// normalizes each segment to a :name form ("wq", "qw" and "x" expand to
// :w followed by :q), and dispatches the segments in order. Execution
// stops at the first failed command or once the session quits.
func (e *Engine) executeCommandLine(line string) bool {
	if strings.Trim(line, commandTrimCutset) == "" {
		return false
	}

	segments := strings.FieldsFunc(line, func(r rune) bool {
		return r == '|' || r == ';'
	})

	commands := make([]string, 0, len(segments)+1)
	for _, segment := range segments {
		cmd := strings.Trim(segment, commandTrimCutset)
		if cmd == "" {
			continue
		}
		switch cmd {
		case "wq", "qw", "x":
			commands = append(commands, ":w", ":q")
			continue
		}
		if cmd[0] != ':' {
			cmd = ":" + cmd
		}
		commands = append(commands, cmd)
	}
	if len(commands) == 0 || e.dispatch == nil {
		return false
	}

	for _, cmd := range commands {
		if !e.dispatch.Handle(e.state, cmd) {
			return false
		}
		if !e.state.Running() {
			break
		}
	}
	return true
}
