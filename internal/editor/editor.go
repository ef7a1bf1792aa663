// Package editor holds the mutable state of an editing session: the text
// buffer, the cursor, the active mode, the status line, and the running
// flag. State is mutated by the mode engine on the main loop only.
package editor

import "github.com/dshills/mote/internal/buffer"

// Mode identifies the editor's input mode. Exactly one mode is active at
// a time and transitions happen only through explicit engine actions.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeCommandLine
	// ModeVisual is declared for completeness; no current motion enters it.
	ModeVisual
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	case ModeCommandLine:
		return "command"
	case ModeVisual:
		return "visual"
	default:
		return "unknown"
	}
}

// Severity classifies a status message.
type Severity uint8

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// State is the per-session editing state.
type State struct {
	buf        *buffer.Buffer
	cursorLine int
	cursorCol  int
	mode       Mode
	running    bool
	status     string
	severity   Severity
}

// NewState creates a running state in Normal mode around buf.
func NewState(buf *buffer.Buffer) *State {
	return &State{buf: buf, running: true}
}

// Buffer returns the underlying text buffer.
func (s *State) Buffer() *buffer.Buffer {
	return s.buf
}

// CursorLine returns the 0-based cursor line.
func (s *State) CursorLine() int {
	return s.cursorLine
}

// CursorColumn returns the 0-based cursor byte column. The column may sit
// one past the end of the line.
func (s *State) CursorColumn() int {
	return s.cursorCol
}

// SetCursor places the cursor, clamping both coordinates to the buffer.
func (s *State) SetCursor(line, column int) {
	s.cursorLine = line
	s.cursorCol = column
	s.clampCursor()
}

// MoveCursorLine shifts the cursor vertically by delta, clamping to the
// buffer. A zero delta re-clamps in place, which callers use after edits.
func (s *State) MoveCursorLine(delta int) {
	s.cursorLine += delta
	if s.cursorLine < 0 {
		s.cursorLine = 0
	}
	if max := s.buf.LineCount() - 1; s.cursorLine > max {
		s.cursorLine = max
	}
	s.clampCursor()
}

// MoveCursorColumn shifts the cursor horizontally by delta, clamping to
// [0, len(line)].
func (s *State) MoveCursorColumn(delta int) {
	s.cursorCol += delta
	if s.cursorCol < 0 {
		s.cursorCol = 0
	}
	if max := len(s.buf.Line(s.cursorLine)); s.cursorCol > max {
		s.cursorCol = max
	}
	s.clampCursor()
}

func (s *State) clampCursor() {
	if s.cursorLine < 0 {
		s.cursorLine = 0
	}
	if max := s.buf.LineCount() - 1; s.cursorLine > max {
		s.cursorLine = max
	}
	if s.cursorCol < 0 {
		s.cursorCol = 0
	}
	if max := len(s.buf.Line(s.cursorLine)); s.cursorCol > max {
		s.cursorCol = max
	}
}

// Mode returns the active input mode.
func (s *State) Mode() Mode {
	return s.mode
}

// SetMode switches the active input mode.
func (s *State) SetMode(mode Mode) {
	s.mode = mode
}

// Running reports whether the session should keep processing events.
func (s *State) Running() bool {
	return s.running
}

// RequestQuit asks the session to stop after the current event.
func (s *State) RequestQuit() {
	s.running = false
}

// SetStatus records a status message with its severity.
func (s *State) SetStatus(message string, severity Severity) {
	s.status = message
	s.severity = severity
}

// ClearStatus removes the status message.
func (s *State) ClearStatus() {
	s.status = ""
	s.severity = SeverityNone
}

// Status returns the current status message.
func (s *State) Status() string {
	return s.status
}

// StatusLevel returns the severity of the current status message.
func (s *State) StatusLevel() Severity {
	return s.severity
}
