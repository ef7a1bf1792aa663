// Package key defines the decoded keyboard events exchanged between the
// terminal layer and the mode engine, and the canonical gesture strings
// used for keybinding lookup.
package key

// Code identifies the kind of key that was pressed. Character keys use
// CodeRune with the character stored in Event.Rune.
type Code uint8

const (
	CodeNone Code = iota
	CodeRune
	CodeEscape
	CodeEnter
	CodeBackspace
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
)

// String returns a human-readable name for the code.
func (c Code) String() string {
	switch c {
	case CodeRune:
		return "Rune"
	case CodeEscape:
		return "Escape"
	case CodeEnter:
		return "Enter"
	case CodeBackspace:
		return "Backspace"
	case CodeUp:
		return "Up"
	case CodeDown:
		return "Down"
	case CodeLeft:
		return "Left"
	case CodeRight:
		return "Right"
	default:
		return "None"
	}
}

// Event is a single decoded keyboard event.
type Event struct {
	Code Code
	Rune rune
}

// Rune builds a character event.
func Rune(r rune) Event {
	return Event{Code: CodeRune, Rune: r}
}

// Gesture returns the canonical gesture string for the event: the literal
// character for rune keys, a bracketed token for special keys, and the
// empty string for events that cannot be bound.
func (e Event) Gesture() string {
	switch e.Code {
	case CodeRune:
		if e.Rune == 0 {
			return ""
		}
		return string(e.Rune)
	case CodeEnter:
		return "<Enter>"
	case CodeEscape:
		return "<Esc>"
	case CodeBackspace:
		return "<Backspace>"
	case CodeUp:
		return "<Up>"
	case CodeDown:
		return "<Down>"
	case CodeLeft:
		return "<Left>"
	case CodeRight:
		return "<Right>"
	default:
		return ""
	}
}
