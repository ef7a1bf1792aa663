package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mote/internal/key"
)

// PollKey returns the next decoded key event without blocking. Resize
// events trigger a full repaint; keys outside the editor's gesture set
// and interrupt wakeups are discarded.
func (t *Terminal) PollKey() (key.Event, bool) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if decoded, ok := decodeKey(ev); ok {
				return decoded, true
			}
		case *tcell.EventResize:
			t.screen.Sync()
		case nil:
			return key.Event{}, false
		}
	}
	return key.Event{}, false
}

// decodeKey maps a tcell key event onto the editor's key set. Both
// tcell backspace variants collapse to CodeBackspace.
func decodeKey(ev *tcell.EventKey) (key.Event, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return key.Rune(ev.Rune()), true
	case tcell.KeyEscape:
		return key.Event{Code: key.CodeEscape}, true
	case tcell.KeyEnter:
		return key.Event{Code: key.CodeEnter}, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Event{Code: key.CodeBackspace}, true
	case tcell.KeyUp:
		return key.Event{Code: key.CodeUp}, true
	case tcell.KeyDown:
		return key.Event{Code: key.CodeDown}, true
	case tcell.KeyLeft:
		return key.Event{Code: key.CodeLeft}, true
	case tcell.KeyRight:
		return key.Event{Code: key.CodeRight}, true
	default:
		return key.Event{}, false
	}
}
