package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mote/internal/key"
)

// Helper to build a terminal over an initialized simulation screen.
func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	terminal := NewWithScreen(sim)
	if err := terminal.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(terminal.Fini)
	return terminal, sim
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		want   key.Event
		wantOK bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), key.Rune('x'), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), key.Event{Code: key.CodeEscape}, true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, '\r', tcell.ModNone), key.Event{Code: key.CodeEnter}, true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), key.Event{Code: key.CodeBackspace}, true},
		{"backspace2", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), key.Event{Code: key.CodeBackspace}, true},
		{"up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), key.Event{Code: key.CodeUp}, true},
		{"down", tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), key.Event{Code: key.CodeDown}, true},
		{"left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), key.Event{Code: key.CodeLeft}, true},
		{"right", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), key.Event{Code: key.CodeRight}, true},
		{"function key ignored", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), key.Event{}, false},
		{"delete ignored", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), key.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := decodeKey(tt.ev)
			if ok != tt.wantOK {
				t.Fatalf("decodeKey() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("decodeKey() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPollKeyDrainsInjectedKeys(t *testing.T) {
	terminal, sim := newSimTerminal(t)
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, '\r', tcell.ModNone)

	ev, ok := terminal.PollKey()
	if !ok || ev != key.Rune('a') {
		t.Fatalf("first PollKey() = %+v, %v, want rune 'a'", ev, ok)
	}
	ev, ok = terminal.PollKey()
	if !ok || ev.Code != key.CodeEnter {
		t.Fatalf("second PollKey() = %+v, %v, want Enter", ev, ok)
	}
	if _, ok := terminal.PollKey(); ok {
		t.Error("PollKey() on empty queue = true, want false")
	}
}

func TestPollKeySkipsUnmappedKeys(t *testing.T) {
	terminal, sim := newSimTerminal(t)
	sim.InjectKey(tcell.KeyF1, 0, tcell.ModNone)
	sim.InjectKey(tcell.KeyRune, 'b', tcell.ModNone)

	ev, ok := terminal.PollKey()
	if !ok || ev != key.Rune('b') {
		t.Fatalf("PollKey() = %+v, %v, want rune 'b' after skipping F1", ev, ok)
	}
}

func TestPollKeyEmptyQueue(t *testing.T) {
	terminal, _ := newSimTerminal(t)
	if ev, ok := terminal.PollKey(); ok {
		t.Errorf("PollKey() = %+v, true, want no event", ev)
	}
}

func TestStopDrainsToNoEvent(t *testing.T) {
	terminal, _ := newSimTerminal(t)
	terminal.Stop()
	if ev, ok := terminal.PollKey(); ok {
		t.Errorf("PollKey() after Stop = %+v, true, want no event", ev)
	}
}

func TestSetCellPaintsRune(t *testing.T) {
	terminal, sim := newSimTerminal(t)
	terminal.SetCell(0, 0, 'A', tcell.StyleDefault)
	terminal.Show()

	cells, width, _ := sim.GetContents()
	if width == 0 || len(cells) == 0 {
		t.Fatal("GetContents() returned empty screen")
	}
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != 'A' {
		t.Errorf("cell(0,0) = %v, want 'A'", cells[0].Runes)
	}
}

func TestSizeReportsDimensions(t *testing.T) {
	terminal, _ := newSimTerminal(t)
	w, h := terminal.Size()
	if w <= 0 || h <= 0 {
		t.Errorf("Size() = (%d,%d), want positive dimensions", w, h)
	}
}
