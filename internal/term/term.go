// Package term owns the tcell screen: lifecycle, cell painting, and
// decoding terminal key events into key.Event values for the engine.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal wraps a tcell screen. Paint methods are safe for concurrent
// use; PollKey is meant to be called from a single input goroutine.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// New creates a terminal over a freshly allocated tcell screen.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewWithScreen creates a terminal over an existing screen. Tests use
// this with tcell's simulation screen.
func NewWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init puts the terminal into full-screen mode and resets the default
// style.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.SetStyle(tcell.StyleDefault)
	return nil
}

// Fini restores the terminal to its previous state.
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// Size returns the current terminal dimensions.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

// Clear erases the whole screen with the default style.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

// SetCell paints a single rune at the given position.
func (t *Terminal) SetCell(x, y int, r rune, style tcell.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, r, nil, style)
}

// Show flushes pending changes to the display.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

// ShowCursor places and displays the hardware cursor.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

// HideCursor hides the hardware cursor.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

// Stop wakes a pending PollKey so the input loop can observe shutdown.
func (t *Terminal) Stop() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort wakeup
}
