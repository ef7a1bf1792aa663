package key

import "testing"

func TestGesture(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"letter", Rune('x'), "x"},
		{"digit", Rune('7'), "7"},
		{"punctuation", Rune('$'), "$"},
		{"zero rune unbindable", Event{Code: CodeRune}, ""},
		{"enter", Event{Code: CodeEnter}, "<Enter>"},
		{"escape", Event{Code: CodeEscape}, "<Esc>"},
		{"backspace", Event{Code: CodeBackspace}, "<Backspace>"},
		{"up", Event{Code: CodeUp}, "<Up>"},
		{"down", Event{Code: CodeDown}, "<Down>"},
		{"left", Event{Code: CodeLeft}, "<Left>"},
		{"right", Event{Code: CodeRight}, "<Right>"},
		{"none", Event{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Gesture(); got != tt.want {
				t.Errorf("Gesture() = %q, want %q", got, tt.want)
			}
		})
	}
}
