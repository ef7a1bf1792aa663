package mode

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/mote/internal/buffer"
	"github.com/dshills/mote/internal/editor"
)

func TestFindCharForward(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		target   rune
		startCol int
		count    int
		want     int
		wantOK   bool
	}{
		{"first occurrence", "banana", 'a', 0, 1, 1, true},
		{"second occurrence from match", "banana", 'a', 1, 1, 3, true},
		{"count three", "banana", 'a', 0, 3, 5, true},
		{"missing target", "banana", 'z', 0, 1, 0, false},
		{"nothing past line end", "banana", 'a', 5, 1, 0, false},
		{"empty line", "", 'a', 0, 1, 0, false},
		{"start beyond line clamps", "ab", 'b', 5, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findCharForward(tt.line, tt.target, tt.startCol, tt.count)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("col = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindCharBackward(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		target   rune
		startCol int
		count    int
		want     int
		wantOK   bool
	}{
		{"nearest before cursor", "banana", 'a', 5, 1, 3, true},
		{"skips the cursor column", "banana", 'a', 3, 1, 1, true},
		{"line start match", "banana", 'b', 3, 1, 0, true},
		{"nothing before column zero", "banana", 'a', 0, 1, 0, false},
		{"count two", "banana", 'n', 5, 2, 2, true},
		{"missing target", "banana", 'z', 5, 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findCharBackward(tt.line, tt.target, tt.startCol, tt.count)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("col = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveFindMotion(t *testing.T) {
	buf := buffer.New(buffer.WithLines([]string{"alpha beta"}))

	tests := []struct {
		name       string
		start      position
		kind       findKind
		wantCursor position
		wantMatch  int
		wantOK     bool
	}{
		{"forward to", position{0, 0}, findForwardTo, position{0, 4}, 4, true},
		{"forward till", position{0, 0}, findForwardTill, position{0, 3}, 4, true},
		{"backward to", position{0, 9}, findBackwardTo, position{0, 4}, 4, true},
		{"backward till", position{0, 9}, findBackwardTill, position{0, 5}, 4, true},
		{"till adjacent is a miss", position{0, 3}, findForwardTill, position{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := resolveFindMotion(buf, tt.start, 'a', 1, tt.kind)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if result.cursor != tt.wantCursor {
				t.Errorf("cursor = %v, want %v", result.cursor, tt.wantCursor)
			}
			if result.matchedCol != tt.wantMatch {
				t.Errorf("matchedCol = %d, want %d", result.matchedCol, tt.wantMatch)
			}
		})
	}
}

func TestFindKeyMoves(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "fa")
	wantCursor(t, state, 0, 4)
	if got := state.Status(); got != "" {
		t.Errorf("Status = %q, want empty", got)
	}

	typeKeys(e, ";")
	wantCursor(t, state, 0, 9)

	typeKeys(e, ",")
	wantCursor(t, state, 0, 4)
}

func TestFindKeyWithCount(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "2fa")
	wantCursor(t, state, 0, 9)
}

func TestFindMissLeavesEverythingAlone(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "fz")
	if got := state.Status(); got != "Target not found" {
		t.Fatalf("Status = %q, want %q", got, "Target not found")
	}
	if got := state.StatusLevel(); got != editor.SeverityWarning {
		t.Errorf("StatusLevel = %v, want %v", got, editor.SeverityWarning)
	}
	wantCursor(t, state, 0, 0)
	if got := state.Buffer().Line(0); got != "alpha beta" {
		t.Errorf("Line(0) = %q, want unchanged", got)
	}
}

func TestFindOnEmptyLine(t *testing.T) {
	e, state := newTestEngine(t, "")

	typeKeys(e, "fa")
	if got := state.Status(); got != "Line empty" {
		t.Fatalf("Status = %q, want %q", got, "Line empty")
	}
}

func TestTillKeyStopsShort(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "ta")
	wantCursor(t, state, 0, 3)

	// Repeating t against the adjacent match resolves to the same
	// column, which counts as a miss.
	typeKeys(e, "ta")
	if got := state.Status(); got != "Target not found" {
		t.Fatalf("Status = %q, want %q", got, "Target not found")
	}
	wantCursor(t, state, 0, 3)
}

func TestBackwardFindKeys(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")
	state.SetCursor(0, 9)

	typeKeys(e, "Fa")
	wantCursor(t, state, 0, 4)

	state.SetCursor(0, 9)
	typeKeys(e, "Ta")
	wantCursor(t, state, 0, 5)
}

func TestRepeatWithoutFindKeepsCount(t *testing.T) {
	e, state := newTestEngine(t, "a", "b", "c", "d", "e")

	typeKeys(e, "3;")
	if got := state.Status(); got != "No previous find" {
		t.Fatalf("Status = %q, want %q", got, "No previous find")
	}

	// The typed prefix survives the failed repeat.
	typeKeys(e, "j")
	wantCursor(t, state, 3, 0)
}

func TestDeleteToFind(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "dfa")
	if got := state.Buffer().Line(0); got != " beta" {
		t.Fatalf("Line(0) = %q, want %q", got, " beta")
	}
	wantCursor(t, state, 0, 0)
	if got := state.Status(); got != "Deleted to 'a'" {
		t.Errorf("Status = %q, want %q", got, "Deleted to 'a'")
	}
	if diff := cmp.Diff([]string{"alpha"}, e.yank); diff != "" {
		t.Errorf("yank mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteTillFind(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "dta")
	if got := state.Buffer().Line(0); got != "a beta" {
		t.Fatalf("Line(0) = %q, want %q", got, "a beta")
	}
	if got := state.Status(); got != "Deleted to 'a'" {
		t.Errorf("Status = %q, want %q", got, "Deleted to 'a'")
	}
}

func TestDeleteBackwardFind(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")
	state.SetCursor(0, 9)

	typeKeys(e, "dFa")
	if got := state.Buffer().Line(0); got != "alph" {
		t.Fatalf("Line(0) = %q, want %q", got, "alph")
	}
	wantCursor(t, state, 0, 4)
	if got := state.Status(); got != "Deleted to 'a'" {
		t.Errorf("Status = %q, want %q", got, "Deleted to 'a'")
	}
}

func TestCountedDeleteFind(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "2dfa")
	if got := state.Buffer().Line(0); got != "" {
		t.Fatalf("Line(0) = %q, want empty", got)
	}
	if got := state.Status(); got != "Deleted to 'a' (2)" {
		t.Errorf("Status = %q, want %q", got, "Deleted to 'a' (2)")
	}
}

func TestYankToFind(t *testing.T) {
	e, state := newTestEngine(t, "alpha beta")

	typeKeys(e, "yfa")
	if got := state.Buffer().Line(0); got != "alpha beta" {
		t.Fatalf("Line(0) = %q, want unchanged", got)
	}
	if got := state.Status(); got != "Yanked to 'a'" {
		t.Errorf("Status = %q, want %q", got, "Yanked to 'a'")
	}
	if diff := cmp.Diff([]string{"alpha"}, e.yank); diff != "" {
		t.Errorf("yank mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteRepeatFind(t *testing.T) {
	e, state := newTestEngine(t, "banana")

	typeKeys(e, "fa")
	wantCursor(t, state, 0, 1)

	typeKeys(e, "d;")
	if got := state.Buffer().Line(0); got != "bna" {
		t.Fatalf("Line(0) = %q, want %q", got, "bna")
	}
	if got := state.Status(); got != "Deleted to 'a'" {
		t.Errorf("Status = %q, want %q", got, "Deleted to 'a'")
	}
}
