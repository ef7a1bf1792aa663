package event

import (
	"sync"
	"testing"

	"github.com/dshills/mote/internal/key"
)

func TestPushAndConsumeAllPreservesOrder(t *testing.T) {
	q := NewQueue()
	input := "3dw"
	for _, r := range input {
		q.Push(key.Rune(r))
	}

	batch := q.ConsumeAll()
	if len(batch) != len(input) {
		t.Fatalf("batch length = %d, want %d", len(batch), len(input))
	}
	for i, r := range input {
		if batch[i].Rune != r {
			t.Errorf("batch[%d].Rune = %q, want %q", i, batch[i].Rune, r)
		}
	}
}

func TestConsumeAllEmptiesQueue(t *testing.T) {
	q := NewQueue()
	q.Push(key.Rune('a'))

	if got := q.ConsumeAll(); len(got) != 1 {
		t.Fatalf("first drain length = %d, want 1", len(got))
	}
	if got := q.ConsumeAll(); got != nil {
		t.Fatalf("second drain = %v, want nil", got)
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
}

func TestConcurrentProducerSingleConsumer(t *testing.T) {
	q := NewQueue()
	const total = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < total; i++ {
			q.Push(key.Rune(rune('0' + i%10)))
		}
	}()

	consumed := 0
	for consumed < total {
		consumed += len(q.ConsumeAll())
	}
	wg.Wait()

	if consumed != total {
		t.Fatalf("consumed %d events, want %d", consumed, total)
	}
	if got := q.Len(); got != 0 {
		t.Fatalf("Len() after drain = %d, want 0", got)
	}
}

func TestOrderAcrossBatchBoundaries(t *testing.T) {
	q := NewQueue()

	q.Push(key.Rune('1'))
	q.Push(key.Rune('2'))
	first := q.ConsumeAll()

	q.Push(key.Rune('3'))
	second := q.ConsumeAll()

	var seen []rune
	for _, ev := range append(first, second...) {
		seen = append(seen, ev.Rune)
	}
	want := []rune{'1', '2', '3'}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("order = %q, want %q", string(seen), string(want))
		}
	}
}
