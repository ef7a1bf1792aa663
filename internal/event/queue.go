// Package event provides the thread-safe queue carrying decoded key
// events from the input goroutine to the main loop.
package event

import (
	"sync"

	"github.com/dshills/mote/internal/key"
)

// Queue is an order-preserving FIFO of key events. Push and ConsumeAll
// may be called from different goroutines; the internal mutex is held
// only for the duration of an append or a swap.
type Queue struct {
	mu     sync.Mutex
	events []key.Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event to the backlog.
func (q *Queue) Push(ev key.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// ConsumeAll atomically takes the entire backlog, leaving the queue
// empty. The returned slice is owned by the caller. Returns nil when no
// events are pending.
func (q *Queue) ConsumeAll() []key.Event {
	q.mu.Lock()
	batch := q.events
	q.events = nil
	q.mu.Unlock()
	return batch
}

// Len reports the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	n := len(q.events)
	q.mu.Unlock()
	return n
}
