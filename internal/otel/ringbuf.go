package otel

import (
	"maps"
	"sync"
)

// DefaultRingSize is the ring capacity used when a non-positive size is given.
const DefaultRingSize = 512

// RingBuffer keeps the most recent events in memory for the debug overlay.
// Safe for concurrent Push and reads.
type RingBuffer struct {
	mu     sync.Mutex
	events []Event // grows to capacity, then wraps
	next   int     // write position once full
	limit  int
}

// NewRingBuffer creates a ring holding at most size events.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = DefaultRingSize
	}
	return &RingBuffer{
		events: make([]Event, 0, size),
		limit:  size,
	}
}

// Push stores e, evicting the oldest event when full. Extra is copied so the
// caller may reuse its map.
func (r *RingBuffer) Push(e Event) {
	if e.Extra != nil {
		e.Extra = maps.Clone(e.Extra)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) < r.limit {
		r.events = append(r.events, e)
		return
	}
	r.events[r.next] = e
	r.next = (r.next + 1) % r.limit
}

// Snapshot returns every stored event, oldest first.
func (r *RingBuffer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered(len(r.events))
}

// Last returns up to n of the newest events, oldest first. n <= 0 yields nil.
func (r *RingBuffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ordered(min(n, len(r.events)))
}

// ordered copies the newest n events in chronological order. Caller holds r.mu.
func (r *RingBuffer) ordered(n int) []Event {
	if n == 0 {
		return nil
	}
	total := len(r.events)
	out := make([]Event, 0, n)
	// When not yet full, r.next is 0 and the slice is already chronological.
	for i := total - n; i < total; i++ {
		out = append(out, r.events[(r.next+i)%total])
	}
	return out
}

// Len returns the number of stored events.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Cap returns the ring capacity.
func (r *RingBuffer) Cap() int {
	return r.limit
}

// Stats counts stored events per kind.
func (r *RingBuffer) Stats() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[EventKind]int)
	for _, e := range r.events {
		counts[e.Kind]++
	}
	return counts
}

// Errors returns how many stored events are at error level.
func (r *RingBuffer) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == LevelError {
			n++
		}
	}
	return n
}
