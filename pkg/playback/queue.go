package playback

import (
	"slices"
	"sync"
)

// DefaultQueueCapacity bounds the number of undrained events.
const DefaultQueueCapacity = 256

// Queue is the FIFO status bus between the pipeline and the widget.
// When full the oldest event is discarded.
type Queue struct {
	mu       sync.Mutex
	events   []StatusEvent
	capacity int
	dropped  uint64
}

// NewQueue creates a queue holding at most capacity events.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{capacity: capacity}
}

// Push appends an event.
func (q *Queue) Push(ev StatusEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) >= q.capacity {
		q.events = q.events[1:]
		q.dropped++
	}
	q.events = append(q.events, ev)
}

// PopFiltered removes and returns the oldest event whose kind is one of kinds.
// Events of other kinds stay queued in order.
func (q *Queue) PopFiltered(kinds ...EventKind) (StatusEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, ev := range q.events {
		if slices.Contains(kinds, ev.Kind) {
			q.events = slices.Delete(q.events, i, i+1)
			return ev, true
		}
	}
	return StatusEvent{}, false
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Dropped returns how many events were discarded because the queue was full.
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
