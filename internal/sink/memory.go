package sink

import (
	"context"
	"sync"

	"github.com/Veraticus/spicewatch/internal/model"
)

// DefaultMemoryCapacity is the ring size used when none is given.
const DefaultMemoryCapacity = 100

// MemorySink keeps the most recent events in a ring buffer.
type MemorySink struct {
	events []model.StatusEvent
	next   int
	full   bool
	mu     sync.Mutex
}

// NewMemorySink creates a ring holding up to capacity events.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{events: make([]model.StatusEvent, capacity)}
}

// Emit stores event, evicting the oldest when full.
func (m *MemorySink) Emit(_ context.Context, event model.StatusEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events[m.next] = event
	m.next = (m.next + 1) % len(m.events)
	if m.next == 0 {
		m.full = true
	}
}

// Recent returns up to n events, oldest first. n <= 0 returns everything held.
func (m *MemorySink) Recent(n int) []model.StatusEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.next
	start := 0
	if m.full {
		size = len(m.events)
		start = m.next
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]model.StatusEvent, 0, n)
	for i := size - n; i < size; i++ {
		out = append(out, m.events[(start+i)%len(m.events)])
	}
	return out
}

// Len returns the number of events held.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return len(m.events)
	}
	return m.next
}
