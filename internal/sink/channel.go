package sink

import (
	"context"
	"sync/atomic"

	"github.com/Veraticus/spicewatch/internal/model"
)

// ChannelSink hands events to a consumer over a buffered channel. When the
// buffer is full the event is dropped rather than stalling the pipeline.
type ChannelSink struct {
	events  chan model.StatusEvent
	dropped atomic.Int64
}

// NewChannelSink creates a ChannelSink with the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan model.StatusEvent, buffer)}
}

// Events is the receive side.
func (c *ChannelSink) Events() <-chan model.StatusEvent {
	return c.events
}

// Emit enqueues event without blocking.
func (c *ChannelSink) Emit(_ context.Context, event model.StatusEvent) {
	select {
	case c.events <- event:
	default:
		c.dropped.Add(1)
	}
}

// Close closes the receive side. Call it only once every producer has stopped.
func (c *ChannelSink) Close() {
	close(c.events)
}

// Dropped returns how many events were discarded.
func (c *ChannelSink) Dropped() int64 {
	return c.dropped.Load()
}
