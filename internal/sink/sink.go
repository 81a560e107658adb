// Package sink delivers status events to whatever is showing them.
package sink

import (
	"context"
	"log/slog"

	"github.com/Veraticus/spicewatch/internal/model"
)

// EventSink receives status events. Emit must not block for long and must be
// safe for concurrent use.
type EventSink interface {
	Emit(ctx context.Context, event model.StatusEvent)
}

// Func adapts a function to EventSink.
type Func func(ctx context.Context, event model.StatusEvent)

// Emit calls f.
func (f Func) Emit(ctx context.Context, event model.StatusEvent) {
	f(ctx, event)
}

// LogSink writes events to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Emit logs the event. Failures log at warn, debug events at debug.
func (s *LogSink) Emit(ctx context.Context, event model.StatusEvent) {
	level := slog.LevelInfo
	switch event.Title {
	case model.TitleFailed:
		level = slog.LevelWarn
	case model.TitleDebug:
		level = slog.LevelDebug
	}
	s.logger.Log(ctx, level, event.Title, "text", event.Text)
}

// Fanout forwards every event to each sink in order.
type Fanout []EventSink

// Emit forwards event.
func (f Fanout) Emit(ctx context.Context, event model.StatusEvent) {
	for _, s := range f {
		if s != nil {
			s.Emit(ctx, event)
		}
	}
}

// Discard drops every event.
type Discard struct{}

// Emit does nothing.
func (Discard) Emit(context.Context, model.StatusEvent) {}
