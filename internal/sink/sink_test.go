package sink

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(i int) model.StatusEvent {
	return model.StatusEvent{Title: model.TitleProcessed, Text: fmt.Sprintf("event %d", i)}
}

func texts(events []model.StatusEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Text
	}
	return out
}

func TestMemorySink_Ring(t *testing.T) {
	m := NewMemorySink(3)
	assert.Empty(t, m.Recent(0))

	m.Emit(context.Background(), event(1))
	m.Emit(context.Background(), event(2))
	assert.Equal(t, []string{"event 1", "event 2"}, texts(m.Recent(0)))
	assert.Equal(t, 2, m.Len())

	m.Emit(context.Background(), event(3))
	m.Emit(context.Background(), event(4))
	m.Emit(context.Background(), event(5))

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"event 3", "event 4", "event 5"}, texts(m.Recent(0)))
	assert.Equal(t, []string{"event 4", "event 5"}, texts(m.Recent(2)))
	assert.Equal(t, []string{"event 3", "event 4", "event 5"}, texts(m.Recent(10)))
}

func TestMemorySink_Concurrent(t *testing.T) {
	m := NewMemorySink(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				m.Emit(context.Background(), event(i*10+j))
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, m.Len())
}

func TestChannelSink_DropsWhenFull(t *testing.T) {
	c := NewChannelSink(2)
	for i := 0; i < 5; i++ {
		c.Emit(context.Background(), event(i))
	}

	assert.Equal(t, int64(3), c.Dropped())
	require.Len(t, c.Events(), 2)
	assert.Equal(t, "event 0", (<-c.Events()).Text)
	assert.Equal(t, "event 1", (<-c.Events()).Text)

	c.Close()
	_, ok := <-c.Events()
	assert.False(t, ok)
}

func TestFanout(t *testing.T) {
	a := NewMemorySink(5)
	b := NewMemorySink(5)
	var calls int
	f := Fanout{a, nil, b, Func(func(context.Context, model.StatusEvent) { calls++ })}

	f.Emit(context.Background(), event(1))

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, calls)
}

func TestLogSink_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	s := NewLogSink(logger)

	s.Emit(context.Background(), model.StatusEvent{Title: model.TitleDebug, Text: "Received notification from: x"})
	assert.Empty(t, buf.String(), "debug events are below info")

	s.Emit(context.Background(), model.StatusEvent{Title: model.TitleFailed, Text: "Error: boom"})
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "Error: boom")

	Discard{}.Emit(context.Background(), event(1))
}
