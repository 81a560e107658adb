package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/spicewatch/internal/model"
)

// StatusPrinter writes status events to a terminal, one styled line each.
type StatusPrinter struct {
	writer     io.Writer
	showDebug  bool
	timeFormat string
	mu         sync.Mutex
}

// NewStatusPrinter creates a StatusPrinter. Debug events are printed only
// when showDebug is set.
func NewStatusPrinter(writer io.Writer, showDebug bool) *StatusPrinter {
	if writer == nil {
		writer = os.Stdout
	}
	return &StatusPrinter{
		writer:     writer,
		showDebug:  showDebug,
		timeFormat: time.TimeOnly,
	}
}

// Emit prints event.
func (p *StatusPrinter) Emit(_ context.Context, event model.StatusEvent) {
	line, ok := p.format(event)
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.writer, line)
}

func (p *StatusPrinter) format(event model.StatusEvent) (string, bool) {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}
	stamp := FormatSubtle(at.Format(p.timeFormat))

	if event.Title == model.TitleDebug && !p.showDebug {
		return "", false
	}
	return stamp + " " + FormatEvent(event), true
}
