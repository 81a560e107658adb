// Package source decodes notification events from JSON-lines streams.
package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/spicewatch/internal/model"
)

var (
	// ErrInputCancelled is returned when a read is abandoned because ctx ended.
	ErrInputCancelled = errors.New("input canceled")
	// ErrMalformedEvent marks a line that is not a notification object.
	ErrMalformedEvent = errors.New("malformed notification event")
)

// Reader yields one notification per non-blank line. Lines starting with #
// are comments.
type Reader struct {
	reader      *bufio.Reader
	now         func() time.Time
	line        int
	readingLock sync.Mutex
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		reader: bufio.NewReader(r),
		now:    time.Now,
	}
}

// Line returns the number of the most recently read line.
func (r *Reader) Line() int {
	r.readingLock.Lock()
	defer r.readingLock.Unlock()
	return r.line
}

// Next returns the next notification. It returns io.EOF at end of input,
// ErrInputCancelled when ctx ends first, and an error wrapping
// ErrMalformedEvent for an undecodable line; reading may continue after that.
func (r *Reader) Next(ctx context.Context) (model.Notification, error) {
	for {
		line, lineNo, err := r.readLine(ctx)
		if err != nil {
			return model.Notification{}, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		n, err := r.decode(trimmed)
		if err != nil {
			return model.Notification{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		return n, nil
	}
}

// readLine reads one line without letting a blocked read outlive ctx. An
// abandoned read keeps running in the background and its line is lost.
func (r *Reader) readLine(ctx context.Context) (string, int, error) {
	type result struct {
		err    error
		value  string
		lineNo int
	}
	resultCh := make(chan result, 1)

	go func() {
		r.readingLock.Lock()
		defer r.readingLock.Unlock()

		value, err := r.reader.ReadString('\n')
		if value != "" {
			r.line++
		}
		if errors.Is(err, io.EOF) && value != "" {
			// Final line without a trailing newline.
			err = nil
		}
		resultCh <- result{value: value, err: err, lineNo: r.line}
	}()

	select {
	case <-ctx.Done():
		return "", 0, ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.lineNo, res.err
	}
}

func (r *Reader) decode(line string) (model.Notification, error) {
	var n model.Notification
	if err := json.Unmarshal([]byte(line), &n); err != nil {
		return model.Notification{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if strings.TrimSpace(n.SourceID) == "" {
		return model.Notification{}, fmt.Errorf("%w: missing sourceId", ErrMalformedEvent)
	}
	if n.ArrivalTime.IsZero() {
		n.ArrivalTime = r.now()
	}
	return n, nil
}

// ReadAll decodes every notification in r. Malformed lines are reported
// through skip, when non-nil, and otherwise ignored.
func ReadAll(ctx context.Context, r io.Reader, skip func(error)) ([]model.Notification, error) {
	reader := NewReader(r)
	var out []model.Notification
	for {
		n, err := reader.Next(ctx)
		switch {
		case err == nil:
			out = append(out, n)
		case errors.Is(err, io.EOF):
			return out, nil
		case errors.Is(err, ErrMalformedEvent):
			if skip != nil {
				skip(err)
			}
		default:
			return out, err
		}
	}
}
