package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stream = `# captured on a test device
{"sourceId":"com.google.android.gm","title":"Card used","text":"{\"merchant\":\"Cafe\",\"amt\":4.5}","arrivalTime":"2025-06-01T12:00:00Z"}

{"sourceId":"com.example.chat","text":"hi"}
not json
{"title":"no source"}
{"sourceId":"com.google.android.gm","bigText":"last line"}`

func TestReader_Next(t *testing.T) {
	reader := NewReader(strings.NewReader(stream))
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	reader.now = func() time.Time { return fixed }
	ctx := context.Background()

	first, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "com.google.android.gm", first.SourceID)
	require.NotNil(t, first.Title)
	assert.Equal(t, "Card used", *first.Title)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), first.ArrivalTime)
	assert.Equal(t, 2, reader.Line())

	second, err := reader.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "com.example.chat", second.SourceID)
	assert.Equal(t, fixed, second.ArrivalTime, "missing arrival time defaults to now")

	_, err = reader.Next(ctx)
	require.ErrorIs(t, err, ErrMalformedEvent)
	assert.Contains(t, err.Error(), "line 5")

	_, err = reader.Next(ctx)
	require.ErrorIs(t, err, ErrMalformedEvent)
	assert.Contains(t, err.Error(), "missing sourceId")

	last, err := reader.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, last.BigText)
	assert.Equal(t, "last line", *last.BigText)

	_, err = reader.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()

	reader := NewReader(pr)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := reader.Next(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestReadAll(t *testing.T) {
	var skipped []error
	events, err := ReadAll(context.Background(), strings.NewReader(stream), func(err error) {
		skipped = append(skipped, err)
	})

	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Len(t, skipped, 2)
	for _, e := range skipped {
		assert.True(t, errors.Is(e, ErrMalformedEvent))
	}
}
