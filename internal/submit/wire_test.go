package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/Veraticus/spicewatch/internal/enrich"
	"github.com/Veraticus/spicewatch/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireTransaction(t *testing.T, text string) map[string]any {
	t.Helper()

	result := extract.NewBoundary(common.DiscardLogger()).Extract(context.Background(), text)
	require.True(t, result.Found)

	enricher := enrich.New(enrich.NewMemorySessionStore("acct-9"), common.DiscardLogger(),
		enrich.WithClock(func() time.Time { return time.UnixMilli(1_750_000_000_000) }))
	txn, err := enricher.Enrich(context.Background(), result.Candidate)
	require.NoError(t, err)

	data, err := json.Marshal(newRequest(txn))
	require.NoError(t, err)

	var body struct {
		Transaction map[string]any `json:"transaction"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&body))
	return body.Transaction
}

func TestNewRequest_UnixTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "seconds forwarded unchanged",
			text: `{"merchant":"A","amt":1,"unix_time":1371854247,"trans_num":"x"}`,
			want: "1371854247",
		},
		{
			name: "milliseconds forwarded unchanged",
			text: `{"merchant":"A","amt":1,"unix_time":1371854247123}`,
			want: "1371854247123",
		},
		{
			name: "absent uses enrichment time",
			text: `{"merchant":"A","amt":1}`,
			want: "1750000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := wireTransaction(t, tt.text)
			assert.Equal(t, json.Number(tt.want), txn["unix_time"])
		})
	}
}

type endlessReader struct{}

func (endlessReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}

func TestReadBody_Bounded(t *testing.T) {
	body, err := readBody(endlessReader{})
	require.NoError(t, err)
	assert.Len(t, body, maxResponseBytes)
}
