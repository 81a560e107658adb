package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCompleter struct {
	err      error
	response string
	calls    atomic.Int32
}

func (c *countingCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	c.calls.Add(1)
	return c.response, c.err
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}},
		{name: "anthropic mixed case", config: Config{Provider: "Anthropic", APIKey: "k"}},
		{name: "missing key", config: Config{Provider: "openai"}, wantErr: true},
		{name: "unknown provider", config: Config{Provider: "llamafile", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			client.Close()
		})
	}
}

func TestClient_CachesSuccessfulCompletions(t *testing.T) {
	provider := &countingCompleter{response: `{"merchant":"Cafe","amount":3}`}
	client := wrapProvider(provider, Config{CacheTTL: time.Minute}, nil)
	defer client.Close()

	for i := 0; i < 3; i++ {
		got, err := client.Complete(context.Background(), "system", "same text")
		require.NoError(t, err)
		assert.Equal(t, provider.response, got)
	}
	assert.Equal(t, int32(1), provider.calls.Load())

	_, err := client.Complete(context.Background(), "system", "other text")
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestClient_DoesNotCacheErrors(t *testing.T) {
	provider := &countingCompleter{err: errors.New("boom")}
	client := wrapProvider(provider, Config{CacheTTL: time.Minute}, nil)
	defer client.Close()

	_, err := client.Complete(context.Background(), "system", "text")
	require.Error(t, err)
	_, err = client.Complete(context.Background(), "system", "text")
	require.Error(t, err)
	assert.Equal(t, int32(2), provider.calls.Load())
}

func TestClient_RateLimitHonorsContext(t *testing.T) {
	provider := &countingCompleter{response: "{}"}
	client := wrapProvider(provider, Config{RateLimit: 1}, nil)
	defer client.Close()

	_, err := client.Complete(context.Background(), "system", "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.Complete(ctx, "system", "second")
	require.Error(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanResponse("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{}`, CleanResponse("  {}  "))
	assert.Equal(t, `{"a":1}`, CleanResponse("```\n{\"a\":1}```"))
}
