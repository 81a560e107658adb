package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	_, err := newAnthropicClient(Config{})
	require.Error(t, err)

	client, err := newAnthropicClient(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-latest", client.model)
	assert.Equal(t, 200, client.maxTokens)
}

func TestAnthropicClient_Complete(t *testing.T) {
	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
			assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "system instruction", body["system"])

			_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"{}"}]}`))
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		got, err := client.Complete(context.Background(), "system instruction", "text")
		require.NoError(t, err)
		assert.Equal(t, "{}", got)
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`overloaded`))
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "system", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("empty content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"content":[]}`))
		}))
		defer server.Close()

		client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), "system", "text")
		require.Error(t, err)
	})
}
