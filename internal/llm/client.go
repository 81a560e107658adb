package llm

import (
	"context"
	"strings"
	"time"
)

// Completer performs one request/response text-completion exchange.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// Config holds configuration for a completion client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string // Overrides the provider's API host, mostly for tests
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	CacheTTL    time.Duration
	RateLimit   int // Requests per minute, zero disables limiting
}

// cleanMarkdownWrapper strips ```json fences some models wrap around JSON output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```JSON")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// CleanResponse trims whitespace and markdown fences from a completion.
func CleanResponse(content string) string {
	return cleanMarkdownWrapper(content)
}
