package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client wraps a provider with caching and rate limiting.
type Client struct {
	provider Completer
	cache    *completionCache
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient creates a completion client for the configured provider.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	var provider Completer
	var err error

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		provider, err = newOpenAIClient(cfg)
	case "anthropic":
		provider, err = newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return wrapProvider(provider, cfg, logger), nil
}

func wrapProvider(provider Completer, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	client := &Client{
		provider: provider,
		logger:   logger,
	}

	if cfg.CacheTTL > 0 {
		client.cache = newCompletionCache(cfg.CacheTTL)
	}

	if cfg.RateLimit > 0 {
		// Full bucket at start, refilled evenly across the minute.
		client.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimit)), cfg.RateLimit)
	}

	return client
}

// Complete returns a cached completion when one exists, otherwise waits for a
// rate-limit token and asks the provider.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	var key string
	if c.cache != nil {
		key = cacheKey(systemPrompt, prompt)
		if content, found := c.cache.get(key); found {
			c.logger.Debug("completion cache hit", "key", key[:12])
			return content, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter canceled: %w", err)
		}
	}

	content, err := c.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		c.cache.set(key, content)
	}
	return content, nil
}

// Close releases the cache cleanup goroutine.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
