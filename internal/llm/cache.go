package llm

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
)

// cacheEntry represents a cached completion.
type cacheEntry struct {
	expiry  time.Time
	content string
}

// completionCache provides thread-safe caching for completions. Repeated
// deliveries of one notification reach extraction before deduplication, so
// caching keeps them from costing a second model call.
type completionCache struct {
	entries map[string]cacheEntry
	stopCh  chan struct{}
	ttl     time.Duration
	mu      sync.RWMutex
	once    sync.Once
}

// newCompletionCache creates a new cache with the specified TTL.
func newCompletionCache(ttl time.Duration) *completionCache {
	if ttl == 0 {
		ttl = 10 * time.Minute
	}

	cache := &completionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// cacheKey hashes the full exchange so different instructions never collide.
func cacheKey(systemPrompt, prompt string) string {
	hash := sha256.Sum256([]byte(systemPrompt + "\x00" + prompt))
	return fmt.Sprintf("%x", hash)
}

// get retrieves a completion if it exists and hasn't expired.
func (c *completionCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return "", false
	}

	if time.Now().After(entry.expiry) {
		return "", false
	}

	return entry.content, true
}

// set stores a completion.
func (c *completionCache) set(key, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		content: content,
		expiry:  time.Now().Add(c.ttl),
	}
}

// cleanup periodically removes expired entries.
func (c *completionCache) cleanup() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// size returns the number of entries in the cache.
func (c *completionCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *completionCache) Close() {
	c.once.Do(func() { close(c.stopCh) })
}
