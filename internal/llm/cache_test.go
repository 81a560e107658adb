package llm

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompletionCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newCompletionCache(5 * time.Minute)
		defer cache.Close()

		_, found := cache.get("non-existent")
		assert.False(t, found)

		cache.set("key1", `{"merchant":"Cafe"}`)

		retrieved, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, `{"merchant":"Cafe"}`, retrieved)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newCompletionCache(50 * time.Millisecond)
		defer cache.Close()

		cache.set("key2", "{}")

		_, found := cache.get("key2")
		assert.True(t, found)

		time.Sleep(100 * time.Millisecond)

		_, found = cache.get("key2")
		assert.False(t, found)
	})

	t.Run("concurrent access", func(t *testing.T) {
		cache := newCompletionCache(5 * time.Minute)
		defer cache.Close()

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					cache.set("concurrent", "value")
					_, _ = cache.get("concurrent")
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, cache.size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		cache := newCompletionCache(time.Minute)
		cache.Close()
		cache.Close()
	})
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, cacheKey("a", "b"), cacheKey("a", "b"))
	assert.NotEqual(t, cacheKey("a", "b"), cacheKey("ab", ""))
}
