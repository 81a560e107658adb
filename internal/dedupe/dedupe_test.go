package dedupe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/spicewatch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestDeduplicator_Window(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now))
	assert.Equal(t, 30*time.Second, d.Window())

	assert.True(t, d.CheckAndRecord("a"), "first sighting passes")
	assert.False(t, d.CheckAndRecord("a"), "immediate repeat is dropped")

	clock.Advance(29_999 * time.Millisecond)
	assert.False(t, d.CheckAndRecord("a"), "repeat inside the window is dropped")

	clock.Advance(time.Millisecond)
	assert.True(t, d.CheckAndRecord("a"), "repeat at the window boundary is new")
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_DuplicateDoesNotRefresh(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now))

	require.True(t, d.CheckAndRecord("a"))
	clock.Advance(20 * time.Second)
	require.False(t, d.CheckAndRecord("a"))

	// 30s after the first sighting, not the duplicate.
	clock.Advance(10 * time.Second)
	assert.True(t, d.CheckAndRecord("a"))
}

func TestDeduplicator_CheckCandidate(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now))

	candidate := model.Candidate{Merchant: "Test Merchant", Amount: 10}
	assert.True(t, d.CheckCandidate(candidate))
	assert.False(t, d.CheckCandidate(candidate))
	assert.True(t, d.CheckCandidate(model.Candidate{Merchant: "Test Merchant", Amount: 11}))
}

func TestDeduplicator_SweepOnAccess(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now), WithSweepBatch(1000))

	for i := 0; i < 100; i++ {
		require.True(t, d.CheckAndRecord(fmt.Sprintf("key-%d", i)))
	}
	assert.Equal(t, 100, d.Len())

	clock.Advance(31 * time.Second)
	require.True(t, d.CheckAndRecord("fresh"))
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_SweepIsBounded(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now), WithSweepBatch(10))

	for i := 0; i < 100; i++ {
		require.True(t, d.CheckAndRecord(fmt.Sprintf("key-%d", i)))
	}

	clock.Advance(31 * time.Second)
	require.True(t, d.CheckAndRecord("fresh"))
	assert.Equal(t, 91, d.Len(), "one check removes at most the batch")

	assert.Equal(t, 90, d.Sweep())
	assert.Equal(t, 1, d.Len())
}

func TestDeduplicator_ConcurrentDuplicates(t *testing.T) {
	d := New()

	const goroutines = 64
	var passed atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if d.CheckAndRecord("same") {
				passed.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), passed.Load())
}

func TestDeduplicator_Start(t *testing.T) {
	clock := newFakeClock()
	d := New(WithClock(clock.Now), WithWindow(10*time.Millisecond))

	require.True(t, d.CheckAndRecord("a"))
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	assert.Eventually(t, func() bool { return d.Len() == 0 }, time.Second, 5*time.Millisecond)
}
