// Package dedupe suppresses repeated deliveries of the same transaction.
package dedupe

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/spicewatch/internal/config"
	"github.com/Veraticus/spicewatch/internal/model"
)

// DefaultSweepBatch bounds how many entries one check examines for expiry.
const DefaultSweepBatch = 256

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(d *Deduplicator) {
		d.now = now
	}
}

// WithWindow overrides the suppression window. Production code uses the
// package default; tests shrink it.
func WithWindow(window time.Duration) Option {
	return func(d *Deduplicator) {
		if window > 0 {
			d.window = window
		}
	}
}

// WithSweepBatch sets how many entries each check may examine for expiry.
func WithSweepBatch(n int) Option {
	return func(d *Deduplicator) {
		if n > 0 {
			d.sweepBatch = n
		}
	}
}

// Deduplicator remembers recently seen keys. A single mutex covers every
// decide-and-record step so two concurrent duplicates can never both pass.
type Deduplicator struct {
	entries    map[string]time.Time
	now        func() time.Time
	window     time.Duration
	sweepBatch int
	mu         sync.Mutex
}

// New creates a Deduplicator with the global dedupe window.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{
		entries:    make(map[string]time.Time),
		now:        time.Now,
		window:     config.DedupeWindow,
		sweepBatch: DefaultSweepBatch,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CheckAndRecord returns true when key has not been seen within the window and
// records it. A duplicate returns false and leaves the original sighting time
// untouched.
func (d *Deduplicator) CheckAndRecord(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.sweepLocked(now, d.sweepBatch)

	if lastSeen, ok := d.entries[key]; ok && now.Sub(lastSeen) < d.window {
		return false
	}

	d.entries[key] = now
	return true
}

// CheckCandidate is CheckAndRecord over the candidate's dedupe key.
func (d *Deduplicator) CheckCandidate(c model.Candidate) bool {
	return d.CheckAndRecord(c.DedupeKey())
}

// Sweep removes every expired entry and returns how many were dropped.
func (d *Deduplicator) Sweep() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sweepLocked(d.now(), len(d.entries))
}

// sweepLocked examines at most limit entries. Map iteration starts at a random
// position, so repeated bounded sweeps reach every entry over time.
func (d *Deduplicator) sweepLocked(now time.Time, limit int) int {
	removed := 0
	examined := 0
	for key, lastSeen := range d.entries {
		if examined >= limit {
			break
		}
		examined++
		if now.Sub(lastSeen) > d.window {
			delete(d.entries, key)
			removed++
		}
	}
	return removed
}

// Start sweeps the whole table once per window until ctx is done.
func (d *Deduplicator) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(d.window)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.Sweep()
			}
		}
	}()
}

// Len returns the number of tracked keys.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// Window returns the suppression window.
func (d *Deduplicator) Window() time.Duration {
	return d.window
}
