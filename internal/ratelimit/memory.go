package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryStore keeps one token bucket per client in process memory.
//
// Each bucket holds a single token refilled once per window, which is
// exactly the cooldown rule: an admission drains the bucket, a rejected
// attempt consumes nothing, and the next admission becomes possible one
// full window after the last accepted one.
//
// State is process-local. Under horizontal scaling each instance
// enforces its own window; that degradation is an accepted tradeoff,
// and RedisStore exists for deployments that need a shared window.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	window  time.Duration

	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type memoryEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithIdleTTL sets how long an idle client entry survives before the
// janitor evicts it.
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.idleTTL = d }
}

// WithCleanupEvery sets the janitor interval.
func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

// NewMemoryStore creates an in-memory cooldown store with the given
// window between admitted submissions.
func NewMemoryStore(window time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries:      make(map[string]*memoryEntry),
		window:       window,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admit implements Store.
func (s *MemoryStore) Admit(_ context.Context, key string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		// Burst of one: the bucket starts full, so the first
		// submission from a client is always admitted.
		ent = &memoryEntry{lim: rate.NewLimiter(rate.Every(s.window), 1)}
		s.entries[key] = ent
	}
	ent.lastSeen = now

	return ent.lim.AllowN(now, 1), nil
}

// Cleanup evicts entries idle longer than the configured TTL. An evicted
// client is treated as unseen on its next submission, which only ever
// relaxes the limit; the TTL is therefore kept well above the window.
func (s *MemoryStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor runs Cleanup periodically until the context is canceled,
// keeping the entry map bounded by recently active clients.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// Len reports the number of tracked clients. Used by tests and the
// janitor's callers; not part of the Store interface.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
