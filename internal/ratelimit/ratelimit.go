// Package ratelimit enforces the minimum interval between two accepted
// submissions from the same client ("cooldown window").
//
// The limiter is an explicitly owned, injectable component rather than a
// process-wide singleton: handlers receive a Store, tests inject their
// own, and multi-instance deployments can swap the in-memory store for
// the Redis-backed one without touching the intake pipeline.
package ratelimit

import (
	"context"
	"time"
)

// Store decides whether a submission from the given client is admitted.
//
// Admit returns true (consuming the client's budget) only when a full
// window has elapsed since the last admitted submission, or the client
// is unseen. A rejected attempt must not move the window: only admitted
// submissions record a timestamp.
//
// now is passed in so tests can drive the clock deterministically.
type Store interface {
	Admit(ctx context.Context, key string, now time.Time) (bool, error)
}
