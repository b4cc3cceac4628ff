package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisStore enforces the cooldown window across instances using a
// single SET NX PX per admission attempt: the submission is admitted iff
// the key did not exist, and the key expires after one window. Rejected
// attempts never touch the TTL, so the window is measured from the last
// accepted submission.
type RedisStore struct {
	client *redis.Client
	window time.Duration
	prefix string
	logger *zerolog.Logger
}

// NewRedisStore creates a Redis-backed cooldown store.
func NewRedisStore(client *redis.Client, window time.Duration, logger *zerolog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		window: window,
		prefix: "leadrelay:cooldown:",
		logger: logger,
	}
}

// Admit implements Store.
//
// Redis errors fail open: losing rate limiting briefly is preferable to
// dropping legitimate leads, mirroring the server's "Redis optional"
// startup stance. The error is logged and swallowed.
func (s *RedisStore) Admit(ctx context.Context, key string, _ time.Time) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.prefix+key, 1, s.window).Result()
	if err != nil {
		s.logger.Error().Err(err).Msg("rate limit store unavailable, admitting submission")
		return true, nil
	}

	return ok, nil
}
