// Package service contains the business logic.
//
// It sits between the handler layer and the outbound clients: handlers
// hand it screened, validated data and it decides how the lead reaches
// the notification channels and how submissions are paced.
package service

import (
	"context"

	"github.com/cntpdlab/leadrelay/internal/lib/email"
	"github.com/cntpdlab/leadrelay/internal/ratelimit"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/cntpdlab/leadrelay/internal/telegram"
)

// Services is a container that groups the business-layer components so
// router/handler wiring passes one object around.
type Services struct {
	// Notify relays leads to Telegram and the optional email copy.
	Notify *NotifyService

	// Limiter paces submissions per client. Redis-backed when a Redis
	// address is configured, in-memory otherwise.
	Limiter ratelimit.Store
}

// NewServices constructs the service container from the app container.
//
// The rate-limit store is picked here: the Redis store when the server
// holds a Redis client (shared window across instances), else the
// in-memory store with its janitor running for the process lifetime.
func NewServices(s *server.Server) *Services {
	messenger := telegram.NewClient(s.Config, s.Logger)
	mailer := email.NewClient(s.Config, s.Logger)

	var limiter ratelimit.Store
	if s.Redis != nil {
		limiter = ratelimit.NewRedisStore(s.Redis, s.Config.Lead.RateLimitWindow, s.Logger)
	} else {
		store := ratelimit.NewMemoryStore(s.Config.Lead.RateLimitWindow)
		store.StartJanitor(context.Background())
		limiter = store
	}

	return &Services{
		Notify:  NewNotifyService(messenger, mailer, s.Logger),
		Limiter: limiter,
	}
}
