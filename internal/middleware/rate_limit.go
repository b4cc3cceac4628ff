package middleware

import (
	"github.com/cntpdlab/leadrelay/internal/server"
)

// RateLimitMiddleware records telemetry around rate-limit rejections.
// Enforcement happens inside the lead intake pipeline (after honeypot
// screening); this component only reports hits to New Relic so pacing
// rejections are visible in dashboards.
type RateLimitMiddleware struct {
	server *server.Server
}

// NewRateLimitMiddleware constructs a RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit records a custom event for a rejected submission.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
