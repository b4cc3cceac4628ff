package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cntpdlab/leadrelay/internal/middleware"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler exposes a system endpoint that uptime monitors and load
// balancers use to verify the service is alive and its dependencies are
// usable.
type HealthHandler struct {
	Handler
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns overall status plus per-dependency checks.
//
// Checks:
//   - telegram: credential presence only. The relay cannot do its job
//     without credentials, so their absence makes the service
//     unhealthy. No outbound call is made here; the probe endpoint
//     exists for that.
//   - redis: connectivity, only when a Redis client is configured.
//     Redis is optional (the memory store covers for it), so a failed
//     ping is reported but does not flip overall health.
//
// Returns 200 when healthy, 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	if h.server.Config.Telegram.Configured() {
		checks["telegram"] = map[string]interface{}{
			"status": "configured",
		}
	} else {
		checks["telegram"] = map[string]interface{}{
			"status": "unconfigured",
			"error":  "bot token or chat id missing",
		}

		isHealthy = false

		logger.Error().Msg("telegram credentials missing in health check")
	}

	if h.server.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisStart := time.Now()

		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(redisStart)).
				Msg("redis health check failed")

			if h.server.LoggerService != nil && h.server.LoggerService.GetApplication() != nil {
				h.server.LoggerService.GetApplication().RecordCustomEvent(
					"HealthCheckError",
					map[string]interface{}{
						"check_type":       "redis",
						"operation":        "health_check",
						"error_type":       "redis_unhealthy",
						"response_time_ms": time.Since(redisStart).Milliseconds(),
						"error_message":    err.Error(),
					},
				)
			}
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	return c.JSON(http.StatusOK, response)
}
