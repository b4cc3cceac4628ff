package middleware

import (
	"net/http"

	"github.com/cntpdlab/leadrelay/internal/errs"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups "global" middleware and the global error
// handler, holding the app container so they can read config (CORS
// origins, env) and shared services.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured from server config.
// Preflight OPTIONS requests on the intake endpoint are answered here
// with 204 and the allow headers.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger returns Echo's request logger middleware with a custom
// LogValuesFunc so every request produces one structured zerolog line
// with correlation fields and a severity matching the final status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error, Echo has not written
			// the final status yet; the global error handler decides
			// it later. Derive the status from the error type so the
			// log line does not claim 200 for a failed request.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			logger := GetLogger(c)

			// 5xx = server fault, 4xx = client fault.
			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware. Panics become 500
// responses instead of crashing the process.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP
// server. Every error that escapes a handler ends up here and is
// translated into the `{ok:false, error:<code>}` response shape.
//
// Internal detail (provider descriptions, config faults) is logged with
// the original error and never serialized to the client.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Keep the original error for logging; `err` may be replaced with
	// a sanitized error for the client below.
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			// Unknown routes become our own not_found shape; any
			// other Echo error keeps its status with a generic code.
			if echoErr.Code == http.StatusNotFound {
				err = errs.NewNotFoundError()
			}

		} else {
			// Unclassified errors are deployment faults as far as
			// the client is concerned.
			err = errs.NewServerError(err.Error())
		}
	}

	var echoErr *echo.HTTPError
	var status int
	var response errs.HTTPError

	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Status
		response = errs.HTTPError{
			Code:    httpErr.Code,
			Message: httpErr.Message,
			Issues:  httpErr.Issues,
		}

	case errors.As(err, &echoErr):
		status = echoErr.Code
		response = errs.HTTPError{
			Code: errs.CodeServerError,
		}
		if msg, ok := echoErr.Message.(string); ok {
			response.Message = msg
		} else {
			response.Message = http.StatusText(echoErr.Code)
		}
		if status < 500 {
			response.Code = errs.CodeValidation
		}

	default:
		status = http.StatusInternalServerError
		response = errs.HTTPError{
			Code:    errs.CodeServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}

	logger := *GetLogger(c)

	event := logger.Error().Stack().
		Err(originalErr).
		Int("status", status).
		Str("error_code", response.Code)
	if httpErr != nil && httpErr.Detail != "" {
		event = event.Str("detail", httpErr.Detail)
	}
	event.Msg(response.Message)

	if !c.Response().Committed {
		_ = c.JSON(status, response)
	}
}
