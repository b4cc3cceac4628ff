// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request logging, CORS, panic recovery, request IDs,
// tracing, and rate-limit telemetry.
package middleware
