package errs

import (
	"net/http"
)

// NewValidationError creates a 400 rejection carrying field-level issues.
func NewValidationError(issues []FieldError) *HTTPError {
	return &HTTPError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Status:  http.StatusBadRequest,
		Issues:  issues,
	}
}

// NewRateLimitedError creates a 429 rejection. No detail beyond the kind
// is surfaced so callers cannot infer the window from the response.
func NewRateLimitedError() *HTTPError {
	return &HTTPError{
		Code:    CodeRateLimited,
		Message: "Too many submissions, please try again shortly",
		Status:  http.StatusTooManyRequests,
	}
}

// NewForbiddenError creates a 403 rejection for a probe secret mismatch.
func NewForbiddenError() *HTTPError {
	return &HTTPError{
		Code:    CodeForbidden,
		Message: "Forbidden",
		Status:  http.StatusForbidden,
	}
}

// NewServerError creates a 500 rejection for configuration/deployment
// faults. The client always sees a generic message; the real cause goes
// into Detail for server-side logging only.
func NewServerError(detail string) *HTTPError {
	return &HTTPError{
		Code:    CodeServerError,
		Message: "Unable to process request",
		Status:  http.StatusInternalServerError,
		Detail:  detail,
	}
}

// NewTelegramFailedError creates a 502 rejection for a failed delivery
// to the messaging provider. Provider detail is kept server-side.
func NewTelegramFailedError(detail string) *HTTPError {
	return &HTTPError{
		Code:    CodeTelegramFailed,
		Message: "Failed to deliver message",
		Status:  http.StatusBadGateway,
		Detail:  detail,
	}
}

// NewNotFoundError creates a 404 rejection for unknown routes.
func NewNotFoundError() *HTTPError {
	return &HTTPError{
		Code:    CodeNotFound,
		Message: "Route not found",
		Status:  http.StatusNotFound,
	}
}
