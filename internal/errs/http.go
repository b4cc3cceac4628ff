// Package errs defines custom error types and utilities.
//
// Every failure the API reports is one of a small, mutually exclusive
// set of machine-readable codes, serialized as
//
//	{ "ok": false, "error": "<code>", "message": "...", "issues": [...] }
//
// The codes form the full client-facing taxonomy:
//   - validation       client input fault (400), with field-level issues
//   - rate_limited     client pacing fault (429)
//   - forbidden        probe secret mismatch (403)
//   - server_error     deployment/configuration fault (500), generic message
//   - telegram_failed  downstream delivery fault (502), generic message
//   - not_found        unknown route (404)
package errs

// Error codes carried in the "error" field of failure responses.
const (
	CodeValidation     = "validation"
	CodeRateLimited    = "rate_limited"
	CodeForbidden      = "forbidden"
	CodeServerError    = "server_error"
	CodeTelegramFailed = "telegram_failed"
	CodeNotFound       = "not_found"
)

// FieldError represents a field-level validation issue.
// Example:
//
//	{ "field": "email", "error": "must look like local@domain" }
type FieldError struct {
	// Field is the field name the issue relates to (e.g. "email").
	Field string `json:"field"`

	// Error is the human-readable issue message.
	Error string `json:"error"`
}

// HTTPError is the main custom error type for API responses.
//
// It implements the `error` interface via Error() and is designed to be
// serialized directly to JSON. The OK field is always false; it exists
// so failure bodies mirror the `{ok:true}` success shape.
//
// Detail is never serialized: it carries the underlying cause (provider
// description, config fault) for server-side logging only.
type HTTPError struct {
	OK      bool   `json:"ok"`
	Code    string `json:"error"`
	Message string `json:"message,omitempty"`
	Status  int    `json:"-"`

	// Issues holds field-level validation issues, for form inputs.
	Issues []FieldError `json:"issues,omitempty"`

	// Detail is internal context for logs. Not sent to clients.
	Detail string `json:"-"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// Is lets errors.Is match any *HTTPError target, regardless of code.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithDetail returns a copy of this HTTPError with internal detail
// attached, leaving the client-facing fields untouched.
func (e *HTTPError) WithDetail(detail string) *HTTPError {
	clone := *e
	clone.Detail = detail
	return &clone
}
