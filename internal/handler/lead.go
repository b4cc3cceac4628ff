package handler

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cntpdlab/leadrelay/internal/errs"
	"github.com/cntpdlab/leadrelay/internal/middleware"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/cntpdlab/leadrelay/internal/service"
	"github.com/cntpdlab/leadrelay/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var validate = validator.New()

// looseEmailRe is the intentionally permissive email shape: anything
// non-whitespace around a single "@". Stricter RFC validation produces
// false negatives that block legitimate leads.
var looseEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+$`)

// SubmitLeadRequest is the contact-form payload, accepted as JSON or a
// URL-encoded form. Unknown extra fields are ignored for forward
// compatibility.
//
// Both supported honeypot field names are bound; the configured one is
// consulted during screening.
type SubmitLeadRequest struct {
	Name  string `json:"name" form:"name" validate:"required,max=80"`
	Email string `json:"email" form:"email" validate:"omitempty,max=120"`
	Notes string `json:"notes" form:"notes" validate:"required,max=2000"`

	Honeypot   string `json:"hp" form:"hp"`
	ExtraField string `json:"extra_field" form:"extra_field"`
}

// Normalize trims the user-facing fields. It runs before Validate so
// length bounds and presence apply to the trimmed values.
func (r *SubmitLeadRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Notes = strings.TrimSpace(r.Notes)
}

// HoneypotValue returns the trimmed value of the configured honeypot
// field.
func (r *SubmitLeadRequest) HoneypotValue(field string) string {
	if field == "extra_field" {
		return strings.TrimSpace(r.ExtraField)
	}
	return strings.TrimSpace(r.Honeypot)
}

// Validate applies the schema rules: tag validation plus the loose
// email-shape check that tags cannot express.
func (r *SubmitLeadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}

	if r.Email != "" && !looseEmailRe.MatchString(r.Email) {
		return validation.CustomValidationErrors{
			{Field: "email", Message: "must look like local@domain"},
		}
	}

	return nil
}

// LeadHandler serves the lead intake endpoint.
type LeadHandler struct {
	Handler
	services  *service.Services
	rateLimit *middleware.RateLimitMiddleware
}

// NewLeadHandler constructs a LeadHandler.
func NewLeadHandler(s *server.Server, services *service.Services) *LeadHandler {
	return &LeadHandler{
		Handler:   NewHandler(s),
		services:  services,
		rateLimit: middleware.NewRateLimitMiddleware(s),
	}
}

// Submit accepts a contact-form submission and relays it to the
// notification channels.
//
// The pipeline is strictly sequential and short-circuits on the first
// failure:
//
//	bind -> honeypot -> rate limit -> validate -> credentials -> deliver
//
// Honeypot screening runs before everything else so automated traffic
// neither consumes rate-limit budget nor learns it was detected: it is
// answered with the same success shape as a real lead. Validation runs
// after rate limiting, so this handler binds early and validates late
// instead of using the typed Handle pipeline.
//
// Responses are content-negotiated: clients accepting text/html get a
// 303 redirect back to the site with a ?lead= marker, everything else
// gets JSON. Both shapes carry equivalent success/failure information.
func (h *LeadHandler) Submit(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "lead_submit").
		Logger()

	req := new(SubmitLeadRequest)
	if err := c.Bind(req); err != nil {
		logger.Warn().Err(err).Msg("malformed submission body")
		return h.respondError(c, &logger, errs.NewValidationError([]errs.FieldError{
			{Field: "body", Error: "malformed request body"},
		}))
	}

	if req.HoneypotValue(h.server.Config.Lead.HoneypotField) != "" {
		// Absorbed as success on purpose; only the log tells.
		logger.Debug().Msg("honeypot filled, absorbing submission")
		return h.respondSuccess(c)
	}

	clientID := clientIdentifier(c)

	admitted, err := h.services.Limiter.Admit(c.Request().Context(), clientID, time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("rate limit check failed, admitting submission")
		admitted = true
	}
	if !admitted {
		h.rateLimit.RecordRateLimitHit(c.Path())
		logger.Warn().Str("client_id", clientID).Msg("submission rate limited")
		return h.respondError(c, &logger, errs.NewRateLimitedError())
	}

	req.Normalize()
	if issues := validation.Check(req); issues != nil {
		logger.Warn().Int("issue_count", len(issues)).Msg("submission failed validation")
		return h.respondError(c, &logger, errs.NewValidationError(issues))
	}

	if !h.services.Notify.Configured() {
		return h.respondError(c, &logger, errs.NewServerError("telegram credentials are not configured"))
	}

	outcome := h.services.Notify.Relay(c.Request().Context(), service.LeadSubmission{
		Name:  req.Name,
		Email: req.Email,
		Notes: req.Notes,
	})
	if !outcome.Delivered() {
		return h.respondError(c, &logger, errs.NewTelegramFailedError(outcome.Detail))
	}

	logger.Info().Msg("lead relayed")

	return h.respondSuccess(c)
}

// Liveness answers GET on the intake path. It only proves the route is
// up; it performs no delivery.
func (h *LeadHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// clientIdentifier derives the rate-limit key: the first hop of the
// forwarded-address chain (Echo's RealIP), with a sentinel for requests
// carrying no usable address.
func clientIdentifier(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// wantsHTML reports whether the client prefers a rendered page over a
// JSON body. One consistent rule: a text/html substring in Accept.
func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), "text/html")
}

func (h *LeadHandler) respondSuccess(c echo.Context) error {
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, h.redirectURL(c, "success"))
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// respondError writes the failure response itself (instead of returning
// the error to the global funnel) because browser-mode failures must
// redirect, and only this endpoint has that obligation. Detail is
// logged here and stripped from the client payload.
func (h *LeadHandler) respondError(c echo.Context, logger *zerolog.Logger, httpErr *errs.HTTPError) error {
	event := logger.Warn()
	if httpErr.Status >= 500 {
		event = logger.Error()
	}
	event = event.Int("status", httpErr.Status).Str("error_code", httpErr.Code)
	if httpErr.Detail != "" {
		event = event.Str("detail", httpErr.Detail)
	}
	event.Msg(httpErr.Message)

	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, h.redirectURL(c, "error"))
	}

	return c.JSON(httpErr.Status, errs.HTTPError{
		Code:    httpErr.Code,
		Message: httpErr.Message,
		Issues:  httpErr.Issues,
	})
}

// redirectURL builds the browser-mode redirect target: the configured
// site URL, else the submitting page (Referer), else the root path,
// with the lead outcome marker appended so the page can render a toast.
func (h *LeadHandler) redirectURL(c echo.Context, marker string) string {
	base := h.server.Config.Lead.SiteURL
	if base == "" {
		base = c.Request().Referer()
	}
	if base == "" {
		base = "/"
	}

	u, err := url.Parse(base)
	if err != nil {
		return "/?lead=" + marker
	}

	q := u.Query()
	q.Set("lead", marker)
	u.RawQuery = q.Encode()

	return u.String()
}
