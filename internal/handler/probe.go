package handler

import (
	"crypto/subtle"

	"github.com/cntpdlab/leadrelay/internal/errs"
	"github.com/cntpdlab/leadrelay/internal/server"
	"github.com/cntpdlab/leadrelay/internal/service"
	"github.com/labstack/echo/v4"
)

// defaultProbeText is the fixed diagnostic message when no override is
// supplied.
const defaultProbeText = "Ping from lead relay"

// ProbeRequest carries the relay probe's query parameters.
type ProbeRequest struct {
	// Key must match the configured probe secret, when one is set.
	Key string `query:"key"`

	// Text optionally overrides the diagnostic message.
	Text string `query:"text" validate:"omitempty,max=2000"`

	// ChatID optionally overrides the target chat.
	ChatID string `query:"chat_id" validate:"omitempty,max=64"`
}

// Validate implements validation.Validatable.
func (r *ProbeRequest) Validate() error {
	return validate.Struct(r)
}

// ProbeResponse reports a successful probe delivery.
type ProbeResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

// ProbeHandler serves the delivery diagnostic endpoint: one real
// Notifier call with a fixed message, surfacing the delivery
// classification as the response status.
type ProbeHandler struct {
	Handler
	services *service.Services
}

// NewProbeHandler constructs a ProbeHandler.
func NewProbeHandler(s *server.Server, services *service.Services) *ProbeHandler {
	return &ProbeHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// Check verifies external connectivity by sending a diagnostic message
// through the Notifier.
//
// When a probe secret is configured, ?key= must match (403 otherwise).
// Outcomes map exactly as on the intake endpoint: missing credentials
// 500, failed delivery 502, confirmed delivery 200.
func (h *ProbeHandler) Check(c echo.Context, req *ProbeRequest) (*ProbeResponse, error) {
	if secret := h.server.Config.Probe.Secret; secret != "" {
		if subtle.ConstantTimeCompare([]byte(req.Key), []byte(secret)) != 1 {
			return nil, errs.NewForbiddenError()
		}
	}

	if !h.services.Notify.Configured() {
		return nil, errs.NewServerError("telegram credentials are not configured")
	}

	text := req.Text
	if text == "" {
		text = defaultProbeText
	}

	outcome := h.services.Notify.Ping(c.Request().Context(), text, req.ChatID)
	if !outcome.Delivered() {
		return nil, errs.NewTelegramFailedError(outcome.Detail)
	}

	return &ProbeResponse{
		OK:     true,
		Status: string(outcome.Status),
	}, nil
}
