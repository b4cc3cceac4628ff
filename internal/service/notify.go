package service

import (
	"context"
	"strings"

	"github.com/cntpdlab/leadrelay/internal/lib/email"
	"github.com/cntpdlab/leadrelay/internal/sanitize"
	"github.com/cntpdlab/leadrelay/internal/telegram"
	"github.com/rs/zerolog"
)

// LeadSubmission is a validated, trimmed contact-form submission. It is
// constructed per request and never persisted.
type LeadSubmission struct {
	Name  string
	Email string
	Notes string
}

// Messenger is the outbound chat-delivery dependency of NotifyService.
// *telegram.Client implements it; tests substitute fakes.
type Messenger interface {
	Configured() bool
	Send(ctx context.Context, text string) telegram.DeliveryOutcome
	SendTo(ctx context.Context, chatID, text string) telegram.DeliveryOutcome
}

// NotifyService relays leads to the configured notification channels:
// Telegram (authoritative for the request outcome) and, when configured,
// a best-effort email copy.
type NotifyService struct {
	messenger Messenger
	mailer    *email.Client
	logger    *zerolog.Logger
}

// NewNotifyService constructs a NotifyService. mailer may be nil.
func NewNotifyService(messenger Messenger, mailer *email.Client, logger *zerolog.Logger) *NotifyService {
	return &NotifyService{
		messenger: messenger,
		mailer:    mailer,
		logger:    logger,
	}
}

// Configured reports whether the authoritative channel has credentials.
func (n *NotifyService) Configured() bool {
	return n.messenger.Configured()
}

// Relay formats the lead and delivers it. On confirmed delivery the
// email copy is sent synchronously but best-effort: its failure is
// logged and does not change the outcome.
func (n *NotifyService) Relay(ctx context.Context, sub LeadSubmission) telegram.DeliveryOutcome {
	outcome := n.messenger.Send(ctx, FormatLead(sub))

	if outcome.Delivered() && n.mailer != nil {
		if err := n.mailer.SendLeadCopy(sub.Name, sub.Email, sub.Notes); err != nil {
			n.logger.Warn().Err(err).Msg("lead email copy failed")
		}
	}

	return outcome
}

// Ping sends a fixed diagnostic message, used by the relay probe. An
// empty chatID targets the configured default chat.
func (n *NotifyService) Ping(ctx context.Context, text, chatID string) telegram.DeliveryOutcome {
	if chatID == "" {
		return n.messenger.Send(ctx, text)
	}
	return n.messenger.SendTo(ctx, chatID, text)
}

// FormatLead builds the HTML-mode notification text. Every interpolated
// value is escaped exactly once; the absent optional email renders as
// the "-" placeholder. No raw user input reaches the outbound payload.
func FormatLead(sub LeadSubmission) string {
	lines := []string{
		"<b>New lead</b>",
		"",
		"<b>Name:</b> " + sanitize.Escape(sub.Name),
		"<b>Email:</b> " + sanitize.Escape(sanitize.OrPlaceholder(sub.Email)),
		"",
		"<b>Notes:</b>",
		sanitize.Escape(sub.Notes),
	}

	return strings.Join(lines, "\n")
}
