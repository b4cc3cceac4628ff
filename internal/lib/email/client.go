// Package email provides the optional email copy of delivered leads.
//
// It uses Resend (resend-go) as the provider. The channel is strictly
// best-effort: the Telegram relay decides the request outcome, and an
// email failure is logged without affecting the response.
package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// leadCopyTemplate renders the lead into a small HTML body.
// html/template escapes the interpolated fields itself.
var leadCopyTemplate = template.Must(template.New("lead_copy").Parse(`<h3>New lead</h3>
<p><b>Name:</b> {{.Name}}</p>
<p><b>Email:</b> {{.Email}}</p>
<p><b>Notes:</b></p>
<p>{{.Notes}}</p>
`))

// Client wraps the Resend client and the configured recipient.
type Client struct {
	client *resend.Client
	to     string
	from   string
	logger *zerolog.Logger
}

// NewClient creates an email Client, or nil when the channel is not
// configured (missing API key or recipient). Callers treat a nil client
// as "channel off".
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	if !cfg.Email.Enabled() {
		return nil
	}

	from := cfg.Email.From
	if from == "" {
		from = fmt.Sprintf("%s <%s>", "Lead Relay", "onboarding@resend.dev")
	}

	return &Client{
		client: resend.NewClient(cfg.Email.ResendAPIKey),
		to:     cfg.Email.To,
		from:   from,
		logger: logger,
	}
}

// SendLeadCopy emails a rendered copy of the lead to the configured
// recipient.
func (c *Client) SendLeadCopy(name, emailAddr, notes string) error {
	var body bytes.Buffer
	err := leadCopyTemplate.Execute(&body, map[string]string{
		"Name":  name,
		"Email": emailAddr,
		"Notes": notes,
	})
	if err != nil {
		return errors.Wrap(err, "failed to render lead copy template")
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{c.to},
		Subject: "New lead",
		Html:    body.String(),
	}

	if _, err := c.client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send lead copy: %w", err)
	}

	return nil
}
