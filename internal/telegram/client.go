// Package telegram provides the outbound client for the Telegram Bot
// API's sendMessage operation.
//
// The client performs exactly one HTTPS POST per delivery and
// classifies the result into a DeliveryOutcome. Retries are explicitly
// out of scope: a failed attempt is terminal for the request that
// triggered it.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/rs/zerolog"
)

// DeliveryStatus tags the three terminal outcomes of a delivery attempt.
type DeliveryStatus string

const (
	// StatusDelivered: the provider confirmed the message (`ok: true`).
	StatusDelivered DeliveryStatus = "delivered"

	// StatusServiceRejected: the provider answered but reported a
	// failure (`ok != true`, e.g. a bad chat id).
	StatusServiceRejected DeliveryStatus = "service_rejected"

	// StatusTransportFailed: the request never produced an
	// interpretable provider response (network error, or a non-2xx
	// status with an unparseable body).
	StatusTransportFailed DeliveryStatus = "transport_failed"
)

// DeliveryOutcome is the classified result of a single delivery attempt.
// Detail carries provider/transport context for server-side logging and
// is never surfaced to API clients.
type DeliveryOutcome struct {
	Status DeliveryStatus
	Detail string
}

// Delivered reports whether the provider confirmed the message.
func (o DeliveryOutcome) Delivered() bool {
	return o.Status == StatusDelivered
}

// Client wraps the Telegram Bot API with a bounded-timeout HTTP client.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
	logger  *zerolog.Logger
}

// NewClient creates a Telegram client from config.
//
// A client with missing credentials is still constructed (so the rest of
// the wiring stays uniform); Configured reports the gap and callers turn
// it into a server_error before any outbound call is attempted.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		token:   cfg.Telegram.BotToken,
		chatID:  cfg.Telegram.ChatID,
		baseURL: cfg.Telegram.APIBaseURL,
		http: &http.Client{
			Timeout: cfg.Telegram.Timeout,
		},
		logger: logger,
	}
}

// Configured reports whether both bot token and chat id are present.
func (c *Client) Configured() bool {
	return c.token != "" && c.chatID != ""
}

// sendMessageRequest is the JSON body of the Bot API sendMessage call.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// apiResponse is the subset of the Bot API response envelope we read.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Send delivers text to the configured chat.
func (c *Client) Send(ctx context.Context, text string) DeliveryOutcome {
	return c.SendTo(ctx, c.chatID, text)
}

// SendTo delivers text to an explicit chat, used by the diagnostic probe
// to override the target.
//
// Classification:
//   - request/transport error                  -> StatusTransportFailed
//   - non-2xx status with an unparseable body  -> StatusTransportFailed
//   - parseable body with ok != true           -> StatusServiceRejected
//   - parseable body with ok == true           -> StatusDelivered
//
// A body that fails to parse is tolerated and treated as an empty
// envelope; only the status code then decides the classification.
func (c *Client) SendTo(ctx context.Context, chatID, text string) DeliveryOutcome {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return DeliveryOutcome{Status: StatusTransportFailed, Detail: err.Error()}
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return DeliveryOutcome{Status: StatusTransportFailed, Detail: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("telegram request failed")
		return DeliveryOutcome{Status: StatusTransportFailed, Detail: err.Error()}
	}
	defer res.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(res.Body, 64<<10))

	var parsed apiResponse
	parseErr := json.Unmarshal(body, &parsed)
	if readErr != nil {
		parseErr = readErr
	}

	if parseErr != nil && (res.StatusCode < 200 || res.StatusCode > 299) {
		detail := fmt.Sprintf("telegram request failed (%d)", res.StatusCode)
		c.logger.Error().Int("status", res.StatusCode).Dur("duration", time.Since(start)).Msg("telegram request failed")
		return DeliveryOutcome{Status: StatusTransportFailed, Detail: detail}
	}

	if !parsed.OK {
		detail := parsed.Description
		if detail == "" {
			detail = fmt.Sprintf("telegram rejected message (%d)", res.StatusCode)
		}
		c.logger.Error().
			Int("status", res.StatusCode).
			Str("description", parsed.Description).
			Dur("duration", time.Since(start)).
			Msg("telegram rejected message")
		return DeliveryOutcome{Status: StatusServiceRejected, Detail: detail}
	}

	c.logger.Debug().Dur("duration", time.Since(start)).Msg("telegram message delivered")

	return DeliveryOutcome{Status: StatusDelivered}
}
