package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/cntpdlab/leadrelay/internal/errs"
	"github.com/cntpdlab/leadrelay/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probeRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func TestProbeDelivered(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(probeRequest("/api/health-relay"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"status":"delivered"}`, rec.Body.String())

	require.Len(t, e.messenger.sentTexts, 1)
	assert.Equal(t, "Ping from lead relay", e.messenger.sentTexts[0])
	assert.Equal(t, "", e.messenger.sentChatIDs[0])
}

func TestProbeOverrides(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(probeRequest("/api/health-relay?text=custom+ping&chat_id=-100123"))

	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, e.messenger.sentTexts, 1)
	assert.Equal(t, "custom ping", e.messenger.sentTexts[0])
	assert.Equal(t, "-100123", e.messenger.sentChatIDs[0])
}

func TestProbeSecretGate(t *testing.T) {
	e := newEnv(t, func(cfg *config.Config) {
		cfg.Probe.Secret = "s3cret"
	})

	t.Run("missing key", func(t *testing.T) {
		rec := e.do(probeRequest("/api/health-relay"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, errs.CodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := e.do(probeRequest("/api/health-relay?key=nope"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	// No outbound call happens until the gate passes.
	assert.Empty(t, e.messenger.sentTexts)

	t.Run("correct key", func(t *testing.T) {
		rec := e.do(probeRequest("/api/health-relay?key=s3cret"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, e.messenger.sentTexts, 1)
	})
}

func TestProbeUnconfigured(t *testing.T) {
	e := newEnv(t, func(cfg *config.Config) {
		cfg.Telegram.BotToken = ""
		cfg.Telegram.ChatID = ""
	})

	rec := e.do(probeRequest("/api/health-relay"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errs.CodeServerError, decodeError(t, rec).Code)
	assert.Empty(t, e.messenger.sentTexts)
}

func TestProbeDeliveryFailure(t *testing.T) {
	e := newEnv(t, nil)
	e.messenger.outcome = telegram.DeliveryOutcome{
		Status: telegram.StatusServiceRejected,
		Detail: "Bad Request: chat not found",
	}

	rec := e.do(probeRequest("/api/health-relay"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, errs.CodeTelegramFailed, decodeError(t, rec).Code)
	assert.NotContains(t, rec.Body.String(), "chat not found")
}

func TestProbeTextTooLongRejected(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(probeRequest("/api/health-relay?text=" + strings.Repeat("a", 2001)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.CodeValidation, decodeError(t, rec).Code)
	assert.Empty(t, e.messenger.sentTexts)
}
