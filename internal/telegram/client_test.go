package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	log := zerolog.Nop()
	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			BotToken:   "TOKEN",
			ChatID:     "42",
			APIBaseURL: baseURL,
			Timeout:    2 * time.Second,
		},
	}
	return NewClient(cfg, &log)
}

func TestSendDelivered(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":7}}`))
	}))
	defer ts.Close()

	outcome := newTestClient(ts.URL).Send(context.Background(), "<b>hello</b>")

	assert.Equal(t, StatusDelivered, outcome.Status)
	assert.True(t, outcome.Delivered())

	// The request must hit the bot-scoped sendMessage path with the
	// HTML-mode payload shape.
	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody.ChatID)
	assert.Equal(t, "<b>hello</b>", gotBody.Text)
	assert.Equal(t, "HTML", gotBody.ParseMode)
	assert.True(t, gotBody.DisableWebPagePreview)
}

func TestSendToOverridesChat(t *testing.T) {
	var gotBody sendMessageRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	outcome := newTestClient(ts.URL).SendTo(context.Background(), "-100999", "ping")

	assert.Equal(t, StatusDelivered, outcome.Status)
	assert.Equal(t, "-100999", gotBody.ChatID)
}

func TestSendServiceRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer ts.Close()

	outcome := newTestClient(ts.URL).Send(context.Background(), "hello")

	assert.Equal(t, StatusServiceRejected, outcome.Status)
	assert.Equal(t, "Bad Request: chat not found", outcome.Detail)
	assert.False(t, outcome.Delivered())
}

// A 200 with ok:false is still a provider rejection; the HTTP status
// alone never confirms delivery.
func TestSendServiceRejectedOn200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"flood control"}`))
	}))
	defer ts.Close()

	outcome := newTestClient(ts.URL).Send(context.Background(), "hello")

	assert.Equal(t, StatusServiceRejected, outcome.Status)
	assert.Equal(t, "flood control", outcome.Detail)
}

func TestSendTransportFailedOnUnparseableError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer ts.Close()

	outcome := newTestClient(ts.URL).Send(context.Background(), "hello")

	assert.Equal(t, StatusTransportFailed, outcome.Status)
	assert.Equal(t, "telegram request failed (502)", outcome.Detail)
}

func TestSendTransportFailedOnNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // connection refused from here on

	outcome := newTestClient(ts.URL).Send(context.Background(), "hello")

	assert.Equal(t, StatusTransportFailed, outcome.Status)
	assert.NotEmpty(t, outcome.Detail)
}

func TestConfigured(t *testing.T) {
	log := zerolog.Nop()

	full := NewClient(&config.Config{
		Telegram: config.TelegramConfig{BotToken: "t", ChatID: "c"},
	}, &log)
	assert.True(t, full.Configured())

	noChat := NewClient(&config.Config{
		Telegram: config.TelegramConfig{BotToken: "t"},
	}, &log)
	assert.False(t, noChat.Configured())

	empty := NewClient(&config.Config{}, &log)
	assert.False(t, empty.Configured())
}
