package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, "hp", cfg.Lead.HoneypotField)
	assert.Equal(t, 8*time.Second, cfg.Lead.RateLimitWindow)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBaseURL)
	assert.Equal(t, 8*time.Second, cfg.Telegram.Timeout)
	assert.NotNil(t, cfg.Observability)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Lead: LeadConfig{
			HoneypotField:   "extra_field",
			RateLimitWindow: 30 * time.Second,
		},
		Telegram: TelegramConfig{
			APIBaseURL: "http://localhost:9000",
		},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "extra_field", cfg.Lead.HoneypotField)
	assert.Equal(t, 30*time.Second, cfg.Lead.RateLimitWindow)
	assert.Equal(t, "http://localhost:9000", cfg.Telegram.APIBaseURL)
}

func TestTelegramConfigured(t *testing.T) {
	assert.True(t, TelegramConfig{BotToken: "t", ChatID: "c"}.Configured())
	assert.False(t, TelegramConfig{BotToken: "t"}.Configured())
	assert.False(t, TelegramConfig{ChatID: "c"}.Configured())
	assert.False(t, TelegramConfig{}.Configured())
}

func TestEmailEnabled(t *testing.T) {
	assert.True(t, EmailConfig{ResendAPIKey: "k", To: "a@b.co"}.Enabled())
	assert.False(t, EmailConfig{ResendAPIKey: "k"}.Enabled())
	assert.False(t, EmailConfig{To: "a@b.co"}.Enabled())
}
