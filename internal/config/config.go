// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (lead intake,
//     telegram transport, observability).
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file into the process env before
	// any env vars are read. No explicit call needed.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// The `koanf:"..."` tags specify where koanf should map values from.
// The `validate:"required"` tags are enforced by go-playground/validator.
//
// Telegram, Redis and Email are deliberately NOT required at startup:
// missing Telegram credentials are a request-time server_error (the
// intake endpoint must answer 500, not crash the process), Redis only
// switches the rate-limit store to a shared backend, and the email copy
// is an optional secondary channel.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Telegram      TelegramConfig       `koanf:"telegram"`
	Lead          LeadConfig           `koanf:"lead"`
	Probe         ProbeConfig          `koanf:"probe"`
	Redis         RedisConfig          `koanf:"redis"`
	Email         EmailConfig          `koanf:"email"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are integer seconds sourced from env.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// TelegramConfig holds credentials and transport settings for the
// Telegram Bot API relay.
type TelegramConfig struct {
	// BotToken authenticates the bot. Empty means "not configured";
	// the intake endpoint reports this as a server_error.
	BotToken string `koanf:"bot_token"`

	// ChatID is the target chat for lead notifications.
	ChatID string `koanf:"chat_id"`

	// APIBaseURL is overridable so tests can point the client at a
	// local server. Defaults to the public Bot API host.
	APIBaseURL string `koanf:"api_base_url"`

	// Timeout bounds the single outbound sendMessage call.
	Timeout time.Duration `koanf:"timeout"`
}

// Configured reports whether both credentials needed for delivery are set.
func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// LeadConfig tunes the intake endpoint's anti-abuse behavior.
type LeadConfig struct {
	// HoneypotField names the hidden form field legitimate users never
	// fill. Supported values: "hp" or "extra_field".
	HoneypotField string `koanf:"honeypot_field" validate:"omitempty,oneof=hp extra_field"`

	// RateLimitWindow is the minimum interval between two accepted
	// submissions from the same client.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// SiteURL is the public site address used as the redirect base for
	// browser-mode responses. When empty the Referer header is used.
	SiteURL string `koanf:"site_url"`
}

// ProbeConfig guards the delivery diagnostic endpoint.
type ProbeConfig struct {
	// Secret, when set, must be supplied as ?key= on the probe endpoint.
	Secret string `koanf:"secret"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port"; empty disables the shared rate-limit store.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// EmailConfig enables the optional email copy of each delivered lead.
type EmailConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	To           string `koanf:"to" validate:"omitempty,max=120"`
	From         string `koanf:"from"`
}

// Enabled reports whether the email copy channel is fully configured.
func (e EmailConfig) Enabled() bool {
	return e.ResendAPIKey != "" && e.To != ""
}

const (
	defaultHoneypotField   = "hp"
	defaultRateLimitWindow = 8 * time.Second
	defaultTelegramBaseURL = "https://api.telegram.org"
	defaultTelegramTimeout = 8 * time.Second
)

// Load loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the result.
//
// Behavior summary:
//   - Loads env vars with prefix LEADRELAY_
//   - Converts env keys into koanf keys using "." nesting
//     (e.g. LEADRELAY_SERVER.PORT -> server.port -> Config.Server.Port)
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Fills in defaults for the optional lead/telegram/observability blocks
func Load() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider("LEADRELAY_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "LEADRELAY_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}

	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	mainConfig.ApplyDefaults()

	// Service name and environment are forced so telemetry stays
	// consistently labelled regardless of what the env supplies.
	mainConfig.Observability.ServiceName = "leadrelay"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// ApplyDefaults fills in the optional blocks that were not provided via
// env. Exported so tests can build a minimal Config without going through
// the environment.
func (c *Config) ApplyDefaults() {
	if c.Lead.HoneypotField == "" {
		c.Lead.HoneypotField = defaultHoneypotField
	}
	if c.Lead.RateLimitWindow <= 0 {
		c.Lead.RateLimitWindow = defaultRateLimitWindow
	}
	if c.Telegram.APIBaseURL == "" {
		c.Telegram.APIBaseURL = defaultTelegramBaseURL
	}
	if c.Telegram.Timeout <= 0 {
		c.Telegram.Timeout = defaultTelegramTimeout
	}
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
}
