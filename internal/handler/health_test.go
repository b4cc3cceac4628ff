package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cntpdlab/leadrelay/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthBody struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Checks      map[string]struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"checks"`
}

func TestCheckHealthHealthy(t *testing.T) {
	e := newEnv(t, nil)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "test", body.Environment)
	assert.Equal(t, "configured", body.Checks["telegram"].Status)

	// Health never performs a real delivery.
	assert.Empty(t, e.messenger.sentTexts)
}

func TestCheckHealthMissingCredentials(t *testing.T) {
	e := newEnv(t, func(cfg *config.Config) {
		cfg.Telegram.ChatID = ""
	})

	rec := e.do(httptest.NewRequest(http.MethodGet, "/status", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unconfigured", body.Checks["telegram"].Status)
}
