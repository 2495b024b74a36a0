package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zatekoja/toursearch/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TOURS_API_BASE_URL", "")
	t.Setenv("SEARCH_MAX_POLL_RETRIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000/api", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 2, cfg.Search.MaxPollRetries)
	assert.Equal(t, time.Second, cfg.Search.DefaultPollDelay())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("TOURS_API_BASE_URL", "http://tours.test/api")
	t.Setenv("SEARCH_MAX_POLL_RETRIES", "5")
	t.Setenv("SEARCH_DEFAULT_POLL_DELAY_MS", "250")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("DIRECTORY_FLAT_CITY_LISTING", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://tours.test/api", cfg.Backend.BaseURL)
	assert.Equal(t, 5, cfg.Search.MaxPollRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Search.DefaultPollDelay())
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.True(t, cfg.Directory.FlatCityListing)
}

func TestLoad_IgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("SEARCH_MAX_POLL_RETRIES", "many")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Search.MaxPollRetries)
}

func TestLoad_RejectsNegativeRetries(t *testing.T) {
	t.Setenv("SEARCH_MAX_POLL_RETRIES", "-1")

	cfg, err := Load()
	assert.Nil(t, cfg)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
}

func TestLoad_Server(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SESSION_IDLE_SECONDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 15*time.Minute, cfg.Server.SessionIdle())
}

func TestLoad_RejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
}
