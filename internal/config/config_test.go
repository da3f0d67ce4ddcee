package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.dataforseo.com", cfg.DataForSEO.Endpoint)
	assert.Equal(t, 30*time.Second, cfg.DataForSEO.Timeout)
	assert.Equal(t, 3, cfg.DataForSEO.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.DataForSEO.RetryDelay)
	assert.Equal(t, 100, cfg.Audit.MaxPages)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 256, cfg.Cache.Capacity)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("DATAFORSEO_LOGIN", "someone@example.com")
	t.Setenv("DATAFORSEO_PASSWORD", "hunter2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "someone@example.com", cfg.DataForSEO.Login)
	assert.Equal(t, "hunter2", cfg.DataForSEO.Password)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsMissingCredentials(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DataForSEO.Login = ""
	cfg.DataForSEO.Password = ""

	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsZeroRetries(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DataForSEO.Login = "someone@example.com"
	cfg.DataForSEO.Password = "hunter2"

	// Zero is a deliberate no-retry setup, only negatives are invalid.
	cfg.DataForSEO.MaxRetries = 0
	assert.NoError(t, cfg.Validate())

	cfg.DataForSEO.MaxRetries = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.DataForSEO.Login = "someone@example.com"
	cfg.DataForSEO.Password = "hunter2"

	cfg.Audit.MaxPages = 0
	assert.Error(t, cfg.Validate())

	cfg.Audit.MaxPages = 100
	cfg.DataForSEO.RateLimit = 0
	assert.Error(t, cfg.Validate())
}
