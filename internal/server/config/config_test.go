package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 720*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, time.Hour, c.ResetTokenValidityDuration)
	assert.NotEmpty(t, c.DatabaseDSN)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, ":8080", cfg.EndpointAddr)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("JOBFOLIO_ENDPOINT_ADDR", ":9999")
	t.Setenv("JOBFOLIO_ACCESS_TOKEN_TTL", "5m")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)
	// Untouched variables keep the defaults.
	assert.Equal(t, "secretKey", c.SecretKey)
}
