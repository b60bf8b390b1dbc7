package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "jobfolio.db", c.CredentialCachePath)
	assert.Equal(t, "resumes", c.ResumeBucket)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestParseEnvOverlay(t *testing.T) {
	t.Setenv("JOBFOLIO_SERVER_URL", "https://api.jobfolio.example")
	t.Setenv("JOBFOLIO_REQUEST_TIMEOUT", "30s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "https://api.jobfolio.example", c.ServerBaseURL)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	// Untouched variables keep the defaults.
	assert.Equal(t, "jobfolio.db", c.CredentialCachePath)
}

func TestJsonConfigUnmarshal(t *testing.T) {
	raw := `{"server_base_url":"https://api.jobfolio.example","request_timeout":"15s","resume_bucket":"cv"}`

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(raw), &jc))

	assert.Equal(t, "https://api.jobfolio.example", jc.ServerBaseURL)
	assert.Equal(t, 15*time.Second, jc.RequestTimeout.Duration)
	assert.Equal(t, "cv", jc.ResumeBucket)
}

func TestParseJsonFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_base_url":"https://api.jobfolio.example"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"jobfolio", "-c", path}
	defer func() { os.Args = oldArgs }()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, "https://api.jobfolio.example", c.ServerBaseURL)
	// Fields the file omits keep the defaults.
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}
