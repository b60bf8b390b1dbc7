package config

import "time"

// Config holds runtime settings for the JobFolio CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST endpoint.
//   - RequestTimeout: per-request deadline for remote calls.
//   - CredentialCachePath: SQLite file holding the cached credential.
//   - ResumeBucket: blob bucket resumes are uploaded to.
type Config struct {
	ServerBaseURL       string
	RequestTimeout      time.Duration
	CredentialCachePath string
	ResumeBucket        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.CredentialCachePath = "jobfolio.db"
	c.ResumeBucket = "resumes"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
