package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment overlay. Empty variables leave
// the current value in place.
type envConfig struct {
	ServerBaseURL       string        `env:"JOBFOLIO_SERVER_URL"`
	RequestTimeout      time.Duration `env:"JOBFOLIO_REQUEST_TIMEOUT"`
	CredentialCachePath string        `env:"JOBFOLIO_CACHE_PATH"`
	ResumeBucket        string        `env:"JOBFOLIO_RESUME_BUCKET"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.ServerBaseURL != "" {
		cfg.ServerBaseURL = ec.ServerBaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.CredentialCachePath != "" {
		cfg.CredentialCachePath = ec.CredentialCachePath
	}
	if ec.ResumeBucket != "" {
		cfg.ResumeBucket = ec.ResumeBucket
	}
}
