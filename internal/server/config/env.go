package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	EndpointAddr                 string        `env:"JOBFOLIO_ENDPOINT_ADDR"`
	DatabaseDSN                  string        `env:"JOBFOLIO_DATABASE_DSN"`
	SecretKey                    string        `env:"JOBFOLIO_SECRET_KEY"`
	AccessTokenValidityDuration  time.Duration `env:"JOBFOLIO_ACCESS_TOKEN_TTL"`
	RefreshTokenValidityDuration time.Duration `env:"JOBFOLIO_REFRESH_TOKEN_TTL"`
	ResetTokenValidityDuration   time.Duration `env:"JOBFOLIO_RESET_TOKEN_TTL"`
	S3RootUser                   string        `env:"JOBFOLIO_S3_ROOT_USER"`
	S3RootPassword               string        `env:"JOBFOLIO_S3_ROOT_PASSWORD"`
	S3Region                     string        `env:"JOBFOLIO_S3_REGION"`
	S3BaseEndpoint               string        `env:"JOBFOLIO_S3_BASE_ENDPOINT"`
}

func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.EndpointAddr != "" {
		cfg.EndpointAddr = ec.EndpointAddr
	}
	if ec.DatabaseDSN != "" {
		cfg.DatabaseDSN = ec.DatabaseDSN
	}
	if ec.SecretKey != "" {
		cfg.SecretKey = ec.SecretKey
	}
	if ec.AccessTokenValidityDuration != 0 {
		cfg.AccessTokenValidityDuration = ec.AccessTokenValidityDuration
	}
	if ec.RefreshTokenValidityDuration != 0 {
		cfg.RefreshTokenValidityDuration = ec.RefreshTokenValidityDuration
	}
	if ec.ResetTokenValidityDuration != 0 {
		cfg.ResetTokenValidityDuration = ec.ResetTokenValidityDuration
	}
	if ec.S3RootUser != "" {
		cfg.S3RootUser = ec.S3RootUser
	}
	if ec.S3RootPassword != "" {
		cfg.S3RootPassword = ec.S3RootPassword
	}
	if ec.S3Region != "" {
		cfg.S3Region = ec.S3Region
	}
	if ec.S3BaseEndpoint != "" {
		cfg.S3BaseEndpoint = ec.S3BaseEndpoint
	}
}
