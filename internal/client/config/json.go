package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarklins/jobfolio/internal/flagx"
	"github.com/dkarklins/jobfolio/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify the timeout either as a string
// like "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	CredentialCachePath string         `json:"credential_cache_path"`
	ResumeBucket        string         `json:"resume_bucket"`
}

// parseJson overlays cfg with values loaded from the JSON file named by
// the -c/-config flags. No flag means no JSON is loaded. Read and
// unmarshal errors panic; the config stage has nothing useful to fall
// back to.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.CredentialCachePath != "" {
		cfg.CredentialCachePath = jc.CredentialCachePath
	}
	if jc.ResumeBucket != "" {
		cfg.ResumeBucket = jc.ResumeBucket
	}
}
