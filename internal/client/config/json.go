package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/feedhub/internal/flagx"
	"github.com/dmitrijs2005/feedhub/internal/timex"
)

// JsonConfig is the on-disk shape of the client configuration. Only keys
// present in the file override the current values.
type JsonConfig struct {
	ServerURL      *string         `json:"server_url"`
	Username       *string         `json:"username"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
}

// parseJson overlays cfg with values from the JSON file named by -c,
// -config or FEEDHUB_CONFIG. Read or decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.Username != nil {
		cfg.Username = *jc.Username
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
