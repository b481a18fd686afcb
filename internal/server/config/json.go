package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/feedhub/internal/flagx"
	"github.com/dmitrijs2005/feedhub/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted. Only
// keys present in the file override the current values.
type JsonConfig struct {
	HTTPAddr                    *string         `json:"http_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	TokenClockSkew              *timex.Duration `json:"token_clock_skew"`
	StoreTimeout                *timex.Duration `json:"store_timeout"`
	Storage                     *string         `json:"storage"`
	TraceEndpoint               *string         `json:"trace_endpoint"`
	CookieSecure                *bool           `json:"cookie_secure"`
}

// parseJson loads configuration values from the JSON file named by -c,
// -config or FEEDHUB_CONFIG into config. Without a path nothing happens.
// An unreadable file or invalid JSON panics, as with bad flags.
func parseJson(config *Config) {
	path := flagx.ConfigPath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	if c.HTTPAddr != nil {
		config.HTTPAddr = *c.HTTPAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.TokenClockSkew != nil {
		config.TokenClockSkew = c.TokenClockSkew.Duration
	}
	if c.StoreTimeout != nil {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.Storage != nil {
		config.Storage = *c.Storage
	}
	if c.TraceEndpoint != nil {
		config.TraceEndpoint = *c.TraceEndpoint
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}
