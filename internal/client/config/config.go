package config

import "time"

// Config holds runtime settings for the feedhub inbox client.
//
// Fields:
//   - ServerURL: base URL of the feedhub HTTP API.
//   - Username: account to log in as; prompted for when empty.
//   - RequestTimeout: upper bound for a single HTTP round trip.
type Config struct {
	ServerURL      string
	Username       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Username = ""
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
