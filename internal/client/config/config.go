package config

import "time"

// Config holds runtime settings for the chat client.
//
// Fields:
//   - ServerURL: root URL of the auth and inference service.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - LogLevel / LogFormat: diagnostics written to stderr.
//   - Color: colourise the transcript.
type Config struct {
	ServerURL           string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string
	LogFormat           string
	Color               bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 60 * time.Second
	c.LogLevel = "warn"
	c.LogFormat = "text"
	c.Color = true
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
