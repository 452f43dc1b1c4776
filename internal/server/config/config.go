// Package config handles configuration for the development server,
// including defaults, a config file overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development server.
//
// Fields:
//   - Address: bind address of the HTTP listener.
//   - DatabaseDSN: SQLite DSN (modernc.org/sqlite) holding registered users.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random
//     key is generated at startup, invalidating tokens on restart.
//   - AccessTokenValidityDuration: access token lifetime.
//   - LogLevel / LogFormat: structured log settings.
type Config struct {
	Address                     string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Address = ":8000"
	c.DatabaseDSN = "file:lulu.db?_pragma=busy_timeout(5000)"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
