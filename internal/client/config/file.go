package config

import (
	"os"

	"github.com/dmitrijs2005/lulu/internal/configx"
	"github.com/dmitrijs2005/lulu/internal/flagx"
	"github.com/dmitrijs2005/lulu/internal/timex"
)

// FileConfig is a DTO used exclusively for config file decoding. Pointer and
// zero-value fields left unset by the file keep the values already in Config.
type FileConfig struct {
	ServerURL           string         `json:"server_url" yaml:"server_url" toml:"server_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval" toml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout" toml:"request_timeout"`
	LogLevel            string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat           string         `json:"log_format" yaml:"log_format" toml:"log_format"`
	Color               *bool          `json:"color" yaml:"color" toml:"color"`
}

// parseFile overlays Config with values loaded from the file named by -c or
// -config. Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := configx.Load(path, &fc); err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func (fc FileConfig) apply(cfg *Config) {
	if fc.ServerURL != "" {
		cfg.ServerURL = fc.ServerURL
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.Color != nil {
		cfg.Color = *fc.Color
	}
}
