package config

import (
	"os"

	"github.com/dmitrijs2005/lulu/internal/configx"
	"github.com/dmitrijs2005/lulu/internal/flagx"
	"github.com/dmitrijs2005/lulu/internal/timex"
)

// FileConfig is the on-disk form of Config.
type FileConfig struct {
	Address                     string         `json:"address" yaml:"address" toml:"address"`
	DatabaseDSN                 string         `json:"database_dsn" yaml:"database_dsn" toml:"database_dsn"`
	SecretKey                   string         `json:"secret_key" yaml:"secret_key" toml:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_ttl" yaml:"access_token_ttl" toml:"access_token_ttl"`
	LogLevel                    string         `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat                   string         `json:"log_format" yaml:"log_format" toml:"log_format"`
}

// parseFile overlays Config with the file named by -c or -config.
// Panics on read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFile(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := configx.Load(path, &fc); err != nil {
		panic(err)
	}

	if fc.Address != "" {
		cfg.Address = fc.Address
	}
	if fc.DatabaseDSN != "" {
		cfg.DatabaseDSN = fc.DatabaseDSN
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.AccessTokenValidityDuration.Duration > 0 {
		cfg.AccessTokenValidityDuration = fc.AccessTokenValidityDuration.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
}
