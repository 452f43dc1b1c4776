// Package config loads runtime configuration for the chat client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. JSON, YAML and TOML
//     are accepted, picked by extension.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Durations in files are strings like "3s"; JSON also accepts integer
// nanoseconds:
//
//	{
//	  "server_url": "https://lulullm-production.up.railway.app",
//	  "online_check_interval": "3s",
//	  "request_timeout": "1m",
//	  "log_level": "info",
//	  "color": true
//	}
//
// Environment variables are not read.
package config
