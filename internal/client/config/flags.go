package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lulu/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   server URL
//	-i int      online check interval in seconds
//	-t int      request timeout in seconds
//	-l string   log level (debug, info, warn, error)
//	-nocolor    plain transcript output
//
// Only the flags above are taken from os.Args (see flagx.FilterArgs).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-t", "-l", "-nocolor"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	noColor := fs.Bool("nocolor", !cfg.Color, "disable coloured output")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
	cfg.Color = !*noColor
}
