package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/flagx"
)

// Flags parses from the command line. ValueFlags lists the ones that take a
// separate value, so callers can find positional arguments around them.
var (
	Flags      = []string{"-a", "-u", "-i"}
	ValueFlags = []string{"-a", "-u", "-i", "-c", "-config"}
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the feedhub API
//	-u string   username
//	-i int      request timeout in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the feedhub API")
	fs.StringVar(&cfg.Username, "u", cfg.Username, "username")
	requestTimeout := fs.Int("i", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
