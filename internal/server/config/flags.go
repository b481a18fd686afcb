package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/feedhub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret key
//	-t int      access token validity, minutes
//	-k int      token clock skew tolerance, seconds
//	-o int      store timeout, seconds
//	-m string   storage backend: postgres | memory
//	-e string   OTLP/HTTP trace collector host:port
//	-x bool     mark the session cookie Secure
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-k", "-o", "-m", "-e", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	tokenClockSkew := fs.Int("k", int(config.TokenClockSkew.Seconds()), "token_clock_skew (in seconds)")
	storeTimeout := fs.Int("o", int(config.StoreTimeout.Seconds()), "store_timeout (in seconds)")

	fs.StringVar(&config.Storage, "m", config.Storage, "storage backend (postgres|memory)")
	fs.StringVar(&config.TraceEndpoint, "e", config.TraceEndpoint, "OTLP trace endpoint")
	fs.BoolVar(&config.CookieSecure, "x", config.CookieSecure, "secure session cookie")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.TokenClockSkew = time.Duration(*tokenClockSkew) * time.Second
	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
}
