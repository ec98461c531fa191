package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/stravastats/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-b string   storage backend ("postgres" or "memory")
//	-i string   Strava OAuth client id
//	-s string   Strava OAuth client secret
//	-u string   OAuth redirect URL
//	-k string   JWT HMAC secret key
//	-t int      session token validity, hours
//	-p int      activities per page when syncing
//	-m int      maximum pages per sync run
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The duration flag is accepted as an integer in hours and then converted
//     to a time.Duration value.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-b", "-i", "-s", "-u", "-k", "-t", "-p", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (postgres or memory)")
	fs.StringVar(&config.StravaClientID, "i", config.StravaClientID, "Strava OAuth client id")
	fs.StringVar(&config.StravaClientSecret, "s", config.StravaClientSecret, "Strava OAuth client secret")
	fs.StringVar(&config.StravaRedirectURL, "u", config.StravaRedirectURL, "OAuth redirect URL")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "secret key")

	sessionTokenValidityDuration := fs.Int("t", int(config.SessionTokenValidityDuration.Hours()), "session_token_validity_duration (in hours)")

	fs.IntVar(&config.SyncPageSize, "p", config.SyncPageSize, "activities per page when syncing")
	fs.IntVar(&config.SyncMaxPages, "m", config.SyncMaxPages, "maximum pages per sync run")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidityDuration = time.Duration(*sessionTokenValidityDuration) * time.Hour
}
