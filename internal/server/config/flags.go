package config

import (
	"flag"
	"os"
	"time"

	"github.com/sumesh-s-dev/GridlockedCryptizer/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN of the auction database
//	-m string   admin DSN without a database selected
//	-n string   database name ensured by the bootstrapper
//	-e string   ledger endpoint
//	-t int      store call timeout, seconds
//	-r int      ledger call timeout, seconds
//	-l string   log level (debug, info, warn, error)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in seconds.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-n", "-e", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AdminDSN, "m", config.AdminDSN, "admin DSN (no database selected)")
	fs.StringVar(&config.DatabaseName, "n", config.DatabaseName, "database name")
	fs.StringVar(&config.LedgerEndpoint, "e", config.LedgerEndpoint, "ledger endpoint")

	storeTimeout := fs.Int("t", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")
	ledgerTimeout := fs.Int("r", int(config.LedgerTimeout.Seconds()), "ledger timeout (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
	config.LedgerTimeout = time.Duration(*ledgerTimeout) * time.Second
}
