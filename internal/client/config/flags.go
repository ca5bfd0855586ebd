package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/flagx"
)

// Flags understood by the CLI. Positional arguments (the command) are left
// to the caller.
var Flags = []string{"-s", "-t"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-s string   base URL of the auth service
//	-t int      request timeout in seconds
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, Flags)

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the auth service")
	timeout := fs.Int("t", int(cfg.Timeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Timeout = time.Duration(*timeout) * time.Second
}
