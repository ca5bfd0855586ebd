package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8081")
//	-d string   PostgreSQL DSN
//	-k string   jwt.key, HMAC secret shared by all services
//	-t int      jwt.access-token-expiration, milliseconds
//	-r int      jwt.refresh-token-expiration, milliseconds
//	-p string   comma-separated public paths
//	-l string   default locale
//	-m bool     run migrations on startup
//	-v string   log level (debug, info, warn, error)
//	-user-url string     base URL of the user service
//	-course-url string   base URL of the course service
//	-payment-url string  base URL of the payment service
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-k", "-t", "-r", "-p", "-l", "-m", "-v", "-user-url", "-course-url", "-payment-url"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWT.Key, "k", config.JWT.Key, "jwt signing key")

	accessMs := fs.Int64("t", config.JWT.AccessTokenExpiration.Milliseconds(), "access token expiration (ms)")
	refreshMs := fs.Int64("r", config.JWT.RefreshTokenExpiration.Milliseconds(), "refresh token expiration (ms)")
	publicPaths := fs.String("p", strings.Join(config.PublicPaths, ","), "comma-separated public paths")

	fs.StringVar(&config.DefaultLocale, "l", config.DefaultLocale, "default locale")
	fs.BoolVar(&config.RunMigrations, "m", config.RunMigrations, "run migrations on startup")
	fs.StringVar(&config.LogLevel, "v", config.LogLevel, "log level")
	fs.StringVar(&config.Peers.UserURL, "user-url", config.Peers.UserURL, "user service base URL")
	fs.StringVar(&config.Peers.CourseURL, "course-url", config.Peers.CourseURL, "course service base URL")
	fs.StringVar(&config.Peers.PaymentURL, "payment-url", config.Peers.PaymentURL, "payment service base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.JWT.AccessTokenExpiration = time.Duration(*accessMs) * time.Millisecond
	config.JWT.RefreshTokenExpiration = time.Duration(*refreshMs) * time.Millisecond
	config.PublicPaths = splitPaths(*publicPaths)
}

func splitPaths(s string) []string {
	paths := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
