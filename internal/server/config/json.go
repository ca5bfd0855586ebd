package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/coursehub/internal/flagx"
	"github.com/dmitrijs2005/coursehub/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. The jwt block
// keeps the property names the services have always used
// (jwt.key, jwt.access-token-expiration, jwt.refresh-token-expiration).
//
// Absent fields leave the current value untouched.
type JsonConfig struct {
	EndpointAddrHTTP string   `json:"endpoint_addr_http"`
	DatabaseDSN      string   `json:"database_dsn"`
	PublicPaths      []string `json:"public_paths"`
	DefaultLocale    string   `json:"default_locale"`
	RunMigrations    *bool    `json:"run_migrations"`
	LogLevel         string   `json:"log_level"`
	JWT              struct {
		Key                    string          `json:"key"`
		AccessTokenExpiration  *timex.Duration `json:"access-token-expiration"`
		RefreshTokenExpiration *timex.Duration `json:"refresh-token-expiration"`
	} `json:"jwt"`
	Services struct {
		User    string `json:"user"`
		Course  string `json:"course"`
		Payment string `json:"payment"`
	} `json:"services"`
}

// parseJson loads the file named by -c / -config (if any) and overlays it
// onto config. An unreadable or malformed file panics: a service must not
// start with a half-applied configuration.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigFile(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.DefaultLocale, c.DefaultLocale)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.JWT.Key, c.JWT.Key)
	setString(&config.Peers.UserURL, c.Services.User)
	setString(&config.Peers.CourseURL, c.Services.Course)
	setString(&config.Peers.PaymentURL, c.Services.Payment)

	if c.PublicPaths != nil {
		config.PublicPaths = c.PublicPaths
	}
	if c.RunMigrations != nil {
		config.RunMigrations = *c.RunMigrations
	}
	if c.JWT.AccessTokenExpiration != nil {
		config.JWT.AccessTokenExpiration = c.JWT.AccessTokenExpiration.Duration
	}
	if c.JWT.RefreshTokenExpiration != nil {
		config.JWT.RefreshTokenExpiration = c.JWT.RefreshTokenExpiration.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
