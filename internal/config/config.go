// Package config handles configuration for the passport server:
// defaults, environment overlay, and command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Storage backend names accepted in Config.StorageBackend
const (
	BackendSQLite = "sqlite"
	BackendBoltDB = "boltdb"
)

// Config holds runtime settings for the passport server.
//
// TokenSecret is the HMAC-SHA512 signing secret. When left empty, a
// random key is generated at startup and all issued tokens become
// unverifiable after a restart. Supply a secret for restart continuity.
type Config struct {
	Addr            string        // bind address, e.g. ":8000"
	StorageBackend  string        // "sqlite" or "boltdb"
	DatabasePath    string        // path to the database file
	TokenSecret     string        // HMAC secret; empty means generate per process
	AccessTokenTTL  time.Duration // access token lifetime
	RefreshTokenTTL time.Duration // refresh token lifetime, must exceed AccessTokenTTL
	RateLimit       int           // max requests per client per window
	RateLimitWindow time.Duration // rate limit window
	ShowVersion     bool          // print version information and exit
}

// LoadDefaults populates Config with development defaults.
// NOTE: the token TTLs mirror the production contract (1 minute access,
// 1 hour refresh); the rest should be overridden for production.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.StorageBackend = BackendSQLite
	c.DatabasePath = "passport.db"
	c.TokenSecret = ""
	c.AccessTokenTTL = 1 * time.Minute
	c.RefreshTokenTTL = 1 * time.Hour
	c.RateLimit = 100
	c.RateLimitWindow = 1 * time.Minute
}

// Load builds a Config by applying defaults, then overlaying values
// from environment variables and finally from command-line flags.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := cfg.parseEnv(); err != nil {
		return nil, err
	}
	if err := cfg.parseFlags(os.Args[1:]); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// parseEnv overlays values from PASSPORT_* environment variables
func (c *Config) parseEnv() error {
	if v := os.Getenv("PASSPORT_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("PASSPORT_STORAGE"); v != "" {
		c.StorageBackend = v
	}
	if v := os.Getenv("PASSPORT_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("PASSPORT_TOKEN_SECRET"); v != "" {
		c.TokenSecret = v
	}
	if v := os.Getenv("PASSPORT_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PASSPORT_ACCESS_TTL: %w", err)
		}
		c.AccessTokenTTL = d
	}
	if v := os.Getenv("PASSPORT_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PASSPORT_REFRESH_TTL: %w", err)
		}
		c.RefreshTokenTTL = d
	}
	return nil
}

// parseFlags overlays values from command-line flags
func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("passport", flag.ContinueOnError)

	fs.StringVar(&c.Addr, "a", c.Addr, "address and port to run server")
	fs.StringVar(&c.StorageBackend, "b", c.StorageBackend, "storage backend: sqlite or boltdb")
	fs.StringVar(&c.DatabasePath, "d", c.DatabasePath, "path to database file")
	fs.StringVar(&c.TokenSecret, "s", c.TokenSecret, "token signing secret (empty: random per process)")
	fs.DurationVar(&c.AccessTokenTTL, "access-ttl", c.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&c.RefreshTokenTTL, "refresh-ttl", c.RefreshTokenTTL, "refresh token lifetime")
	fs.BoolVar(&c.ShowVersion, "version", false, "show version information")

	return fs.Parse(args)
}

// Validate checks configuration invariants
func (c *Config) Validate() error {
	if c.StorageBackend != BackendSQLite && c.StorageBackend != BackendBoltDB {
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL (%v) must exceed access token TTL (%v)",
			c.RefreshTokenTTL, c.AccessTokenTTL)
	}
	return nil
}
