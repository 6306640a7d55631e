package scraper

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds page fetching parameters.
type Config struct {
	Timeout      string `toml:"timeout"`
	UserAgent    string `toml:"user_agent"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Timeout      string
	UserAgent    string
	MaxBodyBytes string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
	if overlay.MaxBodyBytes != 0 {
		c.MaxBodyBytes = overlay.MaxBodyBytes
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; SortingHat/1.0; +https://github.com/sortinghat-io/sortinghat)"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 5 * 1024 * 1024
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.UserAgent != "" {
		if v := os.Getenv(env.UserAgent); v != "" {
			c.UserAgent = v
		}
	}
	if env.MaxBodyBytes != "" {
		if v := os.Getenv(env.MaxBodyBytes); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
				c.MaxBodyBytes = n
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
