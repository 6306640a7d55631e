package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds completion client defaults. Provider and Model apply when a
// request does not override them; StageTimeout bounds each pipeline stage.
type Config struct {
	Provider     string  `toml:"provider"`
	Model        string  `toml:"model"`
	BaseURL      string  `toml:"base_url"`
	APIKey       string  `toml:"api_key"`
	Temperature  float64 `toml:"temperature"`
	MaxTokens    int     `toml:"max_tokens"`
	StageTimeout string  `toml:"stage_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider     string
	Model        string
	BaseURL      string
	APIKey       string
	Temperature  string
	MaxTokens    string
	StageTimeout string
}

// StageTimeoutDuration returns StageTimeout as a time.Duration.
func (c *Config) StageTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.StageTimeout)
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

// Merge overwrites non-zero fields from overlay. Temperature merges on any
// non-zero value; an explicit zero in the overlay keeps the base value.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.StageTimeout != "" {
		c.StageTimeout = overlay.StageTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = "openai"
	}
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.StageTimeout == "" {
		c.StageTimeout = "120s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Provider != "" {
		if v := os.Getenv(env.Provider); v != "" {
			c.Provider = v
		}
	}
	if env.Model != "" {
		if v := os.Getenv(env.Model); v != "" {
			c.Model = v
		}
	}
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.APIKey != "" {
		if v := os.Getenv(env.APIKey); v != "" {
			c.APIKey = v
		}
	}
	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if t, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = t
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
	if env.StageTimeout != "" {
		if v := os.Getenv(env.StageTimeout); v != "" {
			c.StageTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Provider != "openai" && c.Provider != "ollama" {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if _, err := time.ParseDuration(c.StageTimeout); err != nil {
		return fmt.Errorf("invalid stage_timeout: %w", err)
	}
	return nil
}
