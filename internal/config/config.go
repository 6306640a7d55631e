// Package config provides layered service configuration: TOML files with an
// environment overlay, environment variable overrides, and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sortinghat-io/sortinghat/internal/llm"
	"github.com/sortinghat-io/sortinghat/internal/scraper"
	"github.com/sortinghat-io/sortinghat/pkg/database"
	"github.com/sortinghat-io/sortinghat/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSortingHatEnv             = "SORTINGHAT_ENV"
	EnvSortingHatShutdownTimeout = "SORTINGHAT_SHUTDOWN_TIMEOUT"
	EnvSortingHatVersion         = "SORTINGHAT_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SORTINGHAT_DB_HOST",
	Port:            "SORTINGHAT_DB_PORT",
	Name:            "SORTINGHAT_DB_NAME",
	User:            "SORTINGHAT_DB_USER",
	Password:        "SORTINGHAT_DB_PASSWORD",
	SSLMode:         "SORTINGHAT_DB_SSL_MODE",
	MaxOpenConns:    "SORTINGHAT_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SORTINGHAT_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SORTINGHAT_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SORTINGHAT_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "SORTINGHAT_STORAGE_ENABLED",
	ContainerName:    "SORTINGHAT_STORAGE_CONTAINER_NAME",
	ConnectionString: "SORTINGHAT_STORAGE_CONNECTION_STRING",
}

var llmEnv = &llm.Env{
	Provider:     "SORTINGHAT_LLM_PROVIDER",
	Model:        "SORTINGHAT_LLM_MODEL",
	BaseURL:      "SORTINGHAT_LLM_BASE_URL",
	APIKey:       "SORTINGHAT_LLM_API_KEY",
	Temperature:  "SORTINGHAT_LLM_TEMPERATURE",
	MaxTokens:    "SORTINGHAT_LLM_MAX_TOKENS",
	StageTimeout: "SORTINGHAT_LLM_STAGE_TIMEOUT",
}

var scraperEnv = &scraper.Env{
	Timeout:      "SORTINGHAT_SCRAPER_TIMEOUT",
	UserAgent:    "SORTINGHAT_SCRAPER_USER_AGENT",
	MaxBodyBytes: "SORTINGHAT_SCRAPER_MAX_BODY_BYTES",
}

// Config is the root configuration for the sorting hat service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	LLM             llm.Config      `toml:"llm"`
	Scraper         scraper.Config  `toml:"scraper"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the SORTINGHAT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSortingHatEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.LLM.Merge(&overlay.LLM)
	c.Scraper.Merge(&overlay.Scraper)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.LLM.Finalize(llmEnv); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Scraper.Finalize(scraperEnv); err != nil {
		return fmt.Errorf("scraper: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSortingHatShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvSortingHatVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSortingHatEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
