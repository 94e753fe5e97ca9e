package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Woofinder configuration.
type Config struct {
	// Remote catalog service
	Service ServiceConfig `yaml:"service"`

	// Search defaults
	Search SearchConfig `yaml:"search"`

	// Local persisted state
	Storage StorageConfig `yaml:"storage"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ServiceConfig configures the remote catalog service client.
type ServiceConfig struct {
	BaseURL   string `yaml:"base_url"`
	AvatarURL string `yaml:"avatar_url"`
	Timeout   string `yaml:"timeout"`
}

// SearchConfig configures search page defaults.
type SearchConfig struct {
	PageSize int    `yaml:"page_size"`
	Sort     string `yaml:"sort"`
	AgeFloor int    `yaml:"age_floor"`
	AgeCeil  int    `yaml:"age_ceil"`
}

// StorageConfig configures the persisted session/favorites record.
type StorageConfig struct {
	// Directory holding woofinder-storage.json; defaults to ~/.woofinder.
	Home string `yaml:"home"`
}

// LoggingConfig configures category file logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:   "https://frontend-take-home-service.fetch.com",
			AvatarURL: "https://avatar-omega.vercel.app",
			Timeout:   "30s",
		},
		Search: SearchConfig{
			PageSize: 24,
			Sort:     "breed:asc",
			AgeFloor: 0,
			AgeCeil:  20,
		},
		Storage: StorageConfig{},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads config.yaml from the Woofinder home directory, falling back to
// defaults when the file is absent. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(cfg.HomeDir(), "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()
	return cfg, nil
}

// HomeDir resolves the directory holding config, logs and persisted state.
func (c *Config) HomeDir() string {
	if c.Storage.Home != "" {
		return c.Storage.Home
	}
	if home := os.Getenv("WOOFINDER_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".woofinder"
	}
	return filepath.Join(userHome, ".woofinder")
}

// StoragePath returns the path of the persisted {user, favorites} record.
func (c *Config) StoragePath() string {
	return filepath.Join(c.HomeDir(), "woofinder-storage.json")
}

// RequestTimeout parses the service timeout, defaulting to 30s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Service.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("WOOFINDER_BASE_URL"); url != "" {
		c.Service.BaseURL = url
	}
	if url := os.Getenv("WOOFINDER_AVATAR_URL"); url != "" {
		c.Service.AvatarURL = url
	}
	if home := os.Getenv("WOOFINDER_HOME"); home != "" {
		c.Storage.Home = home
	}
	if os.Getenv("WOOFINDER_DEBUG") == "1" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// fillDefaults repairs zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = def.Service.BaseURL
	}
	if c.Service.AvatarURL == "" {
		c.Service.AvatarURL = def.Service.AvatarURL
	}
	if c.Service.Timeout == "" {
		c.Service.Timeout = def.Service.Timeout
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = def.Search.PageSize
	}
	if c.Search.Sort == "" {
		c.Search.Sort = def.Search.Sort
	}
	if c.Search.AgeCeil <= 0 {
		c.Search.AgeCeil = def.Search.AgeCeil
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}
