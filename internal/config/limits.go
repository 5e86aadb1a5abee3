package config

import (
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/aggregator"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "configs/limits.yaml"

// LoadLimitsConfig reads the file named by LIMITS_CONFIG_PATH, or
// configs/limits.yaml when unset. Missing keys keep their defaults.
func LoadLimitsConfig() (*Config, error) {
	path := os.Getenv("LIMITS_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

func Default() *Config {
	return &Config{
		Limits: aggregator.DefaultLimits(),
		Cache: CacheConfig{
			Prefix: "fs_report:",
			TTL:    "30m",
		},
	}
}

func (c *Config) Validate() error {
	if err := c.Limits.Validate(); err != nil {
		return err
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	return nil
}

func (c *Config) CacheTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	return ttl, nil
}
