package config

import "github.com/povarna/generative-ai-agents/fs-agent/internal/models"

// Config represents the analysis configuration file
type Config struct {
	Limits models.Limits `yaml:"limits"`
	Cache  CacheConfig   `yaml:"cache"`
}

// CacheConfig controls how long reports stay in the report cache
type CacheConfig struct {
	Prefix string `yaml:"prefix"`
	TTL    string `yaml:"ttl"`
}
