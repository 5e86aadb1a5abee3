package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadLimitsConfig_Success(t *testing.T) {
	configPath := writeConfig(t, `limits:
  disk_capacity: 1000
  required_free: 300
  small_dir_threshold: 50
cache:
  prefix: "test:"
  ttl: 5m
`)
	t.Setenv("LIMITS_CONFIG_PATH", configPath)

	cfg, err := LoadLimitsConfig()
	if err != nil {
		t.Fatalf("LoadLimitsConfig() failed: %v", err)
	}

	expected := models.Limits{DiskCapacity: 1000, RequiredFree: 300, SmallDirThreshold: 50}
	if cfg.Limits != expected {
		t.Errorf("Expected limits %+v, got %+v", expected, cfg.Limits)
	}
	if cfg.Cache.Prefix != "test:" {
		t.Errorf("Expected prefix 'test:', got '%s'", cfg.Cache.Prefix)
	}

	ttl, err := cfg.CacheTTL()
	if err != nil {
		t.Fatalf("CacheTTL() failed: %v", err)
	}
	if ttl != 5*time.Minute {
		t.Errorf("Expected ttl 5m, got %s", ttl)
	}
}

func TestLoadLimitsConfig_PartialFileKeepsDefaults(t *testing.T) {
	configPath := writeConfig(t, `limits:
  small_dir_threshold: 42
`)
	t.Setenv("LIMITS_CONFIG_PATH", configPath)

	cfg, err := LoadLimitsConfig()
	if err != nil {
		t.Fatalf("LoadLimitsConfig() failed: %v", err)
	}

	if cfg.Limits.SmallDirThreshold != 42 {
		t.Errorf("Expected threshold 42, got %d", cfg.Limits.SmallDirThreshold)
	}
	if cfg.Limits.DiskCapacity != 70000000 {
		t.Errorf("Expected default capacity 70000000, got %d", cfg.Limits.DiskCapacity)
	}
	if cfg.Limits.RequiredFree != 30000000 {
		t.Errorf("Expected default required free 30000000, got %d", cfg.Limits.RequiredFree)
	}
	if cfg.Cache.TTL != "30m" {
		t.Errorf("Expected default ttl 30m, got %s", cfg.Cache.TTL)
	}
}

func TestLoadLimitsConfig_FileNotFound(t *testing.T) {
	t.Setenv("LIMITS_CONFIG_PATH", "/nonexistent/path/limits.yaml")

	_, err := LoadLimitsConfig()
	if err == nil {
		t.Fatal("Expected error for nonexistent config file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got: %v", err)
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected 'failed to read config file' error, got: %v", err)
	}
}

func TestLoadLimitsConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `limits:
  disk_capacity: [not, a, number
`)
	t.Setenv("LIMITS_CONFIG_PATH", configPath)

	_, err := LoadLimitsConfig()
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func TestLoadLimitsConfig_InvalidLimits(t *testing.T) {
	configPath := writeConfig(t, `limits:
  disk_capacity: 0
`)
	t.Setenv("LIMITS_CONFIG_PATH", configPath)

	_, err := LoadLimitsConfig()
	if !errors.Is(err, models.ErrInvalidLimits) {
		t.Fatalf("Expected ErrInvalidLimits, got: %v", err)
	}
}

func TestValidate_InvalidTTL(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = "forever"

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid ttl")
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
}

func TestLoadFile_RepositoryConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("..", "..", DefaultConfigPath))
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Expected shipped config to match defaults, got %+v", cfg)
	}
}
