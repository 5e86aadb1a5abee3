package setup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/config"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/executor"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/fstree"
	red "github.com/povarna/generative-ai-agents/fs-agent/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	LogLevel      string
	APIPort       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisAttempts int
	// RedisTTL overrides the cache ttl of the limits file when set
	RedisTTL       time.Duration
	StreamProvider string
	ConsumerName   string
}

type Dependencies struct {
	Executor *executor.Executor
	Redis    *redis.Client
	Logger   *zerolog.Logger
}

func LoadConfig() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		APIPort:        getEnv("FS_AGENT_API_PORT", "18082"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisAttempts:  getEnvInt("REDIS_CONNECT_ATTEMPTS", 5),
		RedisTTL:       getEnvDuration("REDIS_TTL", 0),
		StreamProvider: getEnv("STREAM_PROVIDER", "redis"),
		ConsumerName:   getEnv("HOSTNAME", hostname),
	}
}

// Wire builds the analysis pipeline. Reports are cached in Redis only when
// RedisAddr is set.
func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	fileCfg, err := config.LoadLimitsConfig()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load limits config: %w", err)
		}
		logger.Warn().Err(err).Msg("No limits config found, using defaults")
		fileCfg = config.Default()
	}

	deps := &Dependencies{Logger: logger}

	var reportCache executor.ReportCache = cache.NewNoopCache()
	if cfg.RedisAddr != "" {
		client, err := red.ConnectRedis(ctx, red.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Attempts: cfg.RedisAttempts,
		}, logger)
		if err != nil {
			return nil, err
		}

		ttl := cfg.RedisTTL
		if ttl == 0 {
			// Validated by LoadLimitsConfig
			ttl, _ = fileCfg.CacheTTL()
		}

		deps.Redis = client
		reportCache = cache.NewRedisReportCache(client, fileCfg.Cache.Prefix, ttl)
	}

	deps.Executor = executor.NewExecutor(
		fstree.NewBuilder(logger),
		aggregator.NewAggregator(logger),
		reportCache,
		fileCfg.Limits,
		logger,
	)

	logger.Debug().
		Int64("disk_capacity", fileCfg.Limits.DiskCapacity).
		Int64("required_free", fileCfg.Limits.RequiredFree).
		Int64("small_dir_threshold", fileCfg.Limits.SmallDirThreshold).
		Bool("cache", deps.Redis != nil).
		Msg("dependencies wired")

	return deps, nil
}

func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
