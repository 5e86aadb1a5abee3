package stream

import (
	"context"
	"errors"
	"fmt"

	red "github.com/povarna/generative-ai-agents/fs-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

var (
	ErrMissingConfig       = errors.New("stream provider config required")
	ErrUnsupportedProvider = errors.New("unsupported stream provider")
)

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	analyzer redis.Analyzer,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	// Empty provider falls back to redis
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderRedis
	}

	switch provider {
	case ProviderRedis:
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, provider)
		}

		client, err := red.ConnectRedis(ctx, red.Config{
			Addr:     cfg.RedisConfig.RedisAddr,
			Password: cfg.RedisConfig.RedisPassword,
			Attempts: cfg.RedisConfig.ConnectAttempts,
		}, logger)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, analyzer, logger), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
}
