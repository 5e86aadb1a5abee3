package stream

import "github.com/povarna/generative-ai-agents/fs-agent/internal/stream/redis"

const (
	ProviderRedis = "redis"

	DefaultStream       = "trace-events"
	DefaultResultStream = "trace-reports"
	DefaultGroup        = "trace-group"
)

type StreamConfig struct {
	Provider    string // redis for now
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConfig(provider string, redisConfig *redis.RedisStreamConfig) *StreamConfig {
	return &StreamConfig{
		Provider:    provider,
		RedisConfig: redisConfig,
	}
}
