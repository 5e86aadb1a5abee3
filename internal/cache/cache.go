package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

type RedisReportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisReportCache(client *redis.Client, prefix string, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisReportCache) Get(ctx context.Context, key string) (models.Report, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Report{}, false, nil
		}
		return models.Report{}, false, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return models.Report{}, false, fmt.Errorf("failed to decode cached report: %w", err)
	}
	return report, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, report models.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *RedisReportCache) key(digest string) string {
	return c.prefix + digest
}

// NoopCache never stores anything. Used when Redis is not configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(ctx context.Context, key string) (models.Report, bool, error) {
	return models.Report{}, false, nil
}

func (NoopCache) Set(ctx context.Context, key string, report models.Report) error {
	return nil
}
