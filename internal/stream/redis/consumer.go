package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	fieldPayload   = "payload"
	fieldError     = "error"
	fieldRequestID = "request_id"
)

var ErrMissingPayload = errors.New("missing payload field")

type Analyzer interface {
	Execute(ctx context.Context, req models.AnalysisRequest) (models.Report, error)
}

type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	groupID      string
	consumerName string
	analyzer     Analyzer
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, analyzer Analyzer, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		analyzer:     analyzer,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", c.groupID, err)
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// block timed out
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

// Stop closes the Redis client owned by the consumer.
func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	req, err := decodeRequest(msg)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message, ACK to skip it
		return
	}

	report, err := c.analyzer.Execute(ctx, req)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("request_id", req.ID).Msg("Analysis failed")
	} else {
		c.logger.Info().
			Str("id", msg.ID).
			Str("request_id", report.ID).
			Int64("small_dirs_total", report.SmallDirsTotal).
			Int64("delete_candidate", report.DeleteCandidate.Size).
			Msg("Analysis complete")
	}

	if ctx.Err() != nil {
		// leave the message pending so it is redelivered
		return
	}

	if err := c.publish(ctx, encodeResult(req.ID, report, err)); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish result")
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, values map[string]any) error {
	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.resultStream,
		Values: values,
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

func decodeRequest(msg redis.XMessage) (models.AnalysisRequest, error) {
	payload, ok := msg.Values[fieldPayload].(string)
	if !ok {
		return models.AnalysisRequest{}, ErrMissingPayload
	}

	var req models.AnalysisRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("invalid payload: %w", err)
	}
	return req, nil
}

// encodeResult builds the result stream entry: the report as JSON, or the
// analysis error.
func encodeResult(requestID string, report models.Report, err error) map[string]any {
	if err != nil {
		return map[string]any{
			fieldRequestID: requestID,
			fieldError:     err.Error(),
		}
	}

	data, mErr := json.Marshal(report)
	if mErr != nil {
		return map[string]any{
			fieldRequestID: report.ID,
			fieldError:     mErr.Error(),
		}
	}

	return map[string]any{
		fieldRequestID: report.ID,
		fieldPayload:   string(data),
	}
}
