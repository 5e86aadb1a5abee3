package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/stream/redis"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found")
	}

	cfg := setup.LoadConfig()

	// Setup logging
	log.Logger = logger.New(cfg.LogLevel)
	logger := log.Logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required for the stream worker")
	}

	// Pipeline with the report cache on the same Redis
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	redisCfg := redis.NewRedisStreamConfig(
		cfg.RedisAddr,
		cfg.RedisPassword,
		stream.DefaultStream,
		stream.DefaultResultStream,
		stream.DefaultGroup,
		cfg.ConsumerName,
	)
	redisCfg.ConnectAttempts = cfg.RedisAttempts
	streamCfg := stream.NewStreamConfig(cfg.StreamProvider, redisCfg)

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Executor, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	// Start consumer
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")
	<-done

	if err := consumer.Stop(); err != nil {
		logger.Warn().Err(err).Msg("Failed to stop consumer")
	}

	log.Info().Msg("FS Agent stream worker stopped")
}
