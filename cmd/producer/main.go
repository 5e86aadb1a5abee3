package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/fs-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/stream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	input := flag.String("inputFile", "", "Trace file to publish, - for stdin")
	id := flag.String("id", "", "Request identifier")
	streamName := flag.String("stream", stream.DefaultStream, "Stream name")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -inputFile <trace file> [-id <id>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*input, *id, *streamName); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(input, id, streamName string) error {
	_ = godotenv.Load()

	traceText, err := readTrace(input)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(models.AnalysisRequest{ID: id, Trace: traceText})
	if err != nil {
		return err
	}

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, red.Config{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		Attempts: 3,
	}, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	msgID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", streamName).Str("id", msgID).Str("request_id", id).Msg("Published successfully!")
	return nil
}

func readTrace(input string) (string, error) {
	var r io.Reader = os.Stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
