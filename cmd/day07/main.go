package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/setup/logger"
	"github.com/rs/zerolog/log"
)

var inputFile = flag.String("inputFile", "input.txt", "Relative path to the input file, - for stdin")

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
	}

	cfg := setup.LoadConfig()
	// Reports of a one-shot run are not worth caching
	cfg.RedisAddr = ""

	log.Logger = logger.New(cfg.LogLevel)

	if err := run(context.Background(), cfg, *inputFile, os.Stdout); err != nil {
		log.Error().Err(err).Str("file", *inputFile).Msg("day07 failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *setup.Config, path string, out io.Writer) error {
	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	data, err := readInput(path)
	if err != nil {
		return err
	}

	report, err := deps.Executor.Execute(ctx, models.AnalysisRequest{ID: "day07", Trace: string(data)})
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the input file: %w", err)
	}
	return data, nil
}

func printReport(w io.Writer, report models.Report) {
	fmt.Fprintf(w, "Part 1 | What is the sum of the total sizes of those directories with a total size of at most %d?\n", report.Limits.SmallDirThreshold)
	fmt.Fprintf(w, "Answer: %d\n", report.SmallDirsTotal)
	fmt.Fprintf(w, "Part 2 | What is the total size of the smallest directory to be deleted to create %d of free space?\n", report.Limits.RequiredFree)
	fmt.Fprintf(w, "Answer: %d\n", report.DeleteCandidate.Size)
}
