// Package batch analyses many traces from a JSON Lines file with a pool of
// workers.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/rs/zerolog"
)

// maxLineBytes bounds a single JSON line; a whole trace is embedded in it
const maxLineBytes = 16 << 20

// InputRecord is one line of the input file. Error is set when the line could
// not be decoded.
type InputRecord struct {
	LineNumber int
	Request    models.AnalysisRequest
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		r:      r,
		logger: logger,
	}
}

// ReadAll streams the records of the input. Blank lines are skipped. The
// channel is closed at end of input or when ctx is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if record.Request.ID == "" {
				record.Request.ID = fmt.Sprintf("line-%d", lineNumber)
			}

			select {
			case <-ctx.Done():
				r.logger.Warn().Int("line", lineNumber).Msg("Reading cancelled")
				return
			case out <- record:
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("Failed to read input")
			select {
			case <-ctx.Done():
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			}
		}
	}()

	return out
}
