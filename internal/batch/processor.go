package batch

import (
	"context"
	"sync"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/rs/zerolog"
)

type Analyzer interface {
	Execute(ctx context.Context, req models.AnalysisRequest) (models.Report, error)
}

// Result is the outcome of one input record. Exactly one of Report and Error
// is set.
type Result struct {
	ID         string         `json:"id"`
	LineNumber int            `json:"line"`
	Report     *models.Report `json:"report,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func (r Result) Failed() bool {
	return r.Error != ""
}

type Processor struct {
	analyzer Analyzer
	workers  int
	logger   *zerolog.Logger
}

func NewProcessor(analyzer Analyzer, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		analyzer: analyzer,
		workers:  workers,
		logger:   logger,
	}
}

// Process fans the records out to the workers. Results arrive in completion
// order; the channel is closed once every record is handled or ctx is done.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for record := range jobs {
				result := p.handle(ctx, record)
				p.logger.Debug().
					Int("worker", worker).
					Str("id", result.ID).
					Bool("failed", result.Failed()).
					Msg("Record processed")

				select {
				case <-ctx.Done():
					return
				case results <- result:
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case <-ctx.Done():
				return
			case jobs <- record:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) handle(ctx context.Context, record InputRecord) Result {
	result := Result{ID: record.Request.ID, LineNumber: record.LineNumber}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	report, err := p.analyzer.Execute(ctx, record.Request)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Report = &report
	return result
}
