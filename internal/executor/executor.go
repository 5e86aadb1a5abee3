package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/povarna/generative-ai-agents/fs-agent/internal/fstree"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/trace"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=executor.go -destination=mocks/mocks.go -package=mocks

// TreeBuilder reconstructs the directory tree from trace lines
type TreeBuilder interface {
	Build(lines []string) (*fstree.Tree, error)
}

// Aggregator turns the flat size sequence into the final report
type Aggregator interface {
	Aggregate(id string, limits models.Limits, rootSize int64, sizes []models.DirSize) (models.Report, error)
}

// ReportCache stores reports by digest. A miss is (Report{}, false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string) (models.Report, bool, error)
	Set(ctx context.Context, key string, report models.Report) error
}

type Executor struct {
	builder    TreeBuilder
	aggregator Aggregator
	cache      ReportCache
	limits     models.Limits
	logger     *zerolog.Logger
}

func NewExecutor(
	builder TreeBuilder,
	aggregator Aggregator,
	cache ReportCache,
	limits models.Limits,
	logger *zerolog.Logger,
) *Executor {
	return &Executor{
		builder:    builder,
		aggregator: aggregator,
		cache:      cache,
		limits:     limits,
		logger:     logger,
	}
}

// Limits returns the limits used when a request carries no override.
func (e *Executor) Limits() models.Limits {
	return e.limits
}

func (e *Executor) Execute(ctx context.Context, req models.AnalysisRequest) (models.Report, error) {
	if err := ctx.Err(); err != nil {
		return models.Report{}, err
	}

	limits := req.Limits.Apply(e.limits)
	key := Digest(req.Trace, limits)

	id := req.ID
	if id == "" {
		id = "trace-" + key[:12]
	}
	e.logger.Info().Str("requestID", id).Msg("starting analysis")

	cached, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn().Err(err).Str("requestID", id).Msg("report cache lookup failed")
	} else if ok {
		e.logger.Info().Str("requestID", id).Msg("report served from cache")
		cached.ID = id
		return cached, nil
	}

	tree, err := e.builder.Build(trace.SplitLines(req.Trace))
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to build directory tree: %w", err)
	}

	report, err := e.aggregator.Aggregate(id, limits, tree.RootSize(), tree.Sizes())
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to aggregate directory sizes: %w", err)
	}

	if err := e.cache.Set(ctx, key, report); err != nil {
		e.logger.Warn().Err(err).Str("requestID", id).Msg("failed to cache report")
	}

	e.logger.
		Info().
		Str("requestID", id).
		Int64("small_dirs_total", report.SmallDirsTotal).
		Int64("delete_candidate", report.DeleteCandidate.Size).
		Msg("analysis complete")
	return report, nil
}

// Digest identifies a trace analysed under the given limits.
func Digest(traceText string, limits models.Limits) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:%d\n", limits.DiskCapacity, limits.RequiredFree, limits.SmallDirThreshold)
	h.Write([]byte(traceText))
	return hex.EncodeToString(h.Sum(nil))
}
