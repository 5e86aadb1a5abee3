package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/aggregator"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/fstree"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/trace"
	"github.com/rs/zerolog"
)

const Version = "1.0.0"

// MaxBodyBytes bounds analysis request bodies. Larger bodies are rejected
// with 413.
const MaxBodyBytes = 8 << 20

type Analyzer interface {
	Execute(ctx context.Context, req models.AnalysisRequest) (models.Report, error)
}

type Handler struct {
	analyzer Analyzer
	logger   *zerolog.Logger
}

func NewHandler(analyzer Analyzer, logger *zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// POST /api/v1/analyze
// Body: AnalyzeRequest
// Returns: Report
func (h *Handler) Analyze(req *restful.Request, resp *restful.Response) {
	req.Request.Body = http.MaxBytesReader(resp.ResponseWriter, req.Request.Body, MaxBodyBytes)

	var body AnalyzeRequest
	if err := req.ReadEntity(&body); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, bodyErrorStatus(err))
		return
	}

	h.run(req, resp, models.AnalysisRequest{
		ID:     body.ID,
		Trace:  body.Trace,
		Limits: body.Limits,
	})
}

// POST /api/v1/analyze/raw?capacity=&required=&threshold=
// Body: the trace as text/plain
func (h *Handler) AnalyzeRaw(req *restful.Request, resp *restful.Response) {
	data, err := io.ReadAll(http.MaxBytesReader(resp.ResponseWriter, req.Request.Body, MaxBodyBytes))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to read request body")
		middleware.HandleError(resp, err, bodyErrorStatus(err))
		return
	}

	overrides := &models.LimitsOverride{}
	for param, target := range map[string]**int64{
		"capacity":  &overrides.DiskCapacity,
		"required":  &overrides.RequiredFree,
		"threshold": &overrides.SmallDirThreshold,
	} {
		raw := req.QueryParameter(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			middleware.HandleError(resp, fmt.Errorf("invalid %s %q: %w", param, raw, err), http.StatusBadRequest)
			return
		}
		*target = &value
	}

	h.run(req, resp, models.AnalysisRequest{
		ID:     req.QueryParameter("id"),
		Trace:  string(data),
		Limits: overrides,
	})
}

func (h *Handler) run(req *restful.Request, resp *restful.Response, analysis models.AnalysisRequest) {
	h.logger.Info().
		Str("id", analysis.ID).
		Int("trace_bytes", len(analysis.Trace)).
		Msg("Start analysis")

	report, err := h.analyzer.Execute(req.Request.Context(), analysis)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn().Err(err).Int("status", status).Msg("Analysis failed")
		middleware.HandleError(resp, err, status)
		return
	}

	h.logger.Info().
		Str("id", report.ID).
		Int64("small_dirs_total", report.SmallDirsTotal).
		Int64("delete_candidate", report.DeleteCandidate.Size).
		Msg("Analysis complete")

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
	})
}

// bodyErrorStatus is 413 for bodies over MaxBodyBytes and 400 otherwise.
func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// statusFor maps analysis failures caused by the input to 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, trace.ErrEmptyLine),
		errors.Is(err, trace.ErrMalformedLine),
		errors.Is(err, trace.ErrInvalidSize),
		errors.Is(err, fstree.ErrEmptyTrace),
		errors.Is(err, fstree.ErrMissingRoot),
		errors.Is(err, fstree.ErrDirectoryNotFound),
		errors.Is(err, aggregator.ErrNoCandidate),
		errors.Is(err, models.ErrInvalidLimits):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
