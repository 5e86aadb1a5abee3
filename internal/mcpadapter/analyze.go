package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/fs-agent/internal/models"
)

const ToolName = "analyze_trace"

type Analyzer interface {
	Execute(ctx context.Context, req models.AnalysisRequest) (models.Report, error)
}

// AnalyzeInput is the MCP tool input schema (matches HTTP API field names).
type AnalyzeInput struct {
	EventID           string `json:"event_id,omitempty" jsonschema:"optional request identifier"`
	Trace             string `json:"trace" jsonschema:"shell session made of $ cd, $ ls, dir <name> and <size> <name> lines, starting with $ cd /"`
	DiskCapacity      *int64 `json:"disk_capacity,omitempty" jsonschema:"total disk capacity, default 70000000"`
	RequiredFree      *int64 `json:"required_free,omitempty" jsonschema:"free space the update needs, default 30000000"`
	SmallDirThreshold *int64 `json:"small_dir_threshold,omitempty" jsonschema:"upper bound for the small directory sum, default 100000"`
}

// NewAnalyzeHandler returns a tool handler that uses the given analyzer.
// Pass the returned function to mcp.AddTool.
func NewAnalyzeHandler(analyzer Analyzer) func(context.Context, *mcp.CallToolRequest, AnalyzeInput) (*mcp.CallToolResult, models.Report, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, models.Report, error) {
		return AnalyzeTrace(ctx, analyzer, req, input)
	}
}

// AnalyzeTrace runs the analysis and returns the report as structured output.
// Analysis errors are reported to the client as tool errors.
func AnalyzeTrace(
	ctx context.Context,
	analyzer Analyzer,
	req *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, models.Report, error) {
	report, err := analyzer.Execute(ctx, models.AnalysisRequest{
		ID:    input.EventID,
		Trace: input.Trace,
		Limits: &models.LimitsOverride{
			DiskCapacity:      input.DiskCapacity,
			RequiredFree:      input.RequiredFree,
			SmallDirThreshold: input.SmallDirThreshold,
		},
	})
	if err != nil {
		return nil, models.Report{}, err
	}

	return nil, report, nil
}

// NewServer returns an MCP server exposing the analyze_trace tool.
func NewServer(analyzer Analyzer, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fs-agent",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Rebuild the directory tree of a recorded shell session and report directory sizes: the sum of directories at most the small directory threshold, and the smallest directory whose deletion frees enough space.",
	}, NewAnalyzeHandler(analyzer))

	return server
}
