package api

import "github.com/povarna/generative-ai-agents/fs-agent/internal/models"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// AnalyzeRequest is the body of POST /api/v1/analyze
type AnalyzeRequest struct {
	ID     string                 `json:"id,omitempty" description:"optional request identifier"`
	Trace  string                 `json:"trace" description:"newline separated shell session"`
	Limits *models.LimitsOverride `json:"limits,omitempty" description:"optional limit overrides"`
}
