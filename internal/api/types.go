// internal/api/types.go
package api

import (
	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// SearchRequest is the body of POST /v1/search
type SearchRequest struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit,omitempty"`
	Summaries bool   `json:"summaries,omitempty"`
}

// SearchResponse is the reply to POST /v1/search
type SearchResponse struct {
	Filter  string          `json:"filter,omitempty"`
	Results []search.Result `json:"results"`
}

// StatsResponse is the reply to GET /v1/stats
type StatsResponse struct {
	Stats types.Stats `json:"stats"`
}

// ErrorResponse is the body of any non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the reply to GET /health
type HealthResponse struct {
	Status string `json:"status"`
}
