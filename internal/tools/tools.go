// internal/tools/tools.go
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// Handler holds dependencies for tool handlers
type Handler struct {
	engine *search.Engine
	store  storage.Storage
}

// SearchInput defines the input schema for codex_search
type SearchInput struct {
	Query     string `json:"query" jsonschema:"required" jsonschema_description:"Natural-language search query; may mention an MBTI code or enneagram type to filter results"`
	Limit     int    `json:"limit,omitempty" jsonschema_description:"Maximum number of results, 1-20 (default: 10)"`
	Summaries bool   `json:"summaries,omitempty" jsonschema_description:"Generate a short summary per result (slower)"`
}

// SearchOutput defines the output schema for codex_search
type SearchOutput struct {
	Filter  string          `json:"filter,omitempty"`
	Results []search.Result `json:"results"`
}

// StatsInput defines the input schema for codex_stats
type StatsInput struct{}

// StatsOutput defines the output schema for codex_stats
type StatsOutput struct {
	Stats *types.Stats `json:"stats"`
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// Register adds the blog search tools to the MCP server
func Register(server *mcp.Server, engine *search.Engine, store storage.Storage) {
	h := &Handler{engine: engine, store: store}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "codex_search",
		Description: "Search blog posts by semantic similarity, with automatic personality-type filtering",
	}, h.Search)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "codex_stats",
		Description: "Report how many blog posts are indexed and embedded",
	}, h.Stats)
}

func (h *Handler) Search(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), SearchOutput{}, nil
	}

	resp, err := h.engine.Search(ctx, input.Query, input.Limit, input.Summaries)
	if err != nil {
		var noMatch *types.NoMatchError
		switch {
		case errors.Is(err, types.ErrNoEmbeddings):
			return errorResult(err.Error()), SearchOutput{}, nil
		case errors.As(err, &noMatch):
			return textResult(noMatch.Error()), SearchOutput{Results: []search.Result{}}, nil
		default:
			return errorResult(fmt.Sprintf("failed to search: %v", err)), SearchOutput{}, nil
		}
	}

	out := SearchOutput{Filter: resp.Filter, Results: resp.Results}

	result, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("failed to format response: %v", err)), SearchOutput{}, nil
	}
	return textResult(string(result)), out, nil
}

func (h *Handler) Stats(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := h.store.Stats(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to read stats: %v", err)), StatsOutput{}, nil
	}

	return textResult(fmt.Sprintf("%d blogs indexed, %d with embeddings",
		stats.TotalBlogs, stats.BlogsWithEmbeddings)), StatsOutput{Stats: stats}, nil
}
