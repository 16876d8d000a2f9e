// internal/search/search.go
// Package search implements the query engine: type-filter detection, query
// embedding, two-stage filter-then-rank retrieval, and optional best-effort
// summarization.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/summarizer"
	"github.com/MereWhiplash/codex-cogitator/internal/typefilter"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

const (
	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 10
	// MaxLimit bounds how many results a single search may return.
	MaxLimit = 20
)

// Result is one ranked search hit
type Result struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Categories []string   `json:"categories,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	Similarity float64    `json:"similarity"`

	// Summary is only set when summaries were requested and generation
	// succeeded. SummaryWarning carries the per-result failure otherwise.
	Summary        string `json:"summary,omitempty"`
	SummaryWarning string `json:"summary_warning,omitempty"`
}

// Response is a completed search
type Response struct {
	// Filter is the active personality type filter, empty when none was
	// detected in the query.
	Filter  string   `json:"filter,omitempty"`
	Results []Result `json:"results"`
}

// Engine executes semantic searches against the embedding store
type Engine struct {
	store      storage.Storage
	embedder   embedder.Embedder
	summarizer summarizer.Summarizer
}

// New creates an Engine. sum may be nil, in which case summary requests are
// silently skipped.
func New(store storage.Storage, emb embedder.Embedder, sum summarizer.Summarizer) *Engine {
	return &Engine{
		store:      store,
		embedder:   emb,
		summarizer: sum,
	}
}

// Search runs the full query pipeline: detect an optional type filter, embed
// the query, retrieve ranked rows, and optionally summarize each result.
//
// An empty embedding store returns types.ErrNoEmbeddings before any provider
// call. An active filter that matches nothing returns *types.NoMatchError.
func (e *Engine) Search(ctx context.Context, query string, limit int, withSummaries bool) (*Response, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read store stats: %w", err)
	}
	if stats.BlogsWithEmbeddings == 0 {
		return nil, types.ErrNoEmbeddings
	}

	filter, hasFilter := typefilter.Detect(query)

	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	opts := types.SearchOpts{Limit: limit}
	if hasFilter {
		opts.Filter = filter.Value
	}

	rows, err := e.store.SimilaritySearch(ctx, embedding, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}

	if hasFilter && len(rows) == 0 {
		return nil, &types.NoMatchError{Filter: filter.Value}
	}

	resp := &Response{Results: make([]Result, 0, len(rows))}
	if hasFilter {
		resp.Filter = filter.Value
	}

	for _, row := range rows {
		r := Result{
			URL:        row.URL,
			Title:      row.Title,
			Text:       row.Text,
			Categories: parseCategories(row.Categories),
			Date:       row.Date,
			Similarity: row.Similarity,
		}

		if withSummaries && e.summarizer != nil && row.Text != "" {
			summary, err := e.summarizer.Summarize(ctx, row.Title, row.Text)
			if err != nil {
				r.SummaryWarning = fmt.Sprintf("could not generate summary: %v", err)
			} else {
				r.Summary = summary
			}
		}

		resp.Results = append(resp.Results, r)
	}

	return resp, nil
}

// parseCategories decodes the serialized category list. Malformed input
// yields no categories rather than an error.
func parseCategories(raw string) []string {
	if raw == "" {
		return nil
	}
	var cats []string
	if err := json.Unmarshal([]byte(raw), &cats); err != nil {
		return nil
	}
	return cats
}
