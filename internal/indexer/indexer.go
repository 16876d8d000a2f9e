// internal/indexer/indexer.go
// Package indexer implements the batch embedding pipeline: it finds blogs
// without a stored embedding, embeds them one at a time, and upserts the
// result. Every upsert is its own atomic unit, so an interrupted run can
// simply be re-run.
package indexer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

const (
	// DefaultMaxChars is the hard cutoff on title+body text sent to the
	// embedding provider, respecting its input limits.
	DefaultMaxChars = 8000

	// DefaultDelay is the pause between successful provider calls, as
	// rate-limit courtesy.
	DefaultDelay = 200 * time.Millisecond
)

// Summary reports the outcome of a pipeline run
type Summary struct {
	Successful int
	Failed     int
	Total      int
}

// Pipeline embeds pending blogs and persists the results
type Pipeline struct {
	store    storage.Storage
	embedder embedder.Embedder

	// MaxChars caps the text submitted per embedding call.
	MaxChars int
	// Delay is slept between successful items; no delay after the last.
	Delay time.Duration
	// Out receives progress lines.
	Out io.Writer
}

// New creates a Pipeline with default limits
func New(store storage.Storage, emb embedder.Embedder) *Pipeline {
	return &Pipeline{
		store:    store,
		embedder: emb,
		MaxChars: DefaultMaxChars,
		Delay:    DefaultDelay,
		Out:      os.Stdout,
	}
}

// Run processes the current work set sequentially. A per-item failure is
// counted and logged but never aborts the batch; only failure to read the
// work set itself is fatal. Cancelling the context stops the run after the
// item in flight.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	docs, err := p.store.PendingDocuments(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load pending blogs: %w", err)
	}

	sum := Summary{Total: len(docs)}
	if sum.Total == 0 {
		fmt.Fprintln(p.Out, "All blogs already have embeddings")
		return sum, nil
	}

	fmt.Fprintf(p.Out, "Found %d blogs needing embeddings\n", sum.Total)

	for i, doc := range docs {
		if ctx.Err() != nil {
			break
		}

		fmt.Fprintf(p.Out, "[%d/%d] %s\n", i+1, sum.Total, truncate(doc.Title, 60))

		embedding, err := p.embedder.Embed(ctx, p.textToEmbed(doc))
		if err != nil {
			sum.Failed++
			fmt.Fprintf(p.Out, "  failed (%s): %v\n", doc.URL, err)
			continue
		}

		if err := p.store.UpsertEmbedding(ctx, doc, embedding); err != nil {
			sum.Failed++
			fmt.Fprintf(p.Out, "  failed (%s): %v\n", doc.URL, err)
			continue
		}

		sum.Successful++
		fmt.Fprintln(p.Out, "  ok")

		if i < sum.Total-1 && p.Delay > 0 {
			time.Sleep(p.Delay)
		}
	}

	return sum, nil
}

// textToEmbed concatenates title and body with a hard character cutoff.
// Truncation is byte-positional, not word-aware.
func (p *Pipeline) textToEmbed(doc types.Document) string {
	text := doc.Title + "\n\n" + doc.Text
	if len(text) > p.MaxChars {
		text = text[:p.MaxChars]
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
