package storage

import (
	"context"

	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// Storage defines the interface for blog and embedding persistence.
//
// The blogs table is populated by an external ingester; InsertDocument exists
// for the seeder and for tests. Everything else is owned by the indexing
// pipeline and the query engine.
type Storage interface {
	// InsertDocument adds or refreshes a raw blog post in the source table.
	InsertDocument(ctx context.Context, doc types.Document) error

	// PendingDocuments returns blogs that have no embedding row, or whose
	// embedding is null. This is the indexer's work set.
	PendingDocuments(ctx context.Context) ([]types.Document, error)

	// UpsertEmbedding writes a blog snapshot together with its vector,
	// overwriting every non-key column on URL conflict. Each call is its
	// own atomic unit; there is at most one embedding row per URL.
	UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error

	// SimilaritySearch ranks embedded blogs by cosine similarity to the
	// query vector. When opts.Filter is set, rows are first narrowed to
	// those whose title, text, or categories contain the filter as a
	// case-insensitive substring; ranking happens within that subset only.
	SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error)

	// Stats reports embedding table counts.
	Stats(ctx context.Context) (*types.Stats, error)

	Close() error
}
