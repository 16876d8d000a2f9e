// internal/types/types.go
// Package types contains shared data types that have no CGO dependencies.
// This allows packages like the API client to use blog types without pulling in sqlite-vec.
package types

import (
	"errors"
	"fmt"
	"time"
)

// EmbeddingDim is the dimensionality of stored vectors, fixed by the
// embedding model (text-embedding-3-small).
const EmbeddingDim = 1536

// ErrNoEmbeddings is returned when a search is attempted against a store
// that has no embedded blogs yet.
var ErrNoEmbeddings = errors.New("no embeddings available: run the indexer first")

// NoMatchError is returned when an active type filter matched no blogs.
// It is distinct from an empty unfiltered result set.
type NoMatchError struct {
	Filter string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no articles found matching %q", e.Filter)
}

// Document is a raw blog post from the source table, populated by an
// external ingester. URL is the stable unique identifier.
type Document struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Categories string     `json:"categories"` // JSON-serialized list of strings
	RSSContent string     `json:"rss_content,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
}

// ScoredBlog is a blog row retrieved by similarity search. Similarity is
// 1 - cosine_distance as reported by the store; it can be negative and is
// never clamped.
type ScoredBlog struct {
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	Text       string     `json:"text"`
	Categories string     `json:"categories"`
	Date       *time.Time `json:"date,omitempty"`
	Similarity float64    `json:"similarity"`
}

// SearchOpts configures similarity search behavior
type SearchOpts struct {
	Limit  int
	Filter string // optional case-insensitive substring pre-filter
}

// Stats reports the state of the embeddings table
type Stats struct {
	TotalBlogs          int64 `json:"total_blogs"`
	BlogsWithEmbeddings int64 `json:"blogs_with_embeddings"`
}
