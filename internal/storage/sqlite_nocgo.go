//go:build !cgo

package storage

import (
	"context"
	"fmt"

	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// SQLite is a stub for non-CGO builds
type SQLite struct{}

var errNoCGO = fmt.Errorf("SQLite storage requires CGO (build with CGO_ENABLED=1)")

// NewSQLite returns an error in non-CGO builds
func NewSQLite(path string) (*SQLite, error) {
	return nil, errNoCGO
}

func (s *SQLite) InsertDocument(ctx context.Context, doc types.Document) error {
	return errNoCGO
}

func (s *SQLite) PendingDocuments(ctx context.Context) ([]types.Document, error) {
	return nil, errNoCGO
}

func (s *SQLite) UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error {
	return errNoCGO
}

func (s *SQLite) SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error) {
	return nil, errNoCGO
}

func (s *SQLite) Stats(ctx context.Context) (*types.Stats, error) {
	return nil, errNoCGO
}

func (s *SQLite) Close() error {
	return nil
}
