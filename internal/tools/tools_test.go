package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// mockEmbedder implements embedder.Embedder for testing
type mockEmbedder struct{}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return make([]float32, types.EmbeddingDim), nil
}

// mockStorage implements storage.Storage for testing
type mockStorage struct {
	blogs []types.ScoredBlog
	stats types.Stats
}

func (m *mockStorage) InsertDocument(ctx context.Context, doc types.Document) error { return nil }

func (m *mockStorage) PendingDocuments(ctx context.Context) ([]types.Document, error) {
	return nil, nil
}

func (m *mockStorage) UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error {
	return nil
}

func (m *mockStorage) SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error) {
	var out []types.ScoredBlog
	for _, b := range m.blogs {
		if opts.Filter != "" && !strings.Contains(strings.ToLower(b.Categories), strings.ToLower(opts.Filter)) {
			continue
		}
		out = append(out, b)
		if len(out) == opts.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockStorage) Stats(ctx context.Context) (*types.Stats, error) {
	s := m.stats
	return &s, nil
}

func (m *mockStorage) Close() error { return nil }

func newTestHandler(store *mockStorage) *Handler {
	engine := search.New(store, &mockEmbedder{}, nil)
	return &Handler{engine: engine, store: store}
}

func toolText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestSearch_Success(t *testing.T) {
	store := &mockStorage{
		stats: types.Stats{TotalBlogs: 2, BlogsWithEmbeddings: 2},
		blogs: []types.ScoredBlog{
			{URL: "https://example.com/a", Title: "Article A", Text: "body", Categories: `["Personality"]`, Similarity: 0.9},
			{URL: "https://example.com/b", Title: "Article B", Text: "body", Categories: `["Careers"]`, Similarity: 0.5},
		},
	}
	h := newTestHandler(store)

	res, out, err := h.Search(context.Background(), &mcp.CallToolRequest{}, SearchInput{Query: "stress relief"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %s", toolText(t, res))
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
	if out.Results[0].URL != "https://example.com/a" {
		t.Errorf("expected highest similarity first, got %q", out.Results[0].URL)
	}
	if !strings.Contains(toolText(t, res), "example.com/a") {
		t.Error("expected text content to include the result URL")
	}
}

func TestSearch_QueryRequired(t *testing.T) {
	h := newTestHandler(&mockStorage{})

	res, _, err := h.Search(context.Background(), &mcp.CallToolRequest{}, SearchInput{})
	if err != nil {
		t.Fatalf("Search returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result for empty query")
	}
}

func TestSearch_NoEmbeddings(t *testing.T) {
	store := &mockStorage{stats: types.Stats{TotalBlogs: 5, BlogsWithEmbeddings: 0}}
	h := newTestHandler(store)

	res, _, err := h.Search(context.Background(), &mcp.CallToolRequest{}, SearchInput{Query: "anything"})
	if err != nil {
		t.Fatalf("Search returned protocol error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result when no embeddings exist")
	}
	if !strings.Contains(toolText(t, res), "run the indexer") {
		t.Errorf("expected guidance to run the indexer, got %q", toolText(t, res))
	}
}

func TestSearch_FilterNoMatchIsNotAnError(t *testing.T) {
	// A detected type filter that matches nothing is a normal outcome for the
	// model to relay, not a tool failure.
	store := &mockStorage{
		stats: types.Stats{TotalBlogs: 1, BlogsWithEmbeddings: 1},
		blogs: []types.ScoredBlog{
			{URL: "https://example.com/a", Title: "Article A", Categories: `["Careers"]`, Similarity: 0.9},
		},
	}
	h := newTestHandler(store)

	res, out, err := h.Search(context.Background(), &mcp.CallToolRequest{}, SearchInput{Query: "INTJ leadership styles"})
	if err != nil {
		t.Fatalf("Search returned protocol error: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected non-error result, got: %s", toolText(t, res))
	}
	if !strings.Contains(toolText(t, res), "INTJ") {
		t.Errorf("expected message to name the filter, got %q", toolText(t, res))
	}
	if len(out.Results) != 0 {
		t.Errorf("expected empty results, got %d", len(out.Results))
	}
}

func TestStats(t *testing.T) {
	store := &mockStorage{stats: types.Stats{TotalBlogs: 42, BlogsWithEmbeddings: 40}}
	h := newTestHandler(store)

	res, out, err := h.Stats(context.Background(), &mcp.CallToolRequest{}, StatsInput{})
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("expected success, got error result: %s", toolText(t, res))
	}
	if out.Stats.TotalBlogs != 42 || out.Stats.BlogsWithEmbeddings != 40 {
		t.Errorf("unexpected stats: %+v", out.Stats)
	}
	if !strings.Contains(toolText(t, res), "42 blogs indexed") {
		t.Errorf("unexpected text content: %q", toolText(t, res))
	}
}

func TestRegister(t *testing.T) {
	store := &mockStorage{}
	engine := search.New(store, &mockEmbedder{}, nil)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "test-server",
		Version: "0.0.1",
	}, nil)

	// Registration must not panic; duplicate names would.
	Register(server, engine, store)
}
