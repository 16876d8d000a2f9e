package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// Postgres implements Storage using PostgreSQL with pgvector
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a new Postgres storage
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return p, nil
}

func (p *Postgres) initSchema(ctx context.Context) error {
	schema := fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS blogs (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '[]',
			rss_content TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS blogs_embeddings (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '[]',
			rss_content TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ,
			embedding vector(%d)
		);

		CREATE INDEX IF NOT EXISTS idx_blogs_embeddings_vector
		ON blogs_embeddings USING hnsw (embedding vector_cosine_ops);
	`, types.EmbeddingDim)
	_, err := p.pool.Exec(ctx, schema)
	return err
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) InsertDocument(ctx context.Context, doc types.Document) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO blogs (url, title, text, categories, rss_content, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO UPDATE SET
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			categories = EXCLUDED.categories,
			rss_content = EXCLUDED.rss_content,
			date = EXCLUDED.date`,
		doc.URL, doc.Title, doc.Text, doc.Categories, doc.RSSContent, doc.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	return nil
}

func (p *Postgres) PendingDocuments(ctx context.Context) ([]types.Document, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT b.url, b.title, b.text, b.categories, b.rss_content, b.date
		FROM blogs b
		LEFT JOIN blogs_embeddings be ON b.url = be.url
		WHERE be.url IS NULL OR be.embedding IS NULL
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending blogs: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		var d types.Document
		var date *time.Time
		if err := rows.Scan(&d.URL, &d.Title, &d.Text, &d.Categories, &d.RSSContent, &date); err != nil {
			return nil, err
		}
		d.Date = date
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (p *Postgres) UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	_, err := p.pool.Exec(ctx,
		`INSERT INTO blogs_embeddings (url, rss_content, categories, title, text, date, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (url) DO UPDATE SET
			rss_content = EXCLUDED.rss_content,
			categories = EXCLUDED.categories,
			title = EXCLUDED.title,
			text = EXCLUDED.text,
			date = EXCLUDED.date,
			embedding = EXCLUDED.embedding`,
		doc.URL, doc.RSSContent, doc.Categories, doc.Title, doc.Text, doc.Date, vec,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

func (p *Postgres) SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	vec := pgvector.NewVector(embedding)

	var query string
	var args []interface{}
	if opts.Filter != "" {
		// Narrow to rows containing the filter first, then rank that
		// subset. Similarity is never computed over the unfiltered set.
		query = `
			WITH filtered_blogs AS (
				SELECT url, title, text, categories, date,
				       1 - (embedding <=> $1) AS similarity
				FROM blogs_embeddings
				WHERE embedding IS NOT NULL
				AND (title ILIKE $2 OR text ILIKE $2 OR categories ILIKE $2)
			)
			SELECT url, title, text, categories, date, similarity
			FROM filtered_blogs
			ORDER BY similarity DESC
			LIMIT $3
		`
		args = []interface{}{vec, "%" + opts.Filter + "%", limit}
	} else {
		query = `
			SELECT url, title, text, categories, date,
			       1 - (embedding <=> $1) AS similarity
			FROM blogs_embeddings
			WHERE embedding IS NOT NULL
			ORDER BY embedding <=> $1
			LIMIT $2
		`
		args = []interface{}{vec, limit}
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}
	defer rows.Close()

	var results []types.ScoredBlog
	for rows.Next() {
		var b types.ScoredBlog
		var date *time.Time
		if err := rows.Scan(&b.URL, &b.Title, &b.Text, &b.Categories, &date, &b.Similarity); err != nil {
			return nil, err
		}
		b.Date = date
		results = append(results, b)
	}
	return results, rows.Err()
}

func (p *Postgres) Stats(ctx context.Context) (*types.Stats, error) {
	var s types.Stats
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(embedding) FROM blogs_embeddings`,
	).Scan(&s.TotalBlogs, &s.BlogsWithEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &s, nil
}
