//go:build cgo

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// SQLite implements Storage using SQLite with sqlite-vec
type SQLite struct {
	conn *sql.DB
}

// NewSQLite creates a new SQLite storage
func NewSQLite(path string) (*SQLite, error) {
	sqlite_vec.Auto()

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLite{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLite) initSchema() error {
	// Vectors are stored as JSON text; sqlite-vec's distance functions
	// accept JSON-encoded vectors directly.
	schema := `
		CREATE TABLE IF NOT EXISTS blogs (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '[]',
			rss_content TEXT NOT NULL DEFAULT '',
			date TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS blogs_embeddings (
			url TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			categories TEXT NOT NULL DEFAULT '[]',
			rss_content TEXT NOT NULL DEFAULT '',
			date TIMESTAMP,
			embedding TEXT
		);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

func (s *SQLite) InsertDocument(ctx context.Context, doc types.Document) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO blogs (url, title, text, categories, rss_content, date)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			text = excluded.text,
			categories = excluded.categories,
			rss_content = excluded.rss_content,
			date = excluded.date`,
		doc.URL, doc.Title, doc.Text, doc.Categories, doc.RSSContent, doc.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert blog: %w", err)
	}
	return nil
}

func (s *SQLite) PendingDocuments(ctx context.Context) ([]types.Document, error) {
	rows, err := s.conn.QueryContext(ctx, `
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
		var date sql.NullTime
		if err := rows.Scan(&d.URL, &d.Title, &d.Text, &d.Categories, &d.RSSContent, &date); err != nil {
			return nil, err
		}
		if date.Valid {
			t := date.Time
			d.Date = &t
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLite) UpsertEmbedding(ctx context.Context, doc types.Document, embedding []float32) error {
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO blogs_embeddings (url, rss_content, categories, title, text, date, embedding)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET
			rss_content = excluded.rss_content,
			categories = excluded.categories,
			title = excluded.title,
			text = excluded.text,
			date = excluded.date,
			embedding = excluded.embedding`,
		doc.URL, doc.RSSContent, doc.Categories, doc.Title, doc.Text, doc.Date, string(embeddingJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

func (s *SQLite) SimilaritySearch(ctx context.Context, embedding []float32, opts types.SearchOpts) ([]types.ScoredBlog, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding: %w", err)
	}

	query := `
		SELECT url, title, text, categories, date,
		       1 - vec_distance_cosine(embedding, ?) AS similarity
		FROM blogs_embeddings
		WHERE embedding IS NOT NULL
	`
	args := []interface{}{string(embeddingJSON)}

	if opts.Filter != "" {
		// SQLite LIKE is case-insensitive for ASCII, matching ILIKE.
		query += " AND (title LIKE ? OR text LIKE ? OR categories LIKE ?)"
		pattern := "%" + opts.Filter + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY similarity DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}
	defer rows.Close()

	var results []types.ScoredBlog
	for rows.Next() {
		var b types.ScoredBlog
		var date sql.NullTime
		if err := rows.Scan(&b.URL, &b.Title, &b.Text, &b.Categories, &date, &b.Similarity); err != nil {
			return nil, err
		}
		if date.Valid {
			t := date.Time
			b.Date = &t
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

func (s *SQLite) Stats(ctx context.Context) (*types.Stats, error) {
	var st types.Stats
	err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(embedding) FROM blogs_embeddings`,
	).Scan(&st.TotalBlogs, &st.BlogsWithEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &st, nil
}
