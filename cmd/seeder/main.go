// cmd/seeder/main.go
//
// Loads a JSON export of blog posts into the blogs table. Re-running with an
// updated export refreshes existing rows; the indexer then fills in whatever
// embeddings are missing.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MereWhiplash/codex-cogitator/internal/config"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// seedBlog is one entry in the export file
type seedBlog struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	Categories []string `json:"categories"`
	RSSContent string   `json:"rss_content"`
	Date       string   `json:"date"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	file := flag.String("file", "", "Path to JSON array of blog posts")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: codex-seeder -file <blogs.json>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	blogs, err := loadBlogs(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	ctx := context.Background()
	store, err := storage.New(ctx, storage.Config{
		Driver:          cfg.Storage.Driver,
		SQLitePath:      cfg.Storage.SQLitePath,
		PostgresDSN:     cfg.Storage.PostgresDSN,
		MongoDBURI:      cfg.Storage.MongoDBURI,
		MongoDBDatabase: cfg.Storage.MongoDBDatabase,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	inserted := 0
	for _, b := range blogs {
		doc, err := toDocument(b)
		if err != nil {
			log.Printf("Skipping %s: %v", b.URL, err)
			continue
		}
		if err := store.InsertDocument(ctx, doc); err != nil {
			log.Printf("Failed to insert %s: %v", b.URL, err)
			continue
		}
		inserted++
	}

	fmt.Printf("Inserted %d of %d blogs\n", inserted, len(blogs))
}

func loadBlogs(path string) ([]seedBlog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var blogs []seedBlog
	if err := json.Unmarshal(data, &blogs); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return blogs, nil
}

func toDocument(b seedBlog) (types.Document, error) {
	if b.URL == "" {
		return types.Document{}, fmt.Errorf("missing url")
	}

	cats, err := json.Marshal(b.Categories)
	if err != nil {
		return types.Document{}, fmt.Errorf("failed to encode categories: %w", err)
	}

	doc := types.Document{
		URL:        b.URL,
		Title:      b.Title,
		Text:       b.Text,
		Categories: string(cats),
		RSSContent: b.RSSContent,
	}

	if b.Date != "" {
		d, err := parseDate(b.Date)
		if err != nil {
			return types.Document{}, err
		}
		doc.Date = &d
	}
	return doc, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
