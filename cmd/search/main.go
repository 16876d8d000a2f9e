// cmd/search/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MereWhiplash/codex-cogitator/internal/client"
	"github.com/MereWhiplash/codex-cogitator/internal/config"
	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/summarizer"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	limit := flag.Int("limit", 10, "Number of results (1-20)")
	summaries := flag.Bool("summaries", false, "Generate per-result summaries")
	apiURL := flag.String("api-url", "", "Search via a running API server instead of the database")
	flag.Parse()

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: codex-search [flags] <query>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx := context.Background()

	if *apiURL != "" {
		c := client.New(*apiURL)
		resp, err := c.Search(ctx, query, *limit, *summaries)
		if err != nil {
			log.Fatalf("Search failed: %v", err)
		}
		render(resp.Filter, resp.Results)
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.APIKey() == "" {
		log.Fatalf("Missing API key: set %s", cfg.OpenAI.APIKeyEnv)
	}

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

	emb := embedder.NewOpenAI(cfg.OpenAI.BaseURL, cfg.APIKey(), cfg.OpenAI.EmbeddingModel)
	sum := summarizer.NewOpenAI(cfg.OpenAI.BaseURL, cfg.APIKey(), cfg.OpenAI.CompletionModel)

	engine := search.New(store, emb, sum)
	resp, err := engine.Search(ctx, query, *limit, *summaries)
	if err != nil {
		var noMatch *types.NoMatchError
		switch {
		case errors.Is(err, types.ErrNoEmbeddings):
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		case errors.As(err, &noMatch):
			fmt.Println(noMatch.Error() + ". Try a different search.")
			return
		default:
			log.Fatalf("Search failed: %v", err)
		}
	}

	render(resp.Filter, resp.Results)
}

func render(filter string, results []search.Result) {
	if filter != "" {
		fmt.Printf("Filtering results to include %q content\n\n", filter)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}

	fmt.Printf("Found %d most similar articles\n\n", len(results))
	for i, r := range results {
		fmt.Printf("%d. %s\n", i+1, r.Title)
		fmt.Printf("   Similarity: %.1f%%\n", r.Similarity*100)
		fmt.Printf("   %s\n", r.URL)
		if len(r.Categories) > 0 {
			fmt.Printf("   Categories: %s\n", strings.Join(r.Categories, ", "))
		}
		if r.Date != nil {
			fmt.Printf("   Date: %s\n", r.Date.Format("2006-01-02"))
		}
		if r.Summary != "" {
			fmt.Printf("   Summary: %s\n", r.Summary)
		}
		if r.SummaryWarning != "" {
			fmt.Printf("   Warning: %s\n", r.SummaryWarning)
		}
		fmt.Println()
	}
}
