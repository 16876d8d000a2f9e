// cmd/indexer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MereWhiplash/codex-cogitator/internal/config"
	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/indexer"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("codex-indexer %s\n", version)
		return
	}

	// Load .env if present; real env always wins
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey() == "" {
		log.Fatalf("Missing API key: set %s", cfg.OpenAI.APIKeyEnv)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop after the current item on SIGINT/SIGTERM; committed upserts stay valid
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Interrupted, finishing current item...")
		cancel()
	}()

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

	pipeline := indexer.New(store, emb)
	pipeline.MaxChars = cfg.Indexer.MaxChars
	pipeline.Delay = time.Duration(cfg.Indexer.DelayMS) * time.Millisecond

	fmt.Println("Batch embeddings generation")
	fmt.Printf("Started at: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	sum, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	fmt.Println("\nSummary")
	fmt.Printf("Successful: %d\n", sum.Successful)
	fmt.Printf("Failed: %d\n", sum.Failed)
	fmt.Printf("Total: %d\n", sum.Total)
	fmt.Printf("Completed at: %s\n", time.Now().Format("2006-01-02 15:04:05"))
}
