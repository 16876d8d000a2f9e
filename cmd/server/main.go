package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MereWhiplash/codex-cogitator/internal/config"
	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/summarizer"
	"github.com/MereWhiplash/codex-cogitator/internal/tools"
)

// version is set by goreleaser via ldflags
var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("codex-server %s\n", version)
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

	ctx := context.Background()

	// Initialize storage
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

	// Create search engine
	engine := search.New(store, emb, sum)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "codex-cogitator",
		Version: version,
	}, nil)

	// Register tools
	tools.Register(server, engine, store)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	// Start server with stdio transport
	log.Println("Starting Codex Cogitator MCP server...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
