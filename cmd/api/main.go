// cmd/api/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/MereWhiplash/codex-cogitator/internal/api"
	"github.com/MereWhiplash/codex-cogitator/internal/config"
	"github.com/MereWhiplash/codex-cogitator/internal/embedder"
	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/summarizer"
)

func main() {
	// Server flags
	addr := flag.String("addr", ":8080", "Server address")
	configPath := flag.String("config", "config.yaml", "Path to config file")

	// Rate limiting flags
	rateLimit := flag.Int("rate-limit", 100, "Requests per minute per IP (0 to disable)")

	// CORS flags
	corsOrigins := flag.String("cors-origins", "", "Comma-separated list of allowed CORS origins (empty to disable)")

	// Migrate flag
	migrateOnly := flag.Bool("migrate", false, "Run migrations and exit")

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
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

	// If migrate-only, exit now
	if *migrateOnly {
		log.Println("Migrations complete")
		return
	}

	if cfg.APIKey() == "" {
		log.Fatalf("Missing API key: set %s", cfg.OpenAI.APIKeyEnv)
	}

	emb := embedder.NewOpenAI(cfg.OpenAI.BaseURL, cfg.APIKey(), cfg.OpenAI.EmbeddingModel)
	sum := summarizer.NewOpenAI(cfg.OpenAI.BaseURL, cfg.APIKey(), cfg.OpenAI.CompletionModel)

	// Create search engine
	engine := search.New(store, emb, sum)

	// Create handlers
	handlers := api.NewHandlers(engine, store)

	// Set health check to verify storage connectivity
	handlers.SetHealthCheck(func() error {
		_, err := store.Stats(context.Background())
		return err
	})

	// Setup router
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(api.RequestID)
	r.Use(api.MaxBodySize)

	// Rate limiting (if enabled)
	if *rateLimit > 0 {
		limiter := api.NewRateLimiter(*rateLimit, time.Minute)
		r.Use(limiter.Middleware)
	}

	// CORS (if enabled)
	if *corsOrigins != "" {
		origins := strings.Split(*corsOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		r.Use(api.CORSMiddleware(origins))
	}

	// Routes
	r.Get("/health", handlers.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", handlers.Search)
		r.Get("/stats", handlers.Stats)
	})

	// Create server
	srv := &http.Server{
		Addr:         *addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}

		close(done)
	}()

	// Start server
	log.Printf("Starting API server on %s", *addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	<-done
	fmt.Println("Server stopped")
}
