package storage

import (
	"context"
	"fmt"
)

// Config selects a driver for the blog index and carries its connection
// settings. Exactly one driver's settings are consulted.
type Config struct {
	Driver string // "sqlite", "postgres", "mongodb"

	// SQLite: local single-file index
	SQLitePath string

	// Postgres: shared index with pgvector
	PostgresDSN string

	// MongoDB: Atlas with a vector search index
	MongoDBURI      string
	MongoDBDatabase string
}

// New opens the blog store for the configured driver. The SQL drivers create
// their schema on first connect; MongoDB needs its Atlas vector index set up
// out of band.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "sqlite":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite driver requires a database path")
		}
		return NewSQLite(cfg.SQLitePath)

	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres driver requires a DSN")
		}
		return NewPostgres(ctx, cfg.PostgresDSN)

	case "mongodb":
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("mongodb driver requires a connection URI")
		}
		if cfg.MongoDBDatabase == "" {
			cfg.MongoDBDatabase = "codex"
		}
		return NewMongoDB(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}
