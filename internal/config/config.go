// internal/config/config.go
// Package config loads the shared YAML configuration used by all binaries.
// Secrets (the OpenAI API key) never live in the file; they come from the
// environment, optionally via a .env file loaded in main.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// StorageConfig selects and configures the storage driver.
type StorageConfig struct {
	Driver          string `yaml:"driver"`
	SQLitePath      string `yaml:"sqlite_path"`
	PostgresDSN     string `yaml:"postgres_dsn"`
	MongoDBURI      string `yaml:"mongodb_uri"`
	MongoDBDatabase string `yaml:"mongodb_database"`
}

// OpenAIConfig configures the embedding and completion providers.
type OpenAIConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env"`
	EmbeddingModel  string `yaml:"embedding_model"`
	CompletionModel string `yaml:"completion_model"`
}

// IndexerConfig tunes the embedding pipeline.
type IndexerConfig struct {
	MaxChars int `yaml:"max_chars"`
	DelayMS  int `yaml:"delay_ms"`
}

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Indexer IndexerConfig `yaml:"indexer"`
}

// Load reads config from path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: ".codex/blogs.db",
		},
		OpenAI: OpenAIConfig{
			BaseURL:         "https://api.openai.com/v1",
			APIKeyEnv:       "OPENAI_API_KEY",
			EmbeddingModel:  "text-embedding-3-small",
			CompletionModel: "gpt-4o-mini",
		},
		Indexer: IndexerConfig{
			MaxChars: 8000,
			DelayMS:  200,
		},
	}
}

// APIKey resolves the provider API key from the configured env var.
func (c *Config) APIKey() string {
	return os.Getenv(c.OpenAI.APIKeyEnv)
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = def.Storage.Driver
	}
	if cfg.OpenAI.BaseURL == "" {
		cfg.OpenAI.BaseURL = def.OpenAI.BaseURL
	}
	if cfg.OpenAI.APIKeyEnv == "" {
		cfg.OpenAI.APIKeyEnv = def.OpenAI.APIKeyEnv
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = def.OpenAI.EmbeddingModel
	}
	if cfg.OpenAI.CompletionModel == "" {
		cfg.OpenAI.CompletionModel = def.OpenAI.CompletionModel
	}
	if cfg.Indexer.MaxChars == 0 {
		cfg.Indexer.MaxChars = def.Indexer.MaxChars
	}
	if cfg.Indexer.DelayMS == 0 {
		cfg.Indexer.DelayMS = def.Indexer.DelayMS
	}
}
