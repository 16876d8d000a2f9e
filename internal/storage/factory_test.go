package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/MereWhiplash/codex-cogitator/internal/storage"
)

func TestFactory_UnknownDriver(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Driver: "cassandra"})
	if err == nil {
		t.Fatal("expected error for unknown driver, got nil")
	}
	if !strings.Contains(err.Error(), "cassandra") {
		t.Errorf("expected error to name the driver, got %v", err)
	}
}

func TestFactory_MissingSQLitePath(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Driver: "sqlite"})
	if err == nil {
		t.Error("expected error for missing sqlite path, got nil")
	}
}

func TestFactory_MissingPostgresDSN(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Driver: "postgres"})
	if err == nil {
		t.Error("expected error for missing postgres DSN, got nil")
	}
}

func TestFactory_MissingMongoURI(t *testing.T) {
	_, err := storage.New(context.Background(), storage.Config{Driver: "mongodb"})
	if err == nil {
		t.Error("expected error for missing mongodb URI, got nil")
	}
}
