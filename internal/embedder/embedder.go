// internal/embedder/embedder.go
package embedder

import "context"

// Embedder generates vector embeddings for text
type Embedder interface {
	// Embed creates a fixed-dimension embedding for the given text
	Embed(ctx context.Context, text string) ([]float32, error)
}
