package embedder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAI_Embed(t *testing.T) {
	var receivedAuth string
	var receivedModel string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		receivedAuth = r.Header.Get("Authorization")

		var req embeddingRequest
		json.NewDecoder(r.Body).Decode(&req)
		receivedModel = req.Model

		resp := embeddingResponse{}
		resp.Data = append(resp.Data, struct {
			Embedding []float32 `json:"embedding"`
		}{Embedding: make([]float32, 1536)})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewOpenAI(server.URL, "sk-test", "")
	emb, err := client.Embed(context.Background(), "test content")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(emb) != 1536 {
		t.Errorf("expected 1536 dimensions, got %d", len(emb))
	}
	if receivedAuth != "Bearer sk-test" {
		t.Errorf("unexpected auth header: %q", receivedAuth)
	}
	if receivedModel != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, receivedModel)
	}
}

func TestOpenAI_Embed_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewOpenAI(server.URL, "sk-test", "")
	_, err := client.Embed(context.Background(), "test content")
	if err == nil {
		t.Fatal("expected error for 429 response, got nil")
	}
}

func TestOpenAI_Embed_EmptyData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embeddingResponse{})
	}))
	defer server.Close()

	client := NewOpenAI(server.URL, "sk-test", "")
	_, err := client.Embed(context.Background(), "test content")
	if err == nil {
		t.Fatal("expected error for empty data, got nil")
	}
}
