// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MereWhiplash/codex-cogitator/internal/search"
	"github.com/MereWhiplash/codex-cogitator/internal/storage"
	"github.com/MereWhiplash/codex-cogitator/internal/types"
)

// Handlers holds HTTP handler dependencies
type Handlers struct {
	engine      *search.Engine
	store       storage.Storage
	healthCheck func() error
}

// NewHandlers creates new API handlers
func NewHandlers(engine *search.Engine, store storage.Storage) *Handlers {
	return &Handlers{engine: engine, store: store}
}

// SetHealthCheck sets a connectivity check run by the health endpoint
func (h *Handlers) SetHealthCheck(check func() error) {
	h.healthCheck = check
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, ErrorResponse{Error: msg})
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.healthCheck != nil {
		if err := h.healthCheck(); err != nil {
			h.respondError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	h.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Search handles POST /v1/search
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		h.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := h.engine.Search(r.Context(), req.Query, req.Limit, req.Summaries)
	if err != nil {
		var noMatch *types.NoMatchError
		switch {
		case errors.Is(err, types.ErrNoEmbeddings):
			h.respondError(w, http.StatusPreconditionFailed, err.Error())
		case errors.As(err, &noMatch):
			h.respondError(w, http.StatusNotFound, noMatch.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, SearchResponse{
		Filter:  resp.Filter,
		Results: resp.Results,
	})
}

// Stats handles GET /v1/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}
	h.respondJSON(w, http.StatusOK, StatsResponse{Stats: *stats})
}
