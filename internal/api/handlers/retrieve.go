package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vendo-labs/vendoai/internal/api"
	"github.com/vendo-labs/vendoai/internal/api/middleware"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/service"
)

type RetrievalServiceInterface interface {
	Retrieve(ctx context.Context, input service.RetrieveInput) (*domain.RetrievalResult, error)
}

type RetrieveHandler struct {
	svc RetrievalServiceInterface
}

func NewRetrieveHandler(svc RetrievalServiceInterface) *RetrieveHandler {
	return &RetrieveHandler{svc: svc}
}

type RetrieveRequest struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	SKU      string `json:"sku,omitempty"`
}

type ChunkResponse struct {
	ID          string  `json:"id"`
	SourceType  string  `json:"source_type"`
	SourceID    string  `json:"source_id"`
	DisplayName string  `json:"display_name"`
	ChunkKind   string  `json:"chunk_kind,omitempty"`
	Text        string  `json:"text"`
	Similarity  float64 `json:"similarity"`
}

type RetrieveResponse struct {
	Chunks               []*ChunkResponse `json:"chunks"`
	Context              string           `json:"context"`
	UsedDocFallback      bool             `json:"used_doc_fallback"`
	TopProductSimilarity float64          `json:"top_product_similarity"`
	TopDocSimilarity     float64          `json:"top_doc_similarity,omitempty"`
}

func chunkToResponse(c *domain.Chunk) *ChunkResponse {
	return &ChunkResponse{
		ID:          c.ID,
		SourceType:  string(c.SourceType),
		SourceID:    c.SourceID,
		DisplayName: c.DisplayName(),
		ChunkKind:   c.ChunkKind(),
		Text:        c.ChunkText,
		Similarity:  c.Similarity,
	}
}

// Retrieve handles POST /retrieve
func (h *RetrieveHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Query == "" {
		api.Error(w, http.StatusBadRequest, "query is required")
		return
	}

	result, err := h.svc.Retrieve(r.Context(), service.RetrieveInput{
		TenantID: tenantID,
		Query:    req.Query,
		Filters: service.RetrievalFilters{
			Category: req.Category,
			SKU:      req.SKU,
		},
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	chunks := make([]*ChunkResponse, len(result.Chunks))
	for i, c := range result.Chunks {
		chunks[i] = chunkToResponse(c)
	}

	api.Success(w, http.StatusOK, RetrieveResponse{
		Chunks:               chunks,
		Context:              service.FormatContextForPrompt(result),
		UsedDocFallback:      result.UsedDocFallback,
		TopProductSimilarity: result.TopProductSimilarity,
		TopDocSimilarity:     result.TopDocSimilarity,
	})
}
