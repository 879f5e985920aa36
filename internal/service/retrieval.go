package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/telemetry"
)

// RetrievalFilters restrict the candidate set by exact metadata match before
// scoring.
type RetrievalFilters struct {
	Category string
	SKU      string
}

// RetrieveInput represents input for the Retrieve operation
type RetrieveInput struct {
	TenantID string
	Query    string
	Filters  RetrievalFilters
}

// ChunkCorpusReader defines the repository interface for candidate chunks
type ChunkCorpusReader interface {
	ListBySourceType(ctx context.Context, tenantID string, sourceType domain.ChunkSourceType, filters RetrievalFilters) ([]*domain.Chunk, error)
}

// RetrievalConfig controls ranking policy. Thresholds and the critical chunk
// kinds are deployment policy, not mechanism.
type RetrievalConfig struct {
	ProductTopK         int
	DocTopK             int
	ConfidenceThreshold float64
	MinSimilarity       float64
	CriticalChunkKinds  []string
}

// DefaultRetrievalConfig returns the default ranking configuration.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		ProductTopK:         5,
		DocTopK:             3,
		ConfidenceThreshold: 0.7,
		MinSimilarity:       0.5,
		CriticalChunkKinds:  []string{domain.ChunkKindPriceStock},
	}
}

// RetrievalService ranks pre-embedded chunks against a customer query and
// assembles prompt context. It is stateless and request-scoped.
type RetrievalService struct {
	corpus    ChunkCorpusReader
	embedding EmbeddingClient
	cfg       RetrievalConfig
}

// NewRetrievalService creates a new RetrievalService instance
func NewRetrievalService(corpus ChunkCorpusReader, embedding EmbeddingClient) *RetrievalService {
	return NewRetrievalServiceWithConfig(corpus, embedding, DefaultRetrievalConfig())
}

// NewRetrievalServiceWithConfig creates a new RetrievalService with explicit configuration.
func NewRetrievalServiceWithConfig(corpus ChunkCorpusReader, embedding EmbeddingClient, cfg RetrievalConfig) *RetrievalService {
	if cfg.ProductTopK <= 0 {
		cfg.ProductTopK = 5
	}
	if cfg.DocTopK <= 0 {
		cfg.DocTopK = 3
	}
	return &RetrievalService{
		corpus:    corpus,
		embedding: embedding,
		cfg:       cfg,
	}
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Empty, length-mismatched, or zero-magnitude inputs yield 0 rather than an
// error: the caller treats an unmatchable chunk as irrelevant, not broken.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Retrieve ranks product chunks for the query, falling back to document
// chunks when product confidence is low. An embedding-provider failure or an
// empty corpus yields an empty result, never an error: the operator proceeds
// with a no-context prompt.
func (s *RetrievalService) Retrieve(ctx context.Context, input RetrieveInput) (*domain.RetrievalResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		TenantID:  input.TenantID,
		Operation: "retrieve",
	})
	defer span.End()

	result := &domain.RetrievalResult{}

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return result, nil
	}

	queryEmbedding, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		telemetry.AddBreadcrumb(ctx, "retrieval", "embedding provider unavailable, returning empty context")
		return result, nil
	}
	result.QueryEmbedding = queryEmbedding

	products, err := s.corpus.ListBySourceType(ctx, input.TenantID, domain.ChunkSourceProduct, input.Filters)
	if err != nil {
		return nil, err
	}

	scored := s.scoreChunks(products, queryEmbedding)
	if len(scored) > 0 {
		result.TopProductSimilarity = scored[0].Similarity
	}
	result.ProductChunks = s.prioritizeCritical(topN(scored, s.cfg.ProductTopK))

	if result.TopProductSimilarity < s.cfg.ConfidenceThreshold {
		docs, err := s.corpus.ListBySourceType(ctx, input.TenantID, domain.ChunkSourceDocument, input.Filters)
		if err != nil {
			return nil, err
		}

		scoredDocs := s.scoreChunks(docs, queryEmbedding)
		if len(scoredDocs) > 0 {
			result.TopDocSimilarity = scoredDocs[0].Similarity
		}
		result.DocChunks = topN(scoredDocs, s.cfg.DocTopK)
		result.UsedDocFallback = true
	}

	// Products always rank ahead of documents in the combined sequence.
	result.Chunks = make([]*domain.Chunk, 0, len(result.ProductChunks)+len(result.DocChunks))
	result.Chunks = append(result.Chunks, result.ProductChunks...)
	result.Chunks = append(result.Chunks, result.DocChunks...)

	return result, nil
}

// scoreChunks computes similarities, drops chunks below MinSimilarity, and
// sorts by descending similarity.
func (s *RetrievalService) scoreChunks(chunks []*domain.Chunk, queryEmbedding []float32) []*domain.Chunk {
	scored := make([]*domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		similarity := CosineSimilarity(queryEmbedding, chunk.Embedding)
		if similarity < s.cfg.MinSimilarity {
			continue
		}
		chunk.Similarity = similarity
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	return scored
}

// prioritizeCritical moves chunks of critical kinds (price/stock) to the
// front regardless of raw score. Order within each group stays by similarity.
func (s *RetrievalService) prioritizeCritical(chunks []*domain.Chunk) []*domain.Chunk {
	if len(s.cfg.CriticalChunkKinds) == 0 || len(chunks) < 2 {
		return chunks
	}

	critical := make([]*domain.Chunk, 0, len(chunks))
	rest := make([]*domain.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if s.isCriticalKind(chunk.ChunkKind()) {
			critical = append(critical, chunk)
		} else {
			rest = append(rest, chunk)
		}
	}

	return append(critical, rest...)
}

func (s *RetrievalService) isCriticalKind(kind string) bool {
	if kind == "" {
		return false
	}
	for _, critical := range s.cfg.CriticalChunkKinds {
		if kind == critical {
			return true
		}
	}
	return false
}

func topN(chunks []*domain.Chunk, n int) []*domain.Chunk {
	if len(chunks) > n {
		chunks = chunks[:n]
	}
	return chunks
}
