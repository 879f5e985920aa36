package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendo-labs/vendoai/internal/domain"
)

// MockChunkCorpusReader is a mock implementation of ChunkCorpusReader
type MockChunkCorpusReader struct {
	mock.Mock
}

func (m *MockChunkCorpusReader) ListBySourceType(ctx context.Context, tenantID string, sourceType domain.ChunkSourceType, filters RetrievalFilters) ([]*domain.Chunk, error) {
	args := m.Called(ctx, tenantID, sourceType, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Chunk), args.Error(1)
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func productChunk(id string, kind string, embedding []float32) *domain.Chunk {
	return &domain.Chunk{
		ID:         id,
		TenantID:   "tenant-1",
		SourceType: domain.ChunkSourceProduct,
		SourceID:   "product-" + id,
		ChunkText:  "chunk " + id,
		Product: &domain.ProductMetadata{
			ProductName: "Product " + id,
			ChunkKind:   kind,
		},
		Embedding: embedding,
	}
}

func docChunk(id string, embedding []float32) *domain.Chunk {
	return &domain.Chunk{
		ID:         id,
		TenantID:   "tenant-1",
		SourceType: domain.ChunkSourceDocument,
		SourceID:   "doc-" + id,
		ChunkText:  "doc chunk " + id,
		Doc: &domain.DocMetadata{
			DocTitle: "Document " + id,
		},
		Embedding: embedding,
	}
}

// TestCosineSimilarity tests the similarity function
func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score 1", func(t *testing.T) {
		sim := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3})
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("orthogonal vectors score 0", func(t *testing.T) {
		sim := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		assert.InDelta(t, 0.0, sim, 1e-9)
	})

	t.Run("opposite vectors score -1", func(t *testing.T) {
		sim := CosineSimilarity([]float32{1, 0}, []float32{-1, 0})
		assert.InDelta(t, -1.0, sim, 1e-9)
	})

	t.Run("empty vectors score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
		assert.Equal(t, 0.0, CosineSimilarity([]float32{}, []float32{1}))
	})

	t.Run("mismatched lengths score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
	})

	t.Run("zero magnitude scores 0", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))
	})

	t.Run("known angle", func(t *testing.T) {
		// cos(45°) between (1,0) and (1,1)
		sim := CosineSimilarity([]float32{1, 0}, []float32{1, 1})
		assert.InDelta(t, 0.70710678, sim, 1e-6)
	})
}

// TestRetrievalService_Retrieve tests the retrieval flow
func TestRetrievalService_Retrieve(t *testing.T) {
	ctx := context.Background()
	query := []float32{1, 0, 0}

	t.Run("high product confidence skips doc fallback", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{
				productChunk("a", "description", []float32{1, 0, 0}),
				productChunk("b", "description", []float32{1, 1, 0}),
			}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		assert.False(t, result.UsedDocFallback)
		assert.InDelta(t, 1.0, result.TopProductSimilarity, 1e-9)
		require.Len(t, result.ProductChunks, 2)
		assert.Equal(t, "a", result.ProductChunks[0].ID)
		assert.Empty(t, result.DocChunks)
		assert.Equal(t, result.ProductChunks, result.Chunks)
		mockCorpus.AssertNotCalled(t, "ListBySourceType", mock.Anything, mock.Anything, domain.ChunkSourceDocument, mock.Anything)
	})

	t.Run("low product confidence triggers doc fallback", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		// cos = 3/5 = 0.6: above the similarity floor, below the confidence threshold
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{productChunk("a", "description", []float32{3, 4, 0})}, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceDocument, RetrievalFilters{}).
			Return([]*domain.Chunk{docChunk("d", []float32{1, 0, 0})}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		assert.True(t, result.UsedDocFallback)
		assert.InDelta(t, 0.6, result.TopProductSimilarity, 1e-6)
		assert.InDelta(t, 1.0, result.TopDocSimilarity, 1e-9)
		require.Len(t, result.Chunks, 2)
		// Products stay ahead of documents in the combined sequence
		assert.Equal(t, domain.ChunkSourceProduct, result.Chunks[0].SourceType)
		assert.Equal(t, domain.ChunkSourceDocument, result.Chunks[1].SourceType)
	})

	t.Run("empty product corpus triggers doc fallback", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{}, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceDocument, RetrievalFilters{}).
			Return([]*domain.Chunk{docChunk("d", []float32{1, 0, 0})}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		assert.True(t, result.UsedDocFallback)
		assert.Empty(t, result.ProductChunks)
		require.Len(t, result.DocChunks, 1)
	})

	t.Run("chunks below similarity floor are dropped", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		// cos = 1/sqrt(5) ≈ 0.447, below the 0.5 floor
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{productChunk("a", "description", []float32{1, 2, 0})}, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceDocument, RetrievalFilters{}).
			Return([]*domain.Chunk{}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		assert.Empty(t, result.ProductChunks)
		assert.Equal(t, 0.0, result.TopProductSimilarity)
		assert.True(t, result.UsedDocFallback)
	})

	t.Run("critical price stock chunks rank first", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{
				productChunk("desc", "description", []float32{1, 0, 0}),
				productChunk("price", domain.ChunkKindPriceStock, []float32{3, 4, 0}),
			}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		require.Len(t, result.ProductChunks, 2)
		assert.Equal(t, "price", result.ProductChunks[0].ID)
		assert.Equal(t, "desc", result.ProductChunks[1].ID)
		// Confidence is judged on the raw top score, before reordering
		assert.InDelta(t, 1.0, result.TopProductSimilarity, 1e-9)
	})

	t.Run("top-k limits the product set", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return([]*domain.Chunk{
				productChunk("a", "description", []float32{1, 0, 0}),
				productChunk("b", "description", []float32{10, 1, 0}),
				productChunk("c", "description", []float32{10, 2, 0}),
			}, nil)

		service := NewRetrievalServiceWithConfig(mockCorpus, mockEmbedding, RetrievalConfig{
			ProductTopK:         2,
			DocTopK:             3,
			ConfidenceThreshold: 0.7,
			MinSimilarity:       0.5,
		})
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		require.Len(t, result.ProductChunks, 2)
		assert.Equal(t, "a", result.ProductChunks[0].ID)
		assert.Equal(t, "b", result.ProductChunks[1].ID)
	})

	t.Run("embedding failure yields empty result without error", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(nil, errors.New("provider down"))

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		require.NoError(t, err)
		assert.True(t, result.IsEmpty())
		assert.False(t, result.UsedDocFallback)
		mockCorpus.AssertNotCalled(t, "ListBySourceType", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("blank query yields empty result", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "   "})

		require.NoError(t, err)
		assert.True(t, result.IsEmpty())
		mockEmbedding.AssertNotCalled(t, "GenerateEmbedding", mock.Anything, mock.Anything)
	})

	t.Run("filters pass through to the corpus", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		filters := RetrievalFilters{Category: "electronics", SKU: "SKU-1"}
		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, filters).
			Return([]*domain.Chunk{productChunk("a", "description", []float32{1, 0, 0})}, nil)

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query", Filters: filters})

		require.NoError(t, err)
		require.Len(t, result.ProductChunks, 1)
		mockCorpus.AssertExpectations(t)
	})

	t.Run("corpus error propagates", func(t *testing.T) {
		mockCorpus := new(MockChunkCorpusReader)
		mockEmbedding := new(MockEmbeddingClient)

		mockEmbedding.On("GenerateEmbedding", mock.Anything, "query").Return(query, nil)
		mockCorpus.On("ListBySourceType", mock.Anything, "tenant-1", domain.ChunkSourceProduct, RetrievalFilters{}).
			Return(nil, errors.New("db down"))

		service := NewRetrievalService(mockCorpus, mockEmbedding)
		result, err := service.Retrieve(ctx, RetrieveInput{TenantID: "tenant-1", Query: "query"})

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}
