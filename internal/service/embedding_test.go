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

// MockChunkWriter is a mock implementation of EmbeddingChunkRepository
type MockChunkWriter struct {
	mock.Mock
}

func (m *MockChunkWriter) ReplaceChunks(ctx context.Context, sourceType domain.ChunkSourceType, sourceID string, chunks []domain.Chunk) error {
	args := m.Called(ctx, sourceType, sourceID, chunks)
	return args.Error(0)
}

// TestEmbeddingService_IndexProduct tests product chunk indexing
func TestEmbeddingService_IndexProduct(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2, 0.3}

	product := &domain.Product{
		ID:          "product-1",
		TenantID:    "tenant-1",
		Name:        "Чайник",
		SKU:         "SKU-1",
		Category:    "kitchen",
		Description: "Красный чайник, 2 литра.",
		Price:       "1990",
		Stock:       12,
	}

	t.Run("writes description chunks plus a price stock chunk", func(t *testing.T) {
		products := new(MockProductRepository)
		client := new(MockEmbeddingClient)
		chunkWriter := new(MockChunkWriter)

		products.On("GetByID", mock.Anything, "product-1").Return(product, nil)
		client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
		chunkWriter.On("ReplaceChunks", mock.Anything, domain.ChunkSourceProduct, "product-1", mock.MatchedBy(func(chunks []domain.Chunk) bool {
			if len(chunks) != 2 {
				return false
			}
			last := chunks[len(chunks)-1]
			return chunks[0].Product.ChunkKind == "description" &&
				last.Product.ChunkKind == domain.ChunkKindPriceStock &&
				last.Product.ProductName == "Чайник" &&
				chunks[0].TenantID == "tenant-1" &&
				chunks[0].ChunkIndex == 0 &&
				last.ChunkIndex == 1
		})).Return(nil)

		service := NewEmbeddingService(client, products, new(MockDocumentRepository), chunkWriter)
		err := service.IndexProduct(ctx, "product-1")

		require.NoError(t, err)
		chunkWriter.AssertExpectations(t)
	})

	t.Run("price stock chunk carries price and availability", func(t *testing.T) {
		text := buildPriceStockText(product)

		assert.Contains(t, text, "Чайник")
		assert.Contains(t, text, "Цена: 1990")
		assert.Contains(t, text, "В наличии: 12 шт.")
	})

	t.Run("empty description falls back to the product name", func(t *testing.T) {
		bare := &domain.Product{ID: "product-2", TenantID: "tenant-1", Name: "Кружка"}

		products := new(MockProductRepository)
		client := new(MockEmbeddingClient)
		chunkWriter := new(MockChunkWriter)

		products.On("GetByID", mock.Anything, "product-2").Return(bare, nil)
		client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
		chunkWriter.On("ReplaceChunks", mock.Anything, domain.ChunkSourceProduct, "product-2", mock.MatchedBy(func(chunks []domain.Chunk) bool {
			return len(chunks) == 2 && chunks[0].ChunkText == "Кружка"
		})).Return(nil)

		service := NewEmbeddingService(client, products, new(MockDocumentRepository), chunkWriter)
		err := service.IndexProduct(ctx, "product-2")

		require.NoError(t, err)
	})

	t.Run("embedding failure aborts indexing", func(t *testing.T) {
		products := new(MockProductRepository)
		client := new(MockEmbeddingClient)
		chunkWriter := new(MockChunkWriter)

		products.On("GetByID", mock.Anything, "product-1").Return(product, nil)
		client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

		service := NewEmbeddingService(client, products, new(MockDocumentRepository), chunkWriter)
		err := service.IndexProduct(ctx, "product-1")

		assert.Error(t, err)
		chunkWriter.AssertNotCalled(t, "ReplaceChunks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product propagates not found", func(t *testing.T) {
		products := new(MockProductRepository)
		products.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrProductNotFound)

		service := NewEmbeddingService(new(MockEmbeddingClient), products, new(MockDocumentRepository), new(MockChunkWriter))
		err := service.IndexProduct(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}

// TestEmbeddingService_IndexDocument tests document chunk indexing
func TestEmbeddingService_IndexDocument(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2, 0.3}

	document := &domain.Document{
		ID:       "document-1",
		TenantID: "tenant-1",
		Title:    "Условия доставки",
		Category: "delivery",
		Content:  "Доставка по городу за один день.",
	}

	t.Run("writes document chunks with doc metadata", func(t *testing.T) {
		documents := new(MockDocumentRepository)
		client := new(MockEmbeddingClient)
		chunkWriter := new(MockChunkWriter)

		documents.On("GetByID", mock.Anything, "document-1").Return(document, nil)
		client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
		chunkWriter.On("ReplaceChunks", mock.Anything, domain.ChunkSourceDocument, "document-1", mock.MatchedBy(func(chunks []domain.Chunk) bool {
			return len(chunks) == 1 &&
				chunks[0].Doc != nil &&
				chunks[0].Doc.DocTitle == "Условия доставки" &&
				chunks[0].Doc.Category == "delivery" &&
				chunks[0].Product == nil
		})).Return(nil)

		service := NewEmbeddingService(client, new(MockProductRepository), documents, chunkWriter)
		err := service.IndexDocument(ctx, "document-1")

		require.NoError(t, err)
		chunkWriter.AssertExpectations(t)
	})

	t.Run("empty content falls back to the title", func(t *testing.T) {
		bare := &domain.Document{ID: "document-2", TenantID: "tenant-1", Title: "Оплата"}

		documents := new(MockDocumentRepository)
		client := new(MockEmbeddingClient)
		chunkWriter := new(MockChunkWriter)

		documents.On("GetByID", mock.Anything, "document-2").Return(bare, nil)
		client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(embedding, nil)
		chunkWriter.On("ReplaceChunks", mock.Anything, domain.ChunkSourceDocument, "document-2", mock.MatchedBy(func(chunks []domain.Chunk) bool {
			return len(chunks) == 1 && chunks[0].ChunkText == "Оплата"
		})).Return(nil)

		service := NewEmbeddingService(client, new(MockProductRepository), documents, chunkWriter)
		err := service.IndexDocument(ctx, "document-2")

		require.NoError(t, err)
	})
}
