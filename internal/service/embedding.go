package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vendo-labs/vendoai/internal/domain"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingProductRepository defines the product reader for indexing
type EmbeddingProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

// EmbeddingDocumentRepository defines the document reader for indexing
type EmbeddingDocumentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// EmbeddingChunkRepository defines the chunk writer for indexing
type EmbeddingChunkRepository interface {
	ReplaceChunks(ctx context.Context, sourceType domain.ChunkSourceType, sourceID string, chunks []domain.Chunk) error
}

// EmbeddingService builds and stores embedded chunks for catalog sources.
// This is the indexing side of retrieval; the engine itself only reads the
// chunks this produces.
type EmbeddingService struct {
	client    EmbeddingClient
	products  EmbeddingProductRepository
	documents EmbeddingDocumentRepository
	chunkRepo EmbeddingChunkRepository
	chunkCfg  ChunkConfig
}

// NewEmbeddingService creates a new EmbeddingService instance
func NewEmbeddingService(
	client EmbeddingClient,
	products EmbeddingProductRepository,
	documents EmbeddingDocumentRepository,
	chunkRepo EmbeddingChunkRepository,
) *EmbeddingService {
	return &EmbeddingService{
		client:    client,
		products:  products,
		documents: documents,
		chunkRepo: chunkRepo,
		chunkCfg:  DefaultChunkConfig(),
	}
}

// IndexProduct replaces the chunk set for a product: description chunks plus
// one synthetic price/stock chunk carrying the critical chunk kind.
// This method is called by the background worker.
func (s *EmbeddingService) IndexProduct(ctx context.Context, productID string) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	texts := chunkText(product.Description, s.chunkCfg)
	if len(texts) == 0 {
		texts = []string{product.Name}
	}
	texts = append(texts, buildPriceStockText(product))

	createdAt := time.Now().UTC()
	entries := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		kind := "description"
		if i == len(texts)-1 {
			kind = domain.ChunkKindPriceStock
		}

		embedding, err := s.client.GenerateEmbedding(ctx, buildProductEmbeddingText(product, text))
		if err != nil {
			return fmt.Errorf("failed to generate chunk embedding: %w", err)
		}

		entries = append(entries, domain.Chunk{
			TenantID:   product.TenantID,
			SourceType: domain.ChunkSourceProduct,
			SourceID:   product.ID,
			ChunkIndex: i,
			ChunkText:  text,
			Product: &domain.ProductMetadata{
				ProductName: product.Name,
				SKU:         product.SKU,
				Category:    product.Category,
				ChunkKind:   kind,
			},
			Embedding: embedding,
			CreatedAt: createdAt,
		})
	}

	if err := s.chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, product.ID, entries); err != nil {
		return fmt.Errorf("failed to update product chunks: %w", err)
	}

	return nil
}

// IndexDocument replaces the chunk set for a knowledge document.
// This method is called by the background worker.
func (s *EmbeddingService) IndexDocument(ctx context.Context, documentID string) error {
	document, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	source := document.Content
	if strings.TrimSpace(source) == "" {
		source = document.Title
	}

	texts := chunkText(source, s.chunkCfg)
	createdAt := time.Now().UTC()
	entries := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		embedding, err := s.client.GenerateEmbedding(ctx, buildDocumentEmbeddingText(document, text))
		if err != nil {
			return fmt.Errorf("failed to generate chunk embedding: %w", err)
		}

		entries = append(entries, domain.Chunk{
			TenantID:   document.TenantID,
			SourceType: domain.ChunkSourceDocument,
			SourceID:   document.ID,
			ChunkIndex: i,
			ChunkText:  text,
			Doc: &domain.DocMetadata{
				DocTitle: document.Title,
				Category: document.Category,
			},
			Embedding: embedding,
			CreatedAt: createdAt,
		})
	}

	if err := s.chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceDocument, document.ID, entries); err != nil {
		return fmt.Errorf("failed to update document chunks: %w", err)
	}

	return nil
}

func buildPriceStockText(p *domain.Product) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Товар: %s", p.Name))
	if p.Price != "" {
		parts = append(parts, fmt.Sprintf("Цена: %s", p.Price))
	}
	parts = append(parts, fmt.Sprintf("В наличии: %d шт.", p.Stock))
	return strings.Join(parts, "\n")
}

func buildProductEmbeddingText(p *domain.Product, chunk string) string {
	var parts []string
	if p.Name != "" {
		parts = append(parts, p.Name)
	}
	if p.Category != "" {
		parts = append(parts, p.Category)
	}
	if chunk != "" {
		parts = append(parts, chunk)
	}
	return strings.Join(parts, "\n\n")
}

func buildDocumentEmbeddingText(d *domain.Document, chunk string) string {
	var parts []string
	if d.Title != "" {
		parts = append(parts, d.Title)
	}
	if chunk != "" {
		parts = append(parts, chunk)
	}
	return strings.Join(parts, "\n\n")
}
