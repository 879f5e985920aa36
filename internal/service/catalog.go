package service

import (
	"context"
	"errors"
	"time"

	"github.com/vendo-labs/vendoai/internal/domain"
)

// ProductRepositoryInterface defines the repository interface for products
type ProductRepositoryInterface interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*domain.Product, error)
}

// DocumentRepositoryInterface defines the repository interface for documents
type DocumentRepositoryInterface interface {
	Create(ctx context.Context, document *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// EmbeddingJobRepositoryInterface defines the repository interface for job enqueueing
type EmbeddingJobRepositoryInterface interface {
	Create(ctx context.Context, job *domain.EmbeddingJob) error
}

// CreateProductInput represents input for CreateProduct
type CreateProductInput struct {
	TenantID    string
	Name        string
	SKU         string
	Category    string
	Description string
	Price       string
	Stock       int
}

// CreateDocumentInput represents input for CreateDocument
type CreateDocumentInput struct {
	TenantID string
	Title    string
	Category string
	Content  string
}

// CatalogService owns product and document ingestion. Each created source
// gets an embedding job; the worker chunks and embeds it asynchronously.
type CatalogService struct {
	products  ProductRepositoryInterface
	documents DocumentRepositoryInterface
	jobs      EmbeddingJobRepositoryInterface
	uuidGen   UUIDGenerator
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(
	products ProductRepositoryInterface,
	documents DocumentRepositoryInterface,
	jobs EmbeddingJobRepositoryInterface,
	uuidGen UUIDGenerator,
) *CatalogService {
	return &CatalogService{
		products:  products,
		documents: documents,
		jobs:      jobs,
		uuidGen:   uuidGen,
	}
}

// CreateProduct validates and persists a product and enqueues its indexing.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.TenantID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID is required")
	}
	if input.Name == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "product name is required")
	}

	if input.SKU != "" {
		existing, err := s.products.GetBySKU(ctx, input.TenantID, input.SKU)
		if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrProductAlreadyExists
		}
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          s.uuidGen.NewString(),
		TenantID:    input.TenantID,
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := domain.ValidateProduct(product); err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	if err := s.enqueueJob(ctx, product.TenantID, domain.ChunkSourceProduct, product.ID); err != nil {
		return nil, err
	}

	return product, nil
}

// CreateDocument validates and persists a document and enqueues its indexing.
func (s *CatalogService) CreateDocument(ctx context.Context, input CreateDocumentInput) (*domain.Document, error) {
	if input.TenantID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID is required")
	}
	if input.Title == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "document title is required")
	}

	now := time.Now().UTC()
	document := &domain.Document{
		ID:        s.uuidGen.NewString(),
		TenantID:  input.TenantID,
		Title:     input.Title,
		Category:  input.Category,
		Content:   input.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidateDocument(document); err != nil {
		return nil, err
	}

	if err := s.documents.Create(ctx, document); err != nil {
		return nil, err
	}

	if err := s.enqueueJob(ctx, document.TenantID, domain.ChunkSourceDocument, document.ID); err != nil {
		return nil, err
	}

	return document, nil
}

func (s *CatalogService) enqueueJob(ctx context.Context, tenantID string, sourceType domain.ChunkSourceType, sourceID string) error {
	job := &domain.EmbeddingJob{
		ID:         s.uuidGen.NewString(),
		TenantID:   tenantID,
		SourceType: sourceType,
		SourceID:   sourceID,
		Status:     domain.EmbeddingJobStatusPending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := domain.ValidateEmbeddingJob(job); err != nil {
		return err
	}

	return s.jobs.Create(ctx, job)
}
