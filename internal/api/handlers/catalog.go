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

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, input service.CreateProductInput) (*domain.Product, error)
	CreateDocument(ctx context.Context, input service.CreateDocumentInput) (*domain.Document, error)
}

type CatalogHandler struct {
	svc CatalogServiceInterface
}

func NewCatalogHandler(svc CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

type CreateProductRequest struct {
	Name        string `json:"name"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Stock       int    `json:"stock,omitempty"`
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Stock       int    `json:"stock"`
	CreatedAt   string `json:"created_at"`
}

type CreateDocumentRequest struct {
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content"`
}

type DocumentResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), service.CreateProductInput{
		TenantID:    tenantID,
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		SKU:         product.SKU,
		Category:    product.Category,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// CreateDocument handles POST /documents
func (h *CatalogHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" {
		api.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	document, err := h.svc.CreateDocument(r.Context(), service.CreateDocumentInput{
		TenantID: tenantID,
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, DocumentResponse{
		ID:        document.ID,
		Title:     document.Title,
		Category:  document.Category,
		Content:   document.Content,
		CreatedAt: document.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}
