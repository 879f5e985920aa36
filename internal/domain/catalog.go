package domain

import (
	"fmt"
	"time"
)

// Product is a catalog entry whose description is chunked and embedded for
// retrieval.
type Product struct {
	ID          string
	TenantID    string
	Name        string
	SKU         string
	Category    string
	Description string
	Price       string // display price, currency formatting is tenant-side
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateProduct validates a Product instance
func ValidateProduct(p *Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}

	if p.ID == "" {
		return fmt.Errorf("product ID is required")
	}

	if p.TenantID == "" {
		return fmt.Errorf("product TenantID is required")
	}

	if p.Name == "" {
		return fmt.Errorf("product Name is required")
	}

	return nil
}

// Document is a knowledge document (FAQ, policy, manual) used as fallback
// context when product matches are weak.
type Document struct {
	ID        string
	TenantID  string
	Title     string
	Category  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDocument validates a Document instance
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.ID == "" {
		return fmt.Errorf("document ID is required")
	}

	if d.TenantID == "" {
		return fmt.Errorf("document TenantID is required")
	}

	if d.Title == "" {
		return fmt.Errorf("document Title is required")
	}

	return nil
}
