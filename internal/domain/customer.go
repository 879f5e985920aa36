package domain

import (
	"fmt"
	"time"
)

// Customer represents an end customer chatting with a tenant's sales operator.
type Customer struct {
	ID         string
	TenantID   string
	ExternalID string // messenger-side identifier
	Name       string
	CreatedAt  time.Time
}

// ValidateCustomer validates a Customer instance
func ValidateCustomer(c *Customer) error {
	if c == nil {
		return fmt.Errorf("customer cannot be nil")
	}

	if c.ID == "" {
		return fmt.Errorf("customer ID is required")
	}

	if c.TenantID == "" {
		return fmt.Errorf("customer TenantID is required")
	}

	return nil
}
