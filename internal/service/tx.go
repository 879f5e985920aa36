package service

import (
	"context"

	"github.com/vendo-labs/vendoai/internal/domain"
)

// CustomerTxRepository is the customer surface available inside a transaction.
type CustomerTxRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// ConversationTxRepository deletes a customer's conversations.
type ConversationTxRepository interface {
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}

// MessageTxRepository deletes a customer's messages.
type MessageTxRepository interface {
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}

// RatingTxRepository deletes a customer's CSAT ratings.
type RatingTxRepository interface {
	DeleteByCustomer(ctx context.Context, customerID string) (int64, error)
}

// AuditLogTxRepository records audit events within the transaction.
type AuditLogTxRepository interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
}

// TxRepositories provides transaction-bound repositories.
type TxRepositories interface {
	Customers() CustomerTxRepository
	Conversations() ConversationTxRepository
	Messages() MessageTxRepository
	Ratings() RatingTxRepository
	AuditLog() AuditLogTxRepository
}

// TxRunner executes a function within a transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
