package service

import (
	"context"
	"time"

	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/telemetry"
)

// DeleteCustomerDataInput represents input for DeleteCustomerData
type DeleteCustomerDataInput struct {
	TenantID   string
	CustomerID string
	ActorID    string
	ActorType  string
}

// DeletionService erases all data belonging to one customer: CSAT ratings,
// messages, conversations, and the customer record itself, plus an audit
// event, in a single transaction. A failure at any step rolls back the whole
// deletion.
type DeletionService struct {
	tx      TxRunner
	uuidGen UUIDGenerator
}

// NewDeletionService creates a new DeletionService instance
func NewDeletionService(tx TxRunner, uuidGen UUIDGenerator) *DeletionService {
	return &DeletionService{
		tx:      tx,
		uuidGen: uuidGen,
	}
}

// DeleteCustomerData deletes every row belonging to the customer. A tenant
// mismatch aborts the transaction with TENANT_MISMATCH and leaves all data
// intact.
func (s *DeletionService) DeleteCustomerData(ctx context.Context, input DeleteCustomerDataInput) (*domain.DeletionResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "DeletionService.DeleteCustomerData", telemetry.SpanAttributes{
		TenantID:   input.TenantID,
		CustomerID: input.CustomerID,
		Operation:  "delete_customer_data",
	})
	defer span.End()

	if input.TenantID == "" || input.CustomerID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID and customer ID are required")
	}

	actorType := input.ActorType
	if actorType == "" {
		actorType = domain.ActorTypeOperator
	}

	result := &domain.DeletionResult{CustomerID: input.CustomerID}

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		customer, err := repos.Customers().GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		if customer.TenantID != input.TenantID {
			return domain.ErrCustomerTenantMismatch
		}

		// Dependency order: ratings reference conversations, messages
		// reference conversations, conversations reference the customer.
		ratingsDeleted, err := repos.Ratings().DeleteByCustomer(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		messagesDeleted, err := repos.Messages().DeleteByCustomer(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		conversationsDeleted, err := repos.Conversations().DeleteByCustomer(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		customersDeleted, err := repos.Customers().Delete(ctx, input.CustomerID)
		if err != nil {
			return err
		}

		event := &domain.AuditEvent{
			ID:         s.uuidGen.NewString(),
			TenantID:   input.TenantID,
			EventType:  domain.AuditEventCustomerDataDeleted,
			EntityType: "customer",
			EntityID:   input.CustomerID,
			ActorID:    input.ActorID,
			ActorType:  actorType,
			Details: map[string]any{
				"ratings_deleted":       ratingsDeleted,
				"messages_deleted":      messagesDeleted,
				"conversations_deleted": conversationsDeleted,
			},
			CreatedAt: time.Now().UTC(),
		}
		if err := repos.AuditLog().Create(ctx, event); err != nil {
			return err
		}

		result.RatingsDeleted = ratingsDeleted
		result.MessagesDeleted = messagesDeleted
		result.ConversationsDeleted = conversationsDeleted
		result.CustomerDeleted = customersDeleted > 0
		result.CompletedAt = event.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
