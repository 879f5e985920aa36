package domain

import "time"

// Audit actor types
const (
	ActorTypeOperator = "operator"
	ActorTypeSystem   = "system"
)

// Audit event types
const (
	AuditEventCustomerDataDeleted = "customer_data_deleted"
)

// AuditEvent records a privileged action for compliance review.
type AuditEvent struct {
	ID         string
	TenantID   string
	EventType  string
	EntityType string
	EntityID   string
	ActorID    string
	ActorType  string
	Details    map[string]any
	CreatedAt  time.Time
}

// DeletionResult summarizes one customer-data deletion. All counts come from
// the same transaction; partial results never escape.
type DeletionResult struct {
	CustomerID           string
	RatingsDeleted       int64
	MessagesDeleted      int64
	ConversationsDeleted int64
	CustomerDeleted      bool
	CompletedAt          time.Time
}
