package domain

import "time"

// Conversation represents one customer dialogue with the sales operator.
type Conversation struct {
	ID         string
	TenantID   string
	CustomerID string
	Intent     string
	Decision   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MessageRole identifies the author of a message.
type MessageRole string

const (
	MessageRoleCustomer MessageRole = "customer"
	MessageRoleOperator MessageRole = "operator"
)

// Message is a single utterance within a conversation.
type Message struct {
	ID             string
	TenantID       string
	ConversationID string
	Role           MessageRole
	Text           string
	CreatedAt      time.Time
}
