package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
)

type MessageRepository struct {
	db dbtx
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: pool}
}

func NewMessageRepositoryWithTx(tx pgx.Tx) *MessageRepository {
	return &MessageRepository{db: tx}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, tenant_id, conversation_id, role, text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.TenantID, m.ConversationID, m.Role, m.Text, m.CreatedAt,
	)
	return err
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, conversation_id, role, text, created_at
		 FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.TenantID, &m.ConversationID, &m.Role, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

// DeleteByCustomer removes all messages in the customer's conversations and
// returns the number of rows removed.
func (r *MessageRepository) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM messages
		 WHERE conversation_id IN (SELECT id FROM conversations WHERE customer_id = $1)`,
		customerID,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
