package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
)

type ConversationRepository struct {
	db dbtx
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: pool}
}

func NewConversationRepositoryWithTx(tx pgx.Tx) *ConversationRepository {
	return &ConversationRepository{db: tx}
}

func (r *ConversationRepository) Create(ctx context.Context, c *domain.Conversation) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conversations (id, tenant_id, customer_id, intent, decision, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.TenantID, c.CustomerID, nullableString(c.Intent), nullableString(c.Decision), c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	var intent, decision *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, customer_id, intent, decision, created_at, updated_at
		 FROM conversations WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.TenantID, &c.CustomerID, &intent, &decision, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, err
	}
	if intent != nil {
		c.Intent = *intent
	}
	if decision != nil {
		c.Decision = *decision
	}
	return &c, nil
}

func (r *ConversationRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Conversation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, customer_id, intent, decision, created_at, updated_at
		 FROM conversations WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []*domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		var intent, decision *string
		if err := rows.Scan(&c.ID, &c.TenantID, &c.CustomerID, &intent, &decision, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if intent != nil {
			c.Intent = *intent
		}
		if decision != nil {
			c.Decision = *decision
		}
		conversations = append(conversations, &c)
	}
	return conversations, rows.Err()
}

// DeleteByCustomer removes all of a customer's conversations and returns the
// number of rows removed.
func (r *ConversationRepository) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM conversations WHERE customer_id = $1`,
		customerID,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
