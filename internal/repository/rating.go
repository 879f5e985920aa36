package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/pagination"
	"github.com/vendo-labs/vendoai/internal/service"
)

type CsatRatingRepository struct {
	db dbtx
}

func NewCsatRatingRepository(pool *pgxpool.Pool) *CsatRatingRepository {
	return &CsatRatingRepository{db: pool}
}

func NewCsatRatingRepositoryWithTx(tx pgx.Tx) *CsatRatingRepository {
	return &CsatRatingRepository{db: tx}
}

func (r *CsatRatingRepository) Create(ctx context.Context, rating *domain.CsatRating) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO csat_ratings (id, tenant_id, conversation_id, rating, comment, intent, decision, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rating.ID, rating.TenantID, rating.ConversationID, rating.Rating,
		rating.Comment, nullableString(rating.Intent), nullableString(rating.Decision), rating.CreatedAt,
	)
	return err
}

func (r *CsatRatingRepository) GetByConversationID(ctx context.Context, tenantID, conversationID string) (*domain.CsatRating, error) {
	var rating domain.CsatRating
	var intent, decision *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, conversation_id, rating, comment, intent, decision, created_at
		 FROM csat_ratings WHERE tenant_id = $1 AND conversation_id = $2`,
		tenantID, conversationID,
	).Scan(&rating.ID, &rating.TenantID, &rating.ConversationID, &rating.Rating,
		&rating.Comment, &intent, &decision, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, err
	}
	if intent != nil {
		rating.Intent = *intent
	}
	if decision != nil {
		rating.Decision = *decision
	}
	return &rating, nil
}

func (r *CsatRatingRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.CsatRating, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, conversation_id, rating, comment, intent, decision, created_at
		 FROM csat_ratings WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRatingRows(rows)
}

func (r *CsatRatingRepository) ListByTenantWithCursor(ctx context.Context, tenantID string, cursor *pagination.Cursor, limit int) (*service.CsatRatingPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, tenant_id, conversation_id, rating, comment, intent, decision, created_at
			 FROM csat_ratings
			 WHERE tenant_id = $1 AND (created_at, id) < ($2, $3)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $4`,
			tenantID, cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT id, tenant_id, conversation_id, rating, comment, intent, decision, created_at
			 FROM csat_ratings
			 WHERE tenant_id = $1
			 ORDER BY created_at DESC, id DESC
			 LIMIT $2`,
			tenantID, limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanRatingRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.CreatedAt)
	}

	return &service.CsatRatingPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// DeleteByCustomer removes ratings attached to the customer's conversations
// and returns the number of rows removed.
func (r *CsatRatingRepository) DeleteByCustomer(ctx context.Context, customerID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM csat_ratings
		 WHERE conversation_id IN (SELECT id FROM conversations WHERE customer_id = $1)`,
		customerID,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

func scanRatingRows(rows pgx.Rows) ([]*domain.CsatRating, error) {
	var results []*domain.CsatRating
	for rows.Next() {
		var rating domain.CsatRating
		var intent, decision *string
		if err := rows.Scan(&rating.ID, &rating.TenantID, &rating.ConversationID, &rating.Rating,
			&rating.Comment, &intent, &decision, &rating.CreatedAt); err != nil {
			return nil, err
		}
		if intent != nil {
			rating.Intent = *intent
		}
		if decision != nil {
			rating.Decision = *decision
		}
		results = append(results, &rating)
	}
	return results, rows.Err()
}
