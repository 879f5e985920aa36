package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
)

type AuditLogRepository struct {
	db dbtx
}

func NewAuditLogRepository(pool *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{db: pool}
}

func NewAuditLogRepositoryWithTx(tx pgx.Tx) *AuditLogRepository {
	return &AuditLogRepository{db: tx}
}

func (r *AuditLogRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	var details []byte
	if event.Details != nil {
		var err error
		details, err = json.Marshal(event.Details)
		if err != nil {
			return err
		}
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO audit_log (id, tenant_id, event_type, entity_type, entity_id, actor_id, actor_type, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		event.ID, event.TenantID, event.EventType, event.EntityType, event.EntityID,
		nullableString(event.ActorID), event.ActorType, details, event.CreatedAt,
	)
	return err
}

func (r *AuditLogRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.AuditEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, event_type, entity_type, entity_id, actor_id, actor_type, details, created_at
		 FROM audit_log WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var event domain.AuditEvent
		var actorID *string
		var details []byte
		if err := rows.Scan(&event.ID, &event.TenantID, &event.EventType, &event.EntityType, &event.EntityID,
			&actorID, &event.ActorType, &details, &event.CreatedAt); err != nil {
			return nil, err
		}
		if actorID != nil {
			event.ActorID = *actorID
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				return nil, err
			}
		}
		events = append(events, &event)
	}
	return events, rows.Err()
}
