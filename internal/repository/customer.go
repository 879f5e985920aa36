package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
)

type CustomerRepository struct {
	db dbtx
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: pool}
}

func NewCustomerRepositoryWithTx(tx pgx.Tx) *CustomerRepository {
	return &CustomerRepository{db: tx}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO customers (id, tenant_id, external_id, name, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.TenantID, nullableString(c.ExternalID), c.Name, c.CreatedAt,
	)
	return err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	var externalID *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, external_id, name, created_at
		 FROM customers WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.TenantID, &externalID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	if externalID != nil {
		c.ExternalID = *externalID
	}
	return &c, nil
}

func (r *CustomerRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, external_id, name, created_at
		 FROM customers WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var c domain.Customer
		var externalID *string
		if err := rows.Scan(&c.ID, &c.TenantID, &externalID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		if externalID != nil {
			c.ExternalID = *externalID
		}
		customers = append(customers, &c)
	}
	return customers, rows.Err()
}

// Delete removes the customer row and returns the number of rows removed.
func (r *CustomerRepository) Delete(ctx context.Context, id string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM customers WHERE id = $1`,
		id,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}
