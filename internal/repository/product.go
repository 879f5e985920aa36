package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vendo-labs/vendoai/internal/domain"
)

type ProductRepository struct {
	db dbtx
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: pool}
}

func NewProductRepositoryWithTx(tx pgx.Tx) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO products (id, tenant_id, name, sku, category, description, price, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.TenantID, p.Name, nullableString(p.SKU), nullableString(p.Category),
		p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	var sku, category *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, sku, category, description, price, stock, created_at, updated_at
		 FROM products WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.TenantID, &p.Name, &sku, &category, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if sku != nil {
		p.SKU = *sku
	}
	if category != nil {
		p.Category = *category
	}
	return &p, nil
}

func (r *ProductRepository) GetBySKU(ctx context.Context, tenantID, sku string) (*domain.Product, error) {
	var p domain.Product
	var skuVal, category *string
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, sku, category, description, price, stock, created_at, updated_at
		 FROM products WHERE tenant_id = $1 AND sku = $2`,
		tenantID, sku,
	).Scan(&p.ID, &p.TenantID, &p.Name, &skuVal, &category, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	if skuVal != nil {
		p.SKU = *skuVal
	}
	if category != nil {
		p.Category = *category
	}
	return &p, nil
}

func (r *ProductRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, name, sku, category, description, price, stock, created_at, updated_at
		 FROM products WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		var sku, category *string
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &sku, &category, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if sku != nil {
			p.SKU = *sku
		}
		if category != nil {
			p.Category = *category
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
