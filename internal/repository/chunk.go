package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/service"
)

// ChunkRepository handles persistence of embedded catalog chunks.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx dbtx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// ListBySourceType returns a tenant's chunks for one corpus, optionally
// narrowed by exact category or SKU match.
func (r *ChunkRepository) ListBySourceType(ctx context.Context, tenantID string, sourceType domain.ChunkSourceType, filters service.RetrievalFilters) ([]*domain.Chunk, error) {
	query := `
		SELECT id::text, tenant_id, source_type, source_id, chunk_index, chunk_text,
		       product_name, sku, category, chunk_kind, doc_title, embedding, created_at
		FROM chunks
		WHERE tenant_id = $1 AND source_type = $2`
	args := []interface{}{tenantID, sourceType}

	if filters.Category != "" {
		args = append(args, filters.Category)
		query += ` AND category = $3`
	}
	if filters.SKU != "" {
		args = append(args, filters.SKU)
		if filters.Category != "" {
			query += ` AND sku = $4`
		} else {
			query += ` AND sku = $3`
		}
	}

	query += ` ORDER BY source_id, chunk_index`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunkRows(rows)
}

// ReplaceChunks deletes existing chunks for a source and inserts new ones.
func (r *ChunkRepository) ReplaceChunks(ctx context.Context, sourceType domain.ChunkSourceType, sourceID string, chunks []domain.Chunk) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM chunks WHERE source_type = $1 AND source_id = $2`,
		sourceType, sourceID,
	)
	if err != nil {
		return err
	}

	if len(chunks) == 0 {
		return nil
	}

	for _, c := range chunks {
		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		var productName, sku, category, chunkKind, docTitle *string
		if c.Product != nil {
			productName = nullableString(c.Product.ProductName)
			sku = nullableString(c.Product.SKU)
			category = nullableString(c.Product.Category)
			chunkKind = nullableString(c.Product.ChunkKind)
		}
		if c.Doc != nil {
			docTitle = nullableString(c.Doc.DocTitle)
			category = nullableString(c.Doc.Category)
		}

		_, err := r.db.Exec(ctx,
			`INSERT INTO chunks
				(tenant_id, source_type, source_id, chunk_index, chunk_text,
				 product_name, sku, category, chunk_kind, doc_title, embedding, created_at)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			c.TenantID,
			c.SourceType,
			sourceID,
			c.ChunkIndex,
			c.ChunkText,
			productName,
			sku,
			category,
			chunkKind,
			docTitle,
			pgvector.NewVector(c.Embedding),
			createdAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// DeleteByTenant removes all of a tenant's chunks.
func (r *ChunkRepository) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM chunks WHERE tenant_id = $1`,
		tenantID,
	)
	if err != nil {
		return 0, err
	}
	return cmdTag.RowsAffected(), nil
}

func scanChunkRows(rows pgx.Rows) ([]*domain.Chunk, error) {
	var results []*domain.Chunk
	for rows.Next() {
		var c domain.Chunk
		var productName, sku, category, chunkKind, docTitle *string
		var embedding pgvector.Vector
		if err := rows.Scan(&c.ID, &c.TenantID, &c.SourceType, &c.SourceID, &c.ChunkIndex, &c.ChunkText,
			&productName, &sku, &category, &chunkKind, &docTitle, &embedding, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Embedding = embedding.Slice()

		switch c.SourceType {
		case domain.ChunkSourceProduct:
			meta := &domain.ProductMetadata{}
			if productName != nil {
				meta.ProductName = *productName
			}
			if sku != nil {
				meta.SKU = *sku
			}
			if category != nil {
				meta.Category = *category
			}
			if chunkKind != nil {
				meta.ChunkKind = *chunkKind
			}
			c.Product = meta
		case domain.ChunkSourceDocument:
			meta := &domain.DocMetadata{}
			if docTitle != nil {
				meta.DocTitle = *docTitle
			}
			if category != nil {
				meta.Category = *category
			}
			c.Doc = meta
		}

		results = append(results, &c)
	}
	return results, rows.Err()
}
