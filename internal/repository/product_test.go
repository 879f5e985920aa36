//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/testutil"
)

func TestProductRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	productRepo := NewProductRepository(pool)

	tenantID := createChunkTenant(ctx, t, tenantRepo)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("price is stored as display text", func(t *testing.T) {
		product := &domain.Product{
			ID:          uuid.NewString(),
			TenantID:    tenantID,
			Name:        "Чайник",
			SKU:         "KET-17",
			Category:    "kitchen",
			Description: "Электрический чайник на 1.7 литра",
			Price:       "1990 руб",
			Stock:       12,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		require.NoError(t, productRepo.Create(ctx, product))

		got, err := productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "1990 руб", got.Price)
		assert.Equal(t, 12, got.Stock)
		assert.Equal(t, "KET-17", got.SKU)
	})

	t.Run("product without a price", func(t *testing.T) {
		product := &domain.Product{
			ID:        uuid.NewString(),
			TenantID:  tenantID,
			Name:      "Кружка",
			CreatedAt: now,
			UpdatedAt: now,
		}
		require.NoError(t, productRepo.Create(ctx, product))

		got, err := productRepo.GetByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Price)
		assert.Empty(t, got.SKU)
		assert.Zero(t, got.Stock)
	})

	t.Run("lookup by sku", func(t *testing.T) {
		got, err := productRepo.GetBySKU(ctx, tenantID, "KET-17")
		require.NoError(t, err)
		assert.Equal(t, "Чайник", got.Name)

		_, err = productRepo.GetBySKU(ctx, tenantID, "NO-SUCH")
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})
}
