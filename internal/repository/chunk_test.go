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
	"github.com/vendo-labs/vendoai/internal/service"
	"github.com/vendo-labs/vendoai/internal/testutil"
)

func testEmbedding(lead float32) []float32 {
	vec := make([]float32, 1536)
	vec[0] = lead
	vec[1] = 1 - lead
	return vec
}

func createChunkTenant(ctx context.Context, t *testing.T, tenantRepo *TenantRepository) string {
	t.Helper()
	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      "Chunk Tenant " + uuid.NewString(),
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, tenantRepo.Create(ctx, tenant))
	return tenant.ID
}

func TestChunkRepository_ReplaceAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	tenantID := createChunkTenant(ctx, t, tenantRepo)
	productID := uuid.NewString()

	chunks := []domain.Chunk{
		{
			TenantID:   tenantID,
			SourceType: domain.ChunkSourceProduct,
			SourceID:   productID,
			ChunkIndex: 0,
			ChunkText:  "Электрический чайник на 1.7 литра",
			Product:    &domain.ProductMetadata{ProductName: "Чайник", SKU: "KET-17", Category: "kitchen", ChunkKind: "description"},
			Embedding:  testEmbedding(0.9),
		},
		{
			TenantID:   tenantID,
			SourceType: domain.ChunkSourceProduct,
			SourceID:   productID,
			ChunkIndex: 1,
			ChunkText:  "Цена: 1990 руб. В наличии: 12 шт.",
			Product:    &domain.ProductMetadata{ProductName: "Чайник", SKU: "KET-17", Category: "kitchen", ChunkKind: domain.ChunkKindPriceStock},
			Embedding:  testEmbedding(0.8),
		},
	}

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, productID, chunks))

	listed, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.Equal(t, "Чайник", listed[0].Product.ProductName)
	assert.Equal(t, "KET-17", listed[0].Product.SKU)
	assert.Equal(t, "description", listed[0].Product.ChunkKind)
	assert.Equal(t, domain.ChunkKindPriceStock, listed[1].Product.ChunkKind)
	assert.Len(t, listed[0].Embedding, 1536)
	assert.InDelta(t, 0.9, listed[0].Embedding[0], 1e-6)
}

func TestChunkRepository_ReplaceChunks_Reindex(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	tenantID := createChunkTenant(ctx, t, tenantRepo)
	productID := uuid.NewString()

	first := []domain.Chunk{{
		TenantID: tenantID, SourceType: domain.ChunkSourceProduct, SourceID: productID,
		ChunkIndex: 0, ChunkText: "старое описание",
		Product:   &domain.ProductMetadata{ProductName: "Чайник", ChunkKind: "description"},
		Embedding: testEmbedding(0.5),
	}}
	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, productID, first))

	second := []domain.Chunk{{
		TenantID: tenantID, SourceType: domain.ChunkSourceProduct, SourceID: productID,
		ChunkIndex: 0, ChunkText: "новое описание",
		Product:   &domain.ProductMetadata{ProductName: "Чайник", ChunkKind: "description"},
		Embedding: testEmbedding(0.6),
	}}
	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, productID, second))

	listed, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "новое описание", listed[0].ChunkText)
}

func TestChunkRepository_ListBySourceType_Filters(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	tenantID := createChunkTenant(ctx, t, tenantRepo)

	kitchen := uuid.NewString()
	garden := uuid.NewString()

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, kitchen, []domain.Chunk{{
		TenantID: tenantID, SourceType: domain.ChunkSourceProduct, SourceID: kitchen,
		ChunkText: "чайник",
		Product:   &domain.ProductMetadata{ProductName: "Чайник", SKU: "KET-17", Category: "kitchen", ChunkKind: "description"},
		Embedding: testEmbedding(0.9),
	}}))
	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, garden, []domain.Chunk{{
		TenantID: tenantID, SourceType: domain.ChunkSourceProduct, SourceID: garden,
		ChunkText: "лопата",
		Product:   &domain.ProductMetadata{ProductName: "Лопата", SKU: "SHV-01", Category: "garden", ChunkKind: "description"},
		Embedding: testEmbedding(0.1),
	}}))

	byCategory, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{Category: "kitchen"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Чайник", byCategory[0].Product.ProductName)

	bySKU, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{SKU: "SHV-01"})
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Лопата", bySKU[0].Product.ProductName)

	none, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{Category: "toys"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestChunkRepository_DeleteByTenant(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	chunkRepo := NewChunkRepository(pool)

	tenantID := createChunkTenant(ctx, t, tenantRepo)
	productID := uuid.NewString()

	require.NoError(t, chunkRepo.ReplaceChunks(ctx, domain.ChunkSourceProduct, productID, []domain.Chunk{{
		TenantID: tenantID, SourceType: domain.ChunkSourceProduct, SourceID: productID,
		ChunkText: "чайник",
		Product:   &domain.ProductMetadata{ProductName: "Чайник", ChunkKind: "description"},
		Embedding: testEmbedding(0.9),
	}}))

	deleted, err := chunkRepo.DeleteByTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	listed, err := chunkRepo.ListBySourceType(ctx, tenantID, domain.ChunkSourceProduct, service.RetrievalFilters{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
