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
	"github.com/vendo-labs/vendoai/internal/pagination"
	"github.com/vendo-labs/vendoai/internal/testutil"
)

func setupRatingFixtures(ctx context.Context, t *testing.T, tenantRepo *TenantRepository, customerRepo *CustomerRepository, convRepo *ConversationRepository) (tenantID, conversationID string) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tenant := &domain.Tenant{ID: uuid.NewString(), Name: "Rating Tenant " + uuid.NewString(), CreatedAt: now}
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	customer := &domain.Customer{ID: uuid.NewString(), TenantID: tenant.ID, ExternalID: "tg-1", Name: "Customer", CreatedAt: now}
	require.NoError(t, customerRepo.Create(ctx, customer))

	conv := &domain.Conversation{ID: uuid.NewString(), TenantID: tenant.ID, CustomerID: customer.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, convRepo.Create(ctx, conv))

	return tenant.ID, conv.ID
}

func TestCsatRatingRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	customerRepo := NewCustomerRepository(pool)
	convRepo := NewConversationRepository(pool)
	ratingRepo := NewCsatRatingRepository(pool)

	tenantID, convID := setupRatingFixtures(ctx, t, tenantRepo, customerRepo, convRepo)

	rating := &domain.CsatRating{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		ConversationID: convID,
		Rating:         5,
		Comment:        "отлично",
		Intent:         "delivery",
		Decision:       "resolved",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	require.NoError(t, ratingRepo.Create(ctx, rating))

	retrieved, err := ratingRepo.GetByConversationID(ctx, tenantID, convID)
	require.NoError(t, err)
	assert.Equal(t, rating.ID, retrieved.ID)
	assert.Equal(t, 5, retrieved.Rating)
	assert.Equal(t, "отлично", retrieved.Comment)
	assert.Equal(t, "delivery", retrieved.Intent)
	assert.Equal(t, "resolved", retrieved.Decision)
}

func TestCsatRatingRepository_GetByConversationID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	ratingRepo := NewCsatRatingRepository(pool)

	_, err := ratingRepo.GetByConversationID(ctx, uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRatingNotFound)
}

func TestCsatRatingRepository_Create_DuplicateConversation(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	customerRepo := NewCustomerRepository(pool)
	convRepo := NewConversationRepository(pool)
	ratingRepo := NewCsatRatingRepository(pool)

	tenantID, convID := setupRatingFixtures(ctx, t, tenantRepo, customerRepo, convRepo)

	first := &domain.CsatRating{
		ID: uuid.NewString(), TenantID: tenantID, ConversationID: convID,
		Rating: 4, CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, ratingRepo.Create(ctx, first))

	second := &domain.CsatRating{
		ID: uuid.NewString(), TenantID: tenantID, ConversationID: convID,
		Rating: 5, CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	assert.Error(t, ratingRepo.Create(ctx, second))
}

func TestCsatRatingRepository_ListByTenantWithCursor(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	customerRepo := NewCustomerRepository(pool)
	convRepo := NewConversationRepository(pool)
	ratingRepo := NewCsatRatingRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	tenant := &domain.Tenant{ID: uuid.NewString(), Name: "Page Tenant " + uuid.NewString(), CreatedAt: now}
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	customer := &domain.Customer{ID: uuid.NewString(), TenantID: tenant.ID, ExternalID: "tg-1", Name: "Customer", CreatedAt: now}
	require.NoError(t, customerRepo.Create(ctx, customer))

	for i := 0; i < 5; i++ {
		conv := &domain.Conversation{
			ID: uuid.NewString(), TenantID: tenant.ID, CustomerID: customer.ID,
			CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, convRepo.Create(ctx, conv))

		rating := &domain.CsatRating{
			ID: uuid.NewString(), TenantID: tenant.ID, ConversationID: conv.ID,
			Rating: 1 + i%5, CreatedAt: now.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, ratingRepo.Create(ctx, rating))
	}

	page1, err := ratingRepo.ListByTenantWithCursor(ctx, tenant.ID, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1.Items, 2)
	assert.True(t, page1.HasMore)
	require.NotEmpty(t, page1.NextCursor)

	// Newest first.
	assert.True(t, page1.Items[0].CreatedAt.After(page1.Items[1].CreatedAt))

	cursor, err := pagination.DecodeCursor(page1.NextCursor)
	require.NoError(t, err)

	page2, err := ratingRepo.ListByTenantWithCursor(ctx, tenant.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)
	assert.True(t, page2.HasMore)

	// No overlap between pages.
	seen := map[string]bool{}
	for _, item := range append(page1.Items, page2.Items...) {
		assert.False(t, seen[item.ID])
		seen[item.ID] = true
	}

	cursor, err = pagination.DecodeCursor(page2.NextCursor)
	require.NoError(t, err)

	page3, err := ratingRepo.ListByTenantWithCursor(ctx, tenant.ID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page3.Items, 1)
	assert.False(t, page3.HasMore)
	assert.Empty(t, page3.NextCursor)
}

func TestCsatRatingRepository_DeleteByCustomer(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	tenantRepo := NewTenantRepository(pool)
	customerRepo := NewCustomerRepository(pool)
	convRepo := NewConversationRepository(pool)
	ratingRepo := NewCsatRatingRepository(pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	tenant := &domain.Tenant{ID: uuid.NewString(), Name: "Delete Tenant " + uuid.NewString(), CreatedAt: now}
	require.NoError(t, tenantRepo.Create(ctx, tenant))

	customer := &domain.Customer{ID: uuid.NewString(), TenantID: tenant.ID, ExternalID: "tg-1", Name: "Customer", CreatedAt: now}
	require.NoError(t, customerRepo.Create(ctx, customer))

	conv := &domain.Conversation{ID: uuid.NewString(), TenantID: tenant.ID, CustomerID: customer.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, convRepo.Create(ctx, conv))

	rating := &domain.CsatRating{
		ID: uuid.NewString(), TenantID: tenant.ID, ConversationID: conv.ID,
		Rating: 5, CreatedAt: now,
	}
	require.NoError(t, ratingRepo.Create(ctx, rating))

	deleted, err := ratingRepo.DeleteByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = ratingRepo.GetByConversationID(ctx, tenant.ID, conv.ID)
	assert.ErrorIs(t, err, domain.ErrRatingNotFound)
}
