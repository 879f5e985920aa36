package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/service"
)

// MockDeletionService is a mock implementation of DeletionServiceInterface
type MockDeletionService struct {
	mock.Mock
}

func (m *MockDeletionService) DeleteCustomerData(ctx context.Context, input service.DeleteCustomerDataInput) (*domain.DeletionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeletionResult), args.Error(1)
}

func deleteRequest(tenantID, customerID string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customerID, nil)
	if tenantID != "" {
		req = withTenant(req, tenantID)
	}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", customerID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

// TestCustomerHandler_Delete tests DELETE /customers/{id}
func TestCustomerHandler_Delete(t *testing.T) {
	t.Run("deletes customer data and reports counts", func(t *testing.T) {
		mockSvc := new(MockDeletionService)
		mockSvc.On("DeleteCustomerData", mock.Anything, service.DeleteCustomerDataInput{
			TenantID:   "tenant-1",
			CustomerID: "customer-1",
			ActorType:  domain.ActorTypeOperator,
		}).Return(&domain.DeletionResult{
			CustomerID:           "customer-1",
			RatingsDeleted:       2,
			MessagesDeleted:      10,
			ConversationsDeleted: 3,
			CustomerDeleted:      true,
			CompletedAt:          time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		}, nil)

		handler := NewCustomerHandler(mockSvc)
		rec := httptest.NewRecorder()

		handler.Delete(rec, deleteRequest("tenant-1", "customer-1"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data DeletionResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "customer-1", envelope.Data.CustomerID)
		assert.Equal(t, int64(2), envelope.Data.RatingsDeleted)
		assert.Equal(t, int64(10), envelope.Data.MessagesDeleted)
		assert.Equal(t, int64(3), envelope.Data.ConversationsDeleted)
		assert.True(t, envelope.Data.CustomerDeleted)
		assert.Equal(t, "2026-08-01T12:00:00Z", envelope.Data.CompletedAt)
		mockSvc.AssertExpectations(t)
	})

	t.Run("tenant mismatch maps to forbidden", func(t *testing.T) {
		mockSvc := new(MockDeletionService)
		mockSvc.On("DeleteCustomerData", mock.Anything, mock.Anything).
			Return(nil, domain.ErrCustomerTenantMismatch)

		handler := NewCustomerHandler(mockSvc)
		rec := httptest.NewRecorder()

		handler.Delete(rec, deleteRequest("tenant-1", "customer-1"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown customer maps to not found", func(t *testing.T) {
		mockSvc := new(MockDeletionService)
		mockSvc.On("DeleteCustomerData", mock.Anything, mock.Anything).
			Return(nil, domain.ErrCustomerNotFound)

		handler := NewCustomerHandler(mockSvc)
		rec := httptest.NewRecorder()

		handler.Delete(rec, deleteRequest("tenant-1", "customer-1"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing tenant is unauthorized", func(t *testing.T) {
		handler := NewCustomerHandler(new(MockDeletionService))
		rec := httptest.NewRecorder()

		handler.Delete(rec, deleteRequest("", "customer-1"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
