package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vendo-labs/vendoai/internal/api"
	"github.com/vendo-labs/vendoai/internal/api/middleware"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/service"
)

type DeletionServiceInterface interface {
	DeleteCustomerData(ctx context.Context, input service.DeleteCustomerDataInput) (*domain.DeletionResult, error)
}

type CustomerHandler struct {
	deletion DeletionServiceInterface
}

func NewCustomerHandler(deletion DeletionServiceInterface) *CustomerHandler {
	return &CustomerHandler{deletion: deletion}
}

type DeletionResponse struct {
	CustomerID           string `json:"customer_id"`
	RatingsDeleted       int64  `json:"ratings_deleted"`
	MessagesDeleted      int64  `json:"messages_deleted"`
	ConversationsDeleted int64  `json:"conversations_deleted"`
	CustomerDeleted      bool   `json:"customer_deleted"`
	CompletedAt          string `json:"completed_at"`
}

// Delete handles DELETE /customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	result, err := h.deletion.DeleteCustomerData(r.Context(), service.DeleteCustomerDataInput{
		TenantID:   tenantID,
		CustomerID: customerID,
		ActorType:  domain.ActorTypeOperator,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DeletionResponse{
		CustomerID:           result.CustomerID,
		RatingsDeleted:       result.RatingsDeleted,
		MessagesDeleted:      result.MessagesDeleted,
		ConversationsDeleted: result.ConversationsDeleted,
		CustomerDeleted:      result.CustomerDeleted,
		CompletedAt:          result.CompletedAt.Format("2006-01-02T15:04:05Z"),
	})
}
