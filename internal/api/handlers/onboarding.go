package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vendo-labs/vendoai/internal/api"
	"github.com/vendo-labs/vendoai/internal/api/middleware"
	"github.com/vendo-labs/vendoai/internal/service"
)

type OnboardingServiceInterface interface {
	GenerateDocument(ctx context.Context, input service.GenerateOnboardingInput) (*service.OnboardingDocument, error)
}

type OnboardingHandler struct {
	svc OnboardingServiceInterface
}

func NewOnboardingHandler(svc OnboardingServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{svc: svc}
}

type GenerateDocumentRequest struct {
	BusinessName    string `json:"business_name,omitempty"`
	BusinessProfile string `json:"business_profile,omitempty"`
}

type OnboardingDocumentResponse struct {
	Content     string `json:"content"`
	Source      string `json:"source"`
	DownloadURL string `json:"download_url,omitempty"`
}

// GenerateDocument handles POST /onboarding/document
func (h *OnboardingHandler) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req GenerateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, err := h.svc.GenerateDocument(r.Context(), service.GenerateOnboardingInput{
		TenantID:        tenantID,
		BusinessName:    req.BusinessName,
		BusinessProfile: req.BusinessProfile,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, OnboardingDocumentResponse{
		Content:     doc.Content,
		Source:      doc.Source,
		DownloadURL: doc.DownloadURL,
	})
}
