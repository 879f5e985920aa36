package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vendo-labs/vendoai/internal/api"
	"github.com/vendo-labs/vendoai/internal/api/middleware"
	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/service"
)

type CsatServiceInterface interface {
	SubmitRating(ctx context.Context, input service.SubmitRatingInput) (*domain.CsatRating, error)
	GetAnalytics(ctx context.Context, tenantID string) (*domain.CsatAnalytics, error)
	ListRatings(ctx context.Context, input service.ListRatingsInput) (*service.ListRatingsOutput, error)
}

type CsatHandler struct {
	svc CsatServiceInterface
}

func NewCsatHandler(svc CsatServiceInterface) *CsatHandler {
	return &CsatHandler{svc: svc}
}

type SubmitRatingRequest struct {
	ConversationID string `json:"conversation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
}

type RatingResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
	Intent         string `json:"intent,omitempty"`
	Decision       string `json:"decision,omitempty"`
	CreatedAt      string `json:"created_at"`
}

func ratingToResponse(rating *domain.CsatRating) *RatingResponse {
	return &RatingResponse{
		ID:             rating.ID,
		ConversationID: rating.ConversationID,
		Rating:         rating.Rating,
		Comment:        rating.Comment,
		Intent:         rating.Intent,
		Decision:       rating.Decision,
		CreatedAt:      rating.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// Submit handles POST /csat
func (h *CsatHandler) Submit(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ConversationID == "" {
		api.Error(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	rating, err := h.svc.SubmitRating(r.Context(), service.SubmitRatingInput{
		TenantID:       tenantID,
		ConversationID: req.ConversationID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ratingToResponse(rating))
}

type RatingBucketResponse struct {
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SegmentStatsResponse struct {
	Value   string  `json:"value"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type AnalyticsResponse struct {
	AvgScore       float64                `json:"avg_score"`
	Total          int                    `json:"total"`
	Distribution   []RatingBucketResponse `json:"distribution"`
	ByIntent       []SegmentStatsResponse `json:"by_intent"`
	ByDecision     []SegmentStatsResponse `json:"by_decision"`
	ProblemIntents []SegmentStatsResponse `json:"problem_intents"`
}

func segmentsToResponse(segments []domain.SegmentStats) []SegmentStatsResponse {
	out := make([]SegmentStatsResponse, len(segments))
	for i, s := range segments {
		out[i] = SegmentStatsResponse{Value: s.Value, Average: s.Average, Count: s.Count}
	}
	return out
}

// Analytics handles GET /csat/analytics
func (h *CsatHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	analytics, err := h.svc.GetAnalytics(r.Context(), tenantID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	distribution := make([]RatingBucketResponse, len(analytics.Distribution))
	for i, bucket := range analytics.Distribution {
		distribution[i] = RatingBucketResponse{
			Rating:     bucket.Rating,
			Count:      bucket.Count,
			Percentage: bucket.Percentage,
		}
	}

	api.Success(w, http.StatusOK, AnalyticsResponse{
		AvgScore:       analytics.AvgScore,
		Total:          analytics.Total,
		Distribution:   distribution,
		ByIntent:       segmentsToResponse(analytics.ByIntent),
		ByDecision:     segmentsToResponse(analytics.ByDecision),
		ProblemIntents: segmentsToResponse(analytics.ProblemIntents),
	})
}

type RatingListResponse struct {
	Items   []*RatingResponse `json:"items"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

// ListRatings handles GET /csat/ratings
func (h *CsatHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())
	if tenantID == "" {
		api.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	cursor := r.URL.Query().Get("cursor")
	limitStr := r.URL.Query().Get("limit")
	limit := 20
	if limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	output, err := h.svc.ListRatings(r.Context(), service.ListRatingsInput{
		TenantID: tenantID,
		Cursor:   cursor,
		Limit:    limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	responses := make([]*RatingResponse, len(output.Items))
	for i, rating := range output.Items {
		responses[i] = ratingToResponse(rating)
	}

	api.Success(w, http.StatusOK, RatingListResponse{
		Items:   responses,
		Cursor:  output.Cursor,
		HasMore: output.HasMore,
	})
}
