package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/vendo-labs/vendoai/internal/domain"
	"github.com/vendo-labs/vendoai/internal/pagination"
	"github.com/vendo-labs/vendoai/internal/telemetry"
)

// CsatRatingPageResult is one page of a tenant's ratings.
type CsatRatingPageResult struct {
	Items      []*domain.CsatRating
	NextCursor string
	HasMore    bool
}

// CsatRatingRepository defines the repository interface for rating persistence
type CsatRatingRepository interface {
	Create(ctx context.Context, rating *domain.CsatRating) error
	GetByConversationID(ctx context.Context, tenantID, conversationID string) (*domain.CsatRating, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.CsatRating, error)
	ListByTenantWithCursor(ctx context.Context, tenantID string, cursor *pagination.Cursor, limit int) (*CsatRatingPageResult, error)
}

// ConversationReader defines the repository interface for submission validation
type ConversationReader interface {
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
}

// CsatConfig controls analytics policy.
type CsatConfig struct {
	// ProblemThreshold is the average score below which an intent is surfaced
	// as a problem segment.
	ProblemThreshold float64
}

// DefaultCsatConfig returns the default analytics configuration.
func DefaultCsatConfig() CsatConfig {
	return CsatConfig{ProblemThreshold: 3.0}
}

// SubmitRatingInput represents input for SubmitRating
type SubmitRatingInput struct {
	TenantID       string
	ConversationID string
	Rating         int
	Comment        string
}

// CsatService turns per-tenant rating records into decision-support
// aggregates and validates new submissions.
type CsatService struct {
	ratings       CsatRatingRepository
	conversations ConversationReader
	uuidGen       UUIDGenerator
	cfg           CsatConfig
}

// NewCsatService creates a new CsatService instance
func NewCsatService(ratings CsatRatingRepository, conversations ConversationReader, uuidGen UUIDGenerator) *CsatService {
	return NewCsatServiceWithConfig(ratings, conversations, uuidGen, DefaultCsatConfig())
}

// NewCsatServiceWithConfig creates a new CsatService with explicit configuration.
func NewCsatServiceWithConfig(ratings CsatRatingRepository, conversations ConversationReader, uuidGen UUIDGenerator, cfg CsatConfig) *CsatService {
	if cfg.ProblemThreshold <= 0 {
		cfg = DefaultCsatConfig()
	}
	return &CsatService{
		ratings:       ratings,
		conversations: conversations,
		uuidGen:       uuidGen,
		cfg:           cfg,
	}
}

// CalculateAvgCsat returns the arithmetic mean of rating values, or 0 for an
// empty input.
func CalculateAvgCsat(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// SubmitRating validates and persists one rating. Preconditions are checked
// in order: duplicate submission, conversation existence, tenant ownership.
// Violations come back as DomainError values so the caller can render a
// user-facing message.
func (s *CsatService) SubmitRating(ctx context.Context, input SubmitRatingInput) (*domain.CsatRating, error) {
	ctx, span := telemetry.StartSpan(ctx, "CsatService.SubmitRating", telemetry.SpanAttributes{
		TenantID:       input.TenantID,
		ConversationID: input.ConversationID,
		Operation:      "submit_rating",
	})
	defer span.End()

	if input.TenantID == "" || input.ConversationID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID and conversation ID are required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, domain.ErrInvalidRatingValue
	}

	existing, err := s.ratings.GetByConversationID(ctx, input.TenantID, input.ConversationID)
	if err != nil && !errors.Is(err, domain.ErrRatingNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrRatingAlreadyExists
	}

	conversation, err := s.conversations.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}

	if conversation.TenantID != input.TenantID {
		return nil, domain.ErrRatingTenantMismatch
	}

	rating := &domain.CsatRating{
		ID:             s.uuidGen.NewString(),
		TenantID:       input.TenantID,
		ConversationID: input.ConversationID,
		Rating:         input.Rating,
		Comment:        input.Comment,
		Intent:         conversation.Intent,
		Decision:       conversation.Decision,
		CreatedAt:      time.Now().UTC(),
	}

	if err := domain.ValidateCsatRating(rating); err != nil {
		return nil, err
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

// GetAnalytics computes the satisfaction summary for a tenant. The result is
// a pure function of the tenant's ratings and is never persisted.
func (s *CsatService) GetAnalytics(ctx context.Context, tenantID string) (*domain.CsatAnalytics, error) {
	ctx, span := telemetry.StartSpan(ctx, "CsatService.GetAnalytics", telemetry.SpanAttributes{
		TenantID:  tenantID,
		Operation: "csat_analytics",
	})
	defer span.End()

	ratings, err := s.ratings.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	analytics := &domain.CsatAnalytics{
		TenantID: tenantID,
		Total:    len(ratings),
	}

	values := make([]int, 0, len(ratings))
	counts := [5]int{}
	for _, r := range ratings {
		values = append(values, r.Rating)
		if r.Rating >= 1 && r.Rating <= 5 {
			counts[r.Rating-1]++
		}
	}

	analytics.AvgScore = CalculateAvgCsat(values)

	for i := 0; i < 5; i++ {
		bucket := domain.RatingBucket{
			Rating: i + 1,
			Count:  counts[i],
		}
		if analytics.Total > 0 {
			bucket.Percentage = float64(counts[i]) / float64(analytics.Total) * 100
		}
		analytics.Distribution[i] = bucket
	}

	analytics.ByIntent = aggregateSegments(ratings, func(r *domain.CsatRating) string { return r.Intent })
	analytics.ByDecision = aggregateSegments(ratings, func(r *domain.CsatRating) string { return r.Decision })

	for _, segment := range analytics.ByIntent {
		if segment.Average < s.cfg.ProblemThreshold {
			analytics.ProblemIntents = append(analytics.ProblemIntents, segment)
		}
	}
	// Worst segments first
	sort.SliceStable(analytics.ProblemIntents, func(i, j int) bool {
		return analytics.ProblemIntents[i].Average < analytics.ProblemIntents[j].Average
	})

	return analytics, nil
}

// ListRatingsInput represents input for ListRatings
type ListRatingsInput struct {
	TenantID string
	Cursor   string
	Limit    int
}

// ListRatingsOutput represents one page of ratings
type ListRatingsOutput struct {
	Items   []*domain.CsatRating
	Cursor  string
	HasMore bool
}

// ListRatings returns a page of the tenant's ratings, newest first.
func (s *CsatService) ListRatings(ctx context.Context, input ListRatingsInput) (*ListRatingsOutput, error) {
	if input.TenantID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "tenant ID is required")
	}

	var cursor *pagination.Cursor
	if input.Cursor != "" {
		decoded, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid cursor")
		}
		cursor = decoded
	}

	page, err := s.ratings.ListByTenantWithCursor(ctx, input.TenantID, cursor, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListRatingsOutput{
		Items:   page.Items,
		Cursor:  page.NextCursor,
		HasMore: page.HasMore,
	}, nil
}

// aggregateSegments groups ratings by a non-empty tag value and computes the
// per-segment average and count, ordered by count descending.
func aggregateSegments(ratings []*domain.CsatRating, tag func(*domain.CsatRating) string) []domain.SegmentStats {
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range ratings {
		value := tag(r)
		if value == "" {
			continue
		}
		sums[value] += r.Rating
		counts[value]++
	}

	segments := make([]domain.SegmentStats, 0, len(counts))
	for value, count := range counts {
		segments = append(segments, domain.SegmentStats{
			Value:   value,
			Average: float64(sums[value]) / float64(count),
			Count:   count,
		})
	}

	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Count != segments[j].Count {
			return segments[i].Count > segments[j].Count
		}
		return segments[i].Value < segments[j].Value
	})

	return segments
}
