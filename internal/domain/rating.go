package domain

import (
	"fmt"
	"time"
)

// CsatRating is one customer satisfaction submission. At most one rating
// exists per conversation within a tenant; ratings are never mutated and are
// removed only by customer-data deletion.
type CsatRating struct {
	ID             string
	TenantID       string
	ConversationID string
	Rating         int
	Comment        string
	Intent         string
	Decision       string
	CreatedAt      time.Time
}

// ValidateCsatRating validates a CsatRating instance
func ValidateCsatRating(r *CsatRating) error {
	if r == nil {
		return fmt.Errorf("csat rating cannot be nil")
	}

	if r.ID == "" {
		return fmt.Errorf("csat rating ID is required")
	}

	if r.TenantID == "" {
		return fmt.Errorf("csat rating TenantID is required")
	}

	if r.ConversationID == "" {
		return fmt.Errorf("csat rating ConversationID is required")
	}

	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidRatingValue
	}

	return nil
}

// RatingBucket is one entry of the five-bucket rating distribution.
type RatingBucket struct {
	Rating     int
	Count      int
	Percentage float64
}

// SegmentStats aggregates ratings sharing one intent or decision value.
type SegmentStats struct {
	Value   string
	Average float64
	Count   int
}

// CsatAnalytics is the derived, per-tenant satisfaction summary. Recomputed
// on demand, never persisted.
type CsatAnalytics struct {
	TenantID       string
	AvgScore       float64
	Total          int
	Distribution   [5]RatingBucket
	ByIntent       []SegmentStats
	ByDecision     []SegmentStats
	ProblemIntents []SegmentStats
}
