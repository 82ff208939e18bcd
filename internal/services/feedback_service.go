package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	ListForEntity(ctx context.Context, entityType string, entityID *uuid.UUID, limit int) ([]models.Feedback, error)
	RatingCounts(ctx context.Context, entityType string, entityID *uuid.UUID) (map[int]int, error)
	CreateSuggestion(ctx context.Context, s *models.Suggestion) error
	GetSuggestion(ctx context.Context, id uuid.UUID) (*models.Suggestion, error)
	ListSuggestions(ctx context.Context, status string) ([]models.Suggestion, error)
	Upvote(ctx context.Context, suggestionID, userID uuid.UUID) (int, bool, error)
	UpdateSuggestionStatus(ctx context.Context, id uuid.UUID, status string) (*models.Suggestion, error)
}

type FeedbackService struct {
	feedbackRepo FeedbackStore
}

func NewFeedbackService(feedbackRepo FeedbackStore) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo}
}

type SubmitFeedbackRequest struct {
	EntityType string     `json:"entity_type" binding:"required"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Rating     int        `json:"rating" binding:"required"`
	Comment    string     `json:"comment"`
}

type CreateSuggestionRequest struct {
	Category    string `json:"category"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateSuggestionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpvoteResult reports the count after the vote and whether this call
// added it.
type UpvoteResult struct {
	Upvotes int  `json:"upvotes"`
	Counted bool `json:"counted"`
}

const maxTitleLength = 200

func validateTarget(entityType string, entityID *uuid.UUID) error {
	if !models.ValidEntityType(entityType) {
		return ErrInvalidEntityType
	}
	if entityType != models.EntityGeneral && (entityID == nil || *entityID == uuid.Nil) {
		return invalid("entity_id is required for %s feedback", entityType)
	}
	return nil
}

func (s *FeedbackService) Submit(ctx context.Context, userID uuid.UUID, req SubmitFeedbackRequest) (*models.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if err := validateTarget(req.EntityType, req.EntityID); err != nil {
		return nil, err
	}

	entityID := req.EntityID
	if req.EntityType == models.EntityGeneral {
		entityID = nil
	}
	f := &models.Feedback{
		UserID:     userID,
		EntityType: req.EntityType,
		EntityID:   entityID,
		Rating:     req.Rating,
		Comment:    strings.TrimSpace(req.Comment),
	}
	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}
	return f, nil
}

// ListForEntity returns the latest feedback for one target together with a
// rating summary over all of its feedback.
func (s *FeedbackService) ListForEntity(ctx context.Context, entityType string, entityID *uuid.UUID, limit int) (*models.FeedbackList, error) {
	if err := validateTarget(entityType, entityID); err != nil {
		return nil, err
	}
	if entityType == models.EntityGeneral {
		entityID = nil
	}

	items, err := s.feedbackRepo.ListForEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	counts, err := s.feedbackRepo.RatingCounts(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}
	if items == nil {
		items = []models.Feedback{}
	}
	return &models.FeedbackList{Summary: summarizeRatings(counts), Items: items}, nil
}

func summarizeRatings(counts map[int]int) models.RatingSummary {
	sum := models.RatingSummary{Distribution: make(map[int]int, 5)}
	total := 0
	for rating := 1; rating <= 5; rating++ {
		n := counts[rating]
		sum.Distribution[rating] = n
		sum.Count += n
		total += rating * n
	}
	if sum.Count > 0 {
		sum.Average = math.Round(float64(total)*100/float64(sum.Count)) / 100
	}
	return sum
}

func (s *FeedbackService) CreateSuggestion(ctx context.Context, userID uuid.UUID, req CreateSuggestionRequest) (*models.Suggestion, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, invalid("title must be at most %d characters", maxTitleLength)
	}
	sg := &models.Suggestion{
		UserID:      userID,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.feedbackRepo.CreateSuggestion(ctx, sg); err != nil {
		return nil, fmt.Errorf("failed to save suggestion: %w", err)
	}
	return sg, nil
}

func (s *FeedbackService) GetSuggestion(ctx context.Context, id uuid.UUID) (*models.Suggestion, error) {
	return s.feedbackRepo.GetSuggestion(ctx, id)
}

func (s *FeedbackService) ListSuggestions(ctx context.Context, status string) ([]models.Suggestion, error) {
	if status != "" && !models.ValidSuggestionStatus(status) {
		return nil, ErrInvalidStatus
	}
	return s.feedbackRepo.ListSuggestions(ctx, status)
}

// Upvote counts one vote per user; repeated votes leave the count alone.
func (s *FeedbackService) Upvote(ctx context.Context, userID, suggestionID uuid.UUID) (*UpvoteResult, error) {
	n, counted, err := s.feedbackRepo.Upvote(ctx, suggestionID, userID)
	if errors.Is(err, ErrInvalidReference) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &UpvoteResult{Upvotes: n, Counted: counted}, nil
}

func (s *FeedbackService) UpdateSuggestionStatus(ctx context.Context, id uuid.UUID, req UpdateSuggestionStatusRequest) (*models.Suggestion, error) {
	if !models.ValidSuggestionStatus(req.Status) {
		return nil, ErrInvalidStatus
	}
	return s.feedbackRepo.UpdateSuggestionStatus(ctx, id, req.Status)
}
