package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityStep    = "step"
	EntityTool    = "tool"
	EntityPhase   = "phase"
	EntityGeneral = "general"
)

func ValidEntityType(t string) bool {
	switch t {
	case EntityStep, EntityTool, EntityPhase, EntityGeneral:
		return true
	}
	return false
}

type Feedback struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	EntityType string     `json:"entity_type"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Rating     int        `json:"rating"`
	Comment    string     `json:"comment"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (f *Feedback) Prepare() {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
}

type RatingSummary struct {
	Count        int         `json:"count"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

type FeedbackList struct {
	Summary RatingSummary `json:"summary"`
	Items   []Feedback    `json:"items"`
}

const (
	SuggestionOpen        = "open"
	SuggestionUnderReview = "under_review"
	SuggestionPlanned     = "planned"
	SuggestionImplemented = "implemented"
	SuggestionDeclined    = "declined"
)

func ValidSuggestionStatus(s string) bool {
	switch s {
	case SuggestionOpen, SuggestionUnderReview, SuggestionPlanned, SuggestionImplemented, SuggestionDeclined:
		return true
	}
	return false
}

type Suggestion struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Upvotes     int       `json:"upvotes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Suggestion) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SuggestionOpen
	}
	if s.Category == "" {
		s.Category = "general"
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
}
