package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PricingFree     = "free"
	PricingFreemium = "freemium"
	PricingPaid     = "paid"
)

func ValidPricingModel(p string) bool {
	switch p {
	case PricingFree, PricingFreemium, PricingPaid:
		return true
	}
	return false
}

type Tool struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	URL              string    `json:"url"`
	PricingModel     string    `json:"pricing_model"`
	MonthlyCostCents int       `json:"monthly_cost_cents"`
	Rating           float64   `json:"rating"`
	Tags             []string  `json:"tags"`
	CreatedAt        time.Time `json:"created_at"`
}

func (t *Tool) Prepare() {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.PricingModel == "" {
		t.PricingModel = PricingFree
	}
	if t.Category == "" {
		t.Category = "other"
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

type ToolFilter struct {
	Category     string
	PricingModel string
	Tag          string
	Search       string
}

type Recommendation struct {
	ID             uuid.UUID `json:"id"`
	StepID         uuid.UUID `json:"step_id"`
	ToolID         uuid.UUID `json:"tool_id"`
	RelevanceScore float64   `json:"relevance_score"`
	IsPrimary      bool      `json:"is_primary"`
	Rationale      string    `json:"rationale"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *Recommendation) Prepare() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
}

// RecommendedTool joins a recommendation with its catalog row.
type RecommendedTool struct {
	Tool
	StepID         uuid.UUID `json:"step_id"`
	RelevanceScore float64   `json:"relevance_score"`
	IsPrimary      bool      `json:"is_primary"`
	Rationale      string    `json:"rationale"`
}

// ScoredTool is a personalized recommendation with its score breakdown.
type ScoredTool struct {
	RecommendedTool
	Score      float64  `json:"score"`
	Reasons    []string `json:"reasons"`
	Affordable bool     `json:"affordable"`
}

const (
	RelationshipAlternative = "alternative"
	RelationshipComplements = "complements"
	RelationshipIntegrates  = "integrates"
)

type ToolRelationship struct {
	ID               uuid.UUID `json:"id"`
	ToolID           uuid.UUID `json:"tool_id"`
	RelatedToolID    uuid.UUID `json:"related_tool_id"`
	RelationshipType string    `json:"relationship_type"`
	Strength         float64   `json:"strength"`
	CreatedAt        time.Time `json:"created_at"`

	RelatedToolName string `json:"related_tool_name,omitempty"`
}

func (r *ToolRelationship) Prepare() {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
}

type ToolDetail struct {
	Tool
	Relationships []ToolRelationship `json:"relationships"`
}

// Pathway is an ordered tool chain through the steps of one phase/domain
// cell of the framework.
type Pathway struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	PhaseID   uuid.UUID   `json:"phase_id"`
	DomainID  uuid.UUID   `json:"domain_id"`
	StepIDs   []uuid.UUID `json:"step_ids"`
	ToolIDs   []uuid.UUID `json:"tool_ids"`
	Score     float64     `json:"score"`
	CreatedAt time.Time   `json:"created_at"`
}

func (p *Pathway) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}
