package models

import (
	"time"

	"github.com/google/uuid"
)

type Phase struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Phase) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
}

type Domain struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

func (d *Domain) Prepare() {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
}

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Step is a canonical step: the template task every company's journey is
// built from.
type Step struct {
	ID              uuid.UUID `json:"id"`
	PhaseID         uuid.UUID `json:"phase_id"`
	DomainID        uuid.UUID `json:"domain_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Objective       string    `json:"objective"`
	OrderIndex      int       `json:"order_index"`
	EstimatedDays   int       `json:"estimated_days"`
	Difficulty      string    `json:"difficulty"`
	Deliverables    []string  `json:"deliverables"`
	SuccessCriteria []string  `json:"success_criteria"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Populated by joins, not stored on the row.
	PhaseOrder int    `json:"phase_order"`
	PhaseName  string `json:"phase_name,omitempty"`
	DomainName string `json:"domain_name,omitempty"`
}

func (s *Step) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Difficulty == "" {
		s.Difficulty = DifficultyBeginner
	}
	if s.Deliverables == nil {
		s.Deliverables = []string{}
	}
	if s.SuccessCriteria == nil {
		s.SuccessCriteria = []string{}
	}
}

type StepFilter struct {
	PhaseID    *uuid.UUID
	DomainID   *uuid.UUID
	Difficulty string
}

// PhaseWithSteps is one row of the framework overview.
type PhaseWithSteps struct {
	Phase
	Steps []Step `json:"steps"`
}

// StepDetail is a step with the tools recommended for it.
type StepDetail struct {
	Step
	Recommendations []RecommendedTool `json:"recommendations"`
}

// Challenge is the successor of a canonical step in the challenge-based
// journey schema.
type Challenge struct {
	ID               uuid.UUID  `json:"id"`
	LegacyStepID     *uuid.UUID `json:"legacy_step_id,omitempty"`
	PhaseID          uuid.UUID  `json:"phase_id"`
	DomainID         uuid.UUID  `json:"domain_id"`
	Title            string     `json:"title"`
	ProblemStatement string     `json:"problem_statement"`
	OrderIndex       int        `json:"order_index"`
	SuccessCriteria  []string   `json:"success_criteria"`
	CreatedAt        time.Time  `json:"created_at"`
}

func (c *Challenge) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.SuccessCriteria == nil {
		c.SuccessCriteria = []string{}
	}
}
