package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Stage     string    `json:"stage"`
	TeamSize  int       `json:"team_size"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Company) Prepare() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Stage == "" {
		c.Stage = "idea"
	}
	if c.TeamSize == 0 {
		c.TeamSize = 1
	}
}

const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
)

func ValidProgressStatus(s string) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusSkipped:
		return true
	}
	return false
}

// Progress is a company's instance of a canonical step.
type Progress struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	StepID      uuid.UUID  `json:"step_id"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (p *Progress) Prepare() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
}

// StepProgress is a canonical step seen through one company's progress.
type StepProgress struct {
	Step        Step       `json:"step"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type PhaseProgress struct {
	PhaseID         uuid.UUID `json:"phase_id"`
	PhaseName       string    `json:"phase_name"`
	TotalSteps      int       `json:"total_steps"`
	CompletedSteps  int       `json:"completed_steps"`
	PercentComplete float64   `json:"percent_complete"`
}

type ProgressSummary struct {
	CompanyID       uuid.UUID       `json:"company_id"`
	TotalSteps      int             `json:"total_steps"`
	CompletedSteps  int             `json:"completed_steps"`
	InProgressSteps int             `json:"in_progress_steps"`
	SkippedSteps    int             `json:"skipped_steps"`
	PercentComplete float64         `json:"percent_complete"`
	Phases          []PhaseProgress `json:"phases"`
	NextStep        *Step           `json:"next_step,omitempty"`
}

type Budget struct {
	CompanyID          uuid.UUID `json:"company_id"`
	MonthlyBudgetCents int64     `json:"monthly_budget_cents"`
	Currency           string    `json:"currency"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ToolSelection struct {
	ID               uuid.UUID  `json:"id"`
	CompanyID        uuid.UUID  `json:"company_id"`
	ToolID           uuid.UUID  `json:"tool_id"`
	StepID           *uuid.UUID `json:"step_id,omitempty"`
	MonthlyCostCents int        `json:"monthly_cost_cents"`
	SelectedAt       time.Time  `json:"selected_at"`

	ToolName string `json:"tool_name,omitempty"`
	Category string `json:"category,omitempty"`
}

func (s *ToolSelection) Prepare() {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SelectedAt.IsZero() {
		s.SelectedAt = time.Now()
	}
}

type BudgetSummary struct {
	CompanyID          uuid.UUID        `json:"company_id"`
	Currency           string           `json:"currency"`
	MonthlyBudgetCents int64            `json:"monthly_budget_cents"`
	SpentCents         int64            `json:"spent_cents"`
	RemainingCents     int64            `json:"remaining_cents"`
	OverBudget         bool             `json:"over_budget"`
	HasBudget          bool             `json:"has_budget"`
	ByCategory         map[string]int64 `json:"by_category"`
	Selections         []ToolSelection  `json:"selections"`
}
