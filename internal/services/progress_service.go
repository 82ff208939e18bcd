package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

type CompanyStore interface {
	Create(ctx context.Context, company *models.Company) error
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Company, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error)
	ListProgress(ctx context.Context, companyID uuid.UUID) ([]models.Progress, error)
	GetProgress(ctx context.Context, companyID, stepID uuid.UUID) (*models.Progress, error)
	UpsertProgress(ctx context.Context, p *models.Progress) error
}

type FrameworkReader interface {
	ListPhases(ctx context.Context) ([]models.Phase, error)
	ListSteps(ctx context.Context, filter models.StepFilter) ([]models.Step, error)
}

type ProgressService struct {
	companyRepo CompanyStore
	framework   FrameworkReader
	now         func() time.Time
}

func NewProgressService(companyRepo CompanyStore, framework FrameworkReader) *ProgressService {
	return &ProgressService{
		companyRepo: companyRepo,
		framework:   framework,
		now:         time.Now,
	}
}

type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Stage    string `json:"stage"`
	TeamSize int    `json:"team_size" binding:"min=0"`
}

type UpdateProgressRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes,omitempty"`
}

func (s *ProgressService) CreateCompany(ctx context.Context, ownerID uuid.UUID, req CreateCompanyRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("company name is required")
	}
	company := &models.Company{
		OwnerID:  ownerID,
		Name:     name,
		Industry: req.Industry,
		Stage:    req.Stage,
		TeamSize: req.TeamSize,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return company, nil
}

func (s *ProgressService) ListCompanies(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error) {
	return s.companyRepo.ListByOwner(ctx, ownerID)
}

// GetCompany returns ErrNotFound both for missing companies and for
// companies owned by someone else.
func (s *ProgressService) GetCompany(ctx context.Context, ownerID, companyID uuid.UUID) (*models.Company, error) {
	return s.companyRepo.GetByIDAndOwner(ctx, companyID, ownerID)
}

// ListProgress returns every canonical step in journey order with the
// company's status; steps without a progress row are not_started.
func (s *ProgressService) ListProgress(ctx context.Context, ownerID, companyID uuid.UUID) ([]models.StepProgress, error) {
	if _, err := s.GetCompany(ctx, ownerID, companyID); err != nil {
		return nil, err
	}
	steps, err := s.framework.ListSteps(ctx, models.StepFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	rows, err := s.companyRepo.ListProgress(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return mergeProgress(steps, rows), nil
}

func mergeProgress(steps []models.Step, rows []models.Progress) []models.StepProgress {
	byStep := make(map[uuid.UUID]models.Progress, len(rows))
	for _, p := range rows {
		byStep[p.StepID] = p
	}

	out := make([]models.StepProgress, 0, len(steps))
	for _, step := range steps {
		sp := models.StepProgress{Step: step, Status: models.StatusNotStarted}
		if p, ok := byStep[step.ID]; ok {
			sp.Status = p.Status
			sp.Notes = p.Notes
			sp.StartedAt = p.StartedAt
			sp.CompletedAt = p.CompletedAt
		}
		out = append(out, sp)
	}
	return out
}

// UpdateStepStatus moves a step to a new status. started_at is stamped the
// first time work begins (or the step is completed directly); completed_at
// follows the completed status and is cleared when the step is reopened.
func (s *ProgressService) UpdateStepStatus(ctx context.Context, ownerID, companyID, stepID uuid.UUID, req UpdateProgressRequest) (*models.Progress, error) {
	if !models.ValidProgressStatus(req.Status) {
		return nil, ErrInvalidStatus
	}
	if _, err := s.GetCompany(ctx, ownerID, companyID); err != nil {
		return nil, err
	}

	p, err := s.companyRepo.GetProgress(ctx, companyID, stepID)
	switch {
	case errors.Is(err, ErrNotFound):
		p = &models.Progress{CompanyID: companyID, StepID: stepID}
	case err != nil:
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	applyStatus(p, req.Status, s.now())
	if req.Notes != nil {
		p.Notes = *req.Notes
	}

	if err := s.companyRepo.UpsertProgress(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return p, nil
}

func applyStatus(p *models.Progress, status string, now time.Time) {
	p.Status = status
	switch status {
	case models.StatusNotStarted:
		p.StartedAt = nil
		p.CompletedAt = nil
	case models.StatusInProgress:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		p.CompletedAt = nil
	case models.StatusCompleted:
		if p.StartedAt == nil {
			p.StartedAt = &now
		}
		if p.CompletedAt == nil {
			p.CompletedAt = &now
		}
	case models.StatusSkipped:
		p.CompletedAt = nil
	}
}

// Summary aggregates progress overall and per phase. The next step is the
// first step in journey order that is neither completed nor skipped.
func (s *ProgressService) Summary(ctx context.Context, ownerID, companyID uuid.UUID) (*models.ProgressSummary, error) {
	progress, err := s.ListProgress(ctx, ownerID, companyID)
	if err != nil {
		return nil, err
	}
	phases, err := s.framework.ListPhases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	return summarize(companyID, phases, progress), nil
}

func summarize(companyID uuid.UUID, phases []models.Phase, progress []models.StepProgress) *models.ProgressSummary {
	sum := &models.ProgressSummary{
		CompanyID: companyID,
		Phases:    make([]models.PhaseProgress, len(phases)),
	}
	index := make(map[uuid.UUID]int, len(phases))
	for i, p := range phases {
		sum.Phases[i] = models.PhaseProgress{PhaseID: p.ID, PhaseName: p.Name}
		index[p.ID] = i
	}

	for _, sp := range progress {
		sum.TotalSteps++
		i, hasPhase := index[sp.Step.PhaseID]
		if hasPhase {
			sum.Phases[i].TotalSteps++
		}

		switch sp.Status {
		case models.StatusCompleted:
			sum.CompletedSteps++
			if hasPhase {
				sum.Phases[i].CompletedSteps++
			}
		case models.StatusInProgress:
			sum.InProgressSteps++
		case models.StatusSkipped:
			sum.SkippedSteps++
		}

		if sum.NextStep == nil && sp.Status != models.StatusCompleted && sp.Status != models.StatusSkipped {
			step := sp.Step
			sum.NextStep = &step
		}
	}

	sum.PercentComplete = percent(sum.CompletedSteps, sum.TotalSteps)
	for i := range sum.Phases {
		sum.Phases[i].PercentComplete = percent(sum.Phases[i].CompletedSteps, sum.Phases[i].TotalSteps)
	}
	return sum
}

// percent rounds to one decimal; an empty set is 0%.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
