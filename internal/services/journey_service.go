package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
	"startup_journey/internal/repositories"
)

type JourneyStore interface {
	ListPhases(ctx context.Context) ([]models.Phase, error)
	ListDomains(ctx context.Context) ([]models.Domain, error)
	ListSteps(ctx context.Context, filter models.StepFilter) ([]models.Step, error)
	GetStep(ctx context.Context, id uuid.UUID) (*models.Step, error)
	CreateStep(ctx context.Context, step *models.Step) error
	UpdateStep(ctx context.Context, step *models.Step) error
}

type RecommendationReader interface {
	StepRecommendations(ctx context.Context, stepID uuid.UUID) ([]models.RecommendedTool, error)
}

type JourneyService struct {
	journeyRepo JourneyStore
	recRepo     RecommendationReader
	cache       repositories.Cache
}

func NewJourneyService(journeyRepo JourneyStore, recRepo RecommendationReader, cache repositories.Cache) *JourneyService {
	return &JourneyService{
		journeyRepo: journeyRepo,
		recRepo:     recRepo,
		cache:       cache,
	}
}

type StepRequest struct {
	PhaseID         uuid.UUID `json:"phase_id" binding:"required"`
	DomainID        uuid.UUID `json:"domain_id" binding:"required"`
	Name            string    `json:"name" binding:"required"`
	Description     string    `json:"description"`
	Objective       string    `json:"objective"`
	OrderIndex      int       `json:"order_index" binding:"min=0"`
	EstimatedDays   int       `json:"estimated_days" binding:"min=0"`
	Difficulty      string    `json:"difficulty"`
	Deliverables    []string  `json:"deliverables"`
	SuccessCriteria []string  `json:"success_criteria"`
}

func (r StepRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return invalid("step name is required")
	}
	if r.Difficulty != "" && !models.ValidDifficulty(r.Difficulty) {
		return invalid("unknown difficulty %q", r.Difficulty)
	}
	return nil
}

func (r StepRequest) apply(step *models.Step) {
	step.PhaseID = r.PhaseID
	step.DomainID = r.DomainID
	step.Name = strings.TrimSpace(r.Name)
	step.Description = r.Description
	step.Objective = r.Objective
	step.OrderIndex = r.OrderIndex
	step.EstimatedDays = r.EstimatedDays
	step.Difficulty = r.Difficulty
	step.Deliverables = r.Deliverables
	step.SuccessCriteria = r.SuccessCriteria
}

func (s *JourneyService) ListPhases(ctx context.Context) ([]models.Phase, error) {
	return cached(ctx, s.cache, keyPhases, func() ([]models.Phase, error) {
		return s.journeyRepo.ListPhases(ctx)
	})
}

func (s *JourneyService) ListDomains(ctx context.Context) ([]models.Domain, error) {
	return cached(ctx, s.cache, keyDomains, func() ([]models.Domain, error) {
		return s.journeyRepo.ListDomains(ctx)
	})
}

func (s *JourneyService) ListSteps(ctx context.Context, filter models.StepFilter) ([]models.Step, error) {
	if filter.Difficulty != "" && !models.ValidDifficulty(filter.Difficulty) {
		return nil, invalid("unknown difficulty %q", filter.Difficulty)
	}
	return s.journeyRepo.ListSteps(ctx, filter)
}

// GetStep returns the step with its recommended tools, primary first.
func (s *JourneyService) GetStep(ctx context.Context, id uuid.UUID) (*models.StepDetail, error) {
	step, err := s.journeyRepo.GetStep(ctx, id)
	if err != nil {
		return nil, err
	}
	recs, err := s.recRepo.StepRecommendations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if recs == nil {
		recs = []models.RecommendedTool{}
	}
	return &models.StepDetail{Step: *step, Recommendations: recs}, nil
}

// Framework nests every step under its phase, in journey order.
func (s *JourneyService) Framework(ctx context.Context) ([]models.PhaseWithSteps, error) {
	return cached(ctx, s.cache, keyFramework, func() ([]models.PhaseWithSteps, error) {
		phases, err := s.journeyRepo.ListPhases(ctx)
		if err != nil {
			return nil, err
		}
		steps, err := s.journeyRepo.ListSteps(ctx, models.StepFilter{})
		if err != nil {
			return nil, err
		}
		return groupByPhase(phases, steps), nil
	})
}

func groupByPhase(phases []models.Phase, steps []models.Step) []models.PhaseWithSteps {
	out := make([]models.PhaseWithSteps, len(phases))
	index := make(map[uuid.UUID]int, len(phases))
	for i, p := range phases {
		out[i] = models.PhaseWithSteps{Phase: p, Steps: []models.Step{}}
		index[p.ID] = i
	}
	for _, step := range steps {
		if i, ok := index[step.PhaseID]; ok {
			out[i].Steps = append(out[i].Steps, step)
		}
	}
	return out
}

func (s *JourneyService) CreateStep(ctx context.Context, req StepRequest) (*models.Step, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	step := &models.Step{}
	req.apply(step)

	if err := s.journeyRepo.CreateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to create step: %w", err)
	}
	invalidate(ctx, s.cache, prefixFramework)
	return step, nil
}

func (s *JourneyService) UpdateStep(ctx context.Context, id uuid.UUID, req StepRequest) (*models.Step, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	step, err := s.journeyRepo.GetStep(ctx, id)
	if err != nil {
		return nil, err
	}
	req.apply(step)
	step.Prepare()

	if err := s.journeyRepo.UpdateStep(ctx, step); err != nil {
		return nil, fmt.Errorf("failed to update step: %w", err)
	}
	invalidate(ctx, s.cache, prefixFramework)
	return step, nil
}
