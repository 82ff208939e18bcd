package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
	"startup_journey/internal/recommend"
	"startup_journey/internal/repositories"
)

type ToolStore interface {
	ListTools(ctx context.Context, filter models.ToolFilter) ([]models.Tool, error)
	GetTool(ctx context.Context, id uuid.UUID) (*models.Tool, error)
	CreateTool(ctx context.Context, tool *models.Tool) error
	StepRecommendations(ctx context.Context, stepID uuid.UUID) ([]models.RecommendedTool, error)
	UpsertRecommendation(ctx context.Context, rec *models.Recommendation) error
	Relationships(ctx context.Context, toolID uuid.UUID) ([]models.ToolRelationship, error)
	ListPathways(ctx context.Context) ([]models.Pathway, error)
}

// BudgetSummarizer yields the budget view personalization scores against.
type BudgetSummarizer interface {
	Summary(ctx context.Context, ownerID, companyID uuid.UUID) (*models.BudgetSummary, error)
}

type ToolService struct {
	toolRepo ToolStore
	budgets  BudgetSummarizer
	cache    repositories.Cache
}

func NewToolService(toolRepo ToolStore, budgets BudgetSummarizer, cache repositories.Cache) *ToolService {
	return &ToolService{
		toolRepo: toolRepo,
		budgets:  budgets,
		cache:    cache,
	}
}

type CreateToolRequest struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	URL              string   `json:"url"`
	PricingModel     string   `json:"pricing_model"`
	MonthlyCostCents int      `json:"monthly_cost_cents" binding:"min=0"`
	Rating           float64  `json:"rating" binding:"min=0,max=5"`
	Tags             []string `json:"tags"`
}

type RecommendRequest struct {
	RelevanceScore float64 `json:"relevance_score" binding:"min=0,max=1"`
	IsPrimary      bool    `json:"is_primary"`
	Rationale      string  `json:"rationale"`
}

const defaultRecommendationLimit = 5

func (s *ToolService) ListTools(ctx context.Context, filter models.ToolFilter) ([]models.Tool, error) {
	if filter.PricingModel != "" && !models.ValidPricingModel(filter.PricingModel) {
		return nil, invalid("unknown pricing model %q", filter.PricingModel)
	}
	if filter == (models.ToolFilter{}) {
		return cached(ctx, s.cache, keyTools, func() ([]models.Tool, error) {
			return s.toolRepo.ListTools(ctx, filter)
		})
	}
	return s.toolRepo.ListTools(ctx, filter)
}

func (s *ToolService) GetTool(ctx context.Context, id uuid.UUID) (*models.ToolDetail, error) {
	tool, err := s.toolRepo.GetTool(ctx, id)
	if err != nil {
		return nil, err
	}
	rels, err := s.toolRepo.Relationships(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}
	if rels == nil {
		rels = []models.ToolRelationship{}
	}
	return &models.ToolDetail{Tool: *tool, Relationships: rels}, nil
}

func (s *ToolService) CreateTool(ctx context.Context, req CreateToolRequest) (*models.Tool, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("tool name is required")
	}
	if req.PricingModel != "" && !models.ValidPricingModel(req.PricingModel) {
		return nil, invalid("unknown pricing model %q", req.PricingModel)
	}
	if req.PricingModel == models.PricingFree && req.MonthlyCostCents > 0 {
		return nil, invalid("free tools cannot have a monthly cost")
	}

	tool := &models.Tool{
		Name:             name,
		Description:      req.Description,
		Category:         strings.ToLower(strings.TrimSpace(req.Category)),
		URL:              req.URL,
		PricingModel:     req.PricingModel,
		MonthlyCostCents: req.MonthlyCostCents,
		Rating:           req.Rating,
		Tags:             req.Tags,
	}
	if err := s.toolRepo.CreateTool(ctx, tool); err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	invalidate(ctx, s.cache, prefixTools)
	return tool, nil
}

func (s *ToolService) StepRecommendations(ctx context.Context, stepID uuid.UUID) ([]models.RecommendedTool, error) {
	return s.toolRepo.StepRecommendations(ctx, stepID)
}

// Recommend links a tool to a step, replacing any earlier link.
func (s *ToolService) Recommend(ctx context.Context, stepID, toolID uuid.UUID, req RecommendRequest) (*models.Recommendation, error) {
	if req.RelevanceScore < 0 || req.RelevanceScore > 1 {
		return nil, invalid("relevance_score must be between 0 and 1")
	}
	rec := &models.Recommendation{
		StepID:         stepID,
		ToolID:         toolID,
		RelevanceScore: req.RelevanceScore,
		IsPrimary:      req.IsPrimary,
		Rationale:      req.Rationale,
	}
	if err := s.toolRepo.UpsertRecommendation(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save recommendation: %w", err)
	}
	invalidate(ctx, s.cache, prefixFramework)
	return rec, nil
}

// PersonalizedRecommendations ranks the step's recommended tools for one
// company, taking its budget and existing selections into account.
func (s *ToolService) PersonalizedRecommendations(ctx context.Context, ownerID, companyID, stepID uuid.UUID, limit int) ([]models.ScoredTool, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	summary, err := s.budgets.Summary(ctx, ownerID, companyID)
	if err != nil {
		return nil, err
	}
	recs, err := s.toolRepo.StepRecommendations(ctx, stepID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	return recommend.Personalize(recs, recommend.NewProfile(*summary), limit), nil
}

func (s *ToolService) ListPathways(ctx context.Context) ([]models.Pathway, error) {
	return s.toolRepo.ListPathways(ctx)
}
