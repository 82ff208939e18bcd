package services

import (
	"context"
	"fmt"
	"log/slog"

	"startup_journey/internal/models"
	"startup_journey/internal/recommend"
	"startup_journey/internal/repositories"
)

type GeneratorStore interface {
	ListTools(ctx context.Context, filter models.ToolFilter) ([]models.Tool, error)
	AllRecommendations(ctx context.Context) ([]models.RecommendedTool, error)
	ReplaceRelationships(ctx context.Context, rels []models.ToolRelationship) error
	ReplacePathways(ctx context.Context, pathways []models.Pathway) error
}

type StepLister interface {
	ListSteps(ctx context.Context, filter models.StepFilter) ([]models.Step, error)
}

// GeneratorService derives tool relationships and pathways from the catalog
// and stores them.
type GeneratorService struct {
	tools GeneratorStore
	steps StepLister
	cache repositories.Cache
}

func NewGeneratorService(tools GeneratorStore, steps StepLister, cache repositories.Cache) *GeneratorService {
	return &GeneratorService{tools: tools, steps: steps, cache: cache}
}

type RelationshipReport struct {
	DryRun        bool                      `json:"dry_run"`
	Tools         int                       `json:"tools"`
	Relationships []models.ToolRelationship `json:"relationships"`
}

type PathwayReport struct {
	DryRun   bool             `json:"dry_run"`
	Steps    int              `json:"steps"`
	Pathways []models.Pathway `json:"pathways"`
}

// GenerateRelationships replaces the stored relationship set with a freshly
// generated one.
func (s *GeneratorService) GenerateRelationships(ctx context.Context, opts recommend.RelationshipOptions, src recommend.Source, dryRun bool) (*RelationshipReport, error) {
	tools, err := s.tools.ListTools(ctx, models.ToolFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}

	rels := recommend.Relationships(tools, opts, src)
	report := &RelationshipReport{DryRun: dryRun, Tools: len(tools), Relationships: rels}
	if dryRun {
		return report, nil
	}

	if err := s.tools.ReplaceRelationships(ctx, rels); err != nil {
		return nil, fmt.Errorf("failed to store relationships: %w", err)
	}
	invalidate(ctx, s.cache, prefixTools)
	slog.Info("tool relationships generated", "tools", len(tools), "relationships", len(rels))
	return report, nil
}

// GeneratePathways builds one pathway per phase/domain cell and replaces the
// stored set with them.
func (s *GeneratorService) GeneratePathways(ctx context.Context, opts recommend.PathwayOptions, src recommend.Source, dryRun bool) (*PathwayReport, error) {
	steps, err := s.steps.ListSteps(ctx, models.StepFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	recs, err := s.tools.AllRecommendations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	pathways := recommend.Pathways(steps, recs, opts, src)
	report := &PathwayReport{DryRun: dryRun, Steps: len(steps), Pathways: pathways}
	if dryRun {
		return report, nil
	}

	if err := s.tools.ReplacePathways(ctx, pathways); err != nil {
		return nil, fmt.Errorf("failed to store pathways: %w", err)
	}
	slog.Info("tool pathways generated", "steps", len(steps), "pathways", len(pathways))
	return report, nil
}
