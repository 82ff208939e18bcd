package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"startup_journey/internal/llm"
	"startup_journey/internal/models"
)

// ErrAssistantUnavailable is returned when no LLM API key is configured.
var ErrAssistantUnavailable = fmt.Errorf("%w: ai assistant", ErrUnavailable)

type ToolSuggester interface {
	SuggestTools(ctx context.Context, step models.Step, limit int) (*llm.Suggestions, error)
}

type StepReader interface {
	GetStep(ctx context.Context, id uuid.UUID) (*models.Step, error)
}

type AssistantService struct {
	steps StepReader
	llm   ToolSuggester
}

// NewAssistantService accepts a nil suggester; every call then fails with
// ErrAssistantUnavailable.
func NewAssistantService(steps StepReader, suggester ToolSuggester) *AssistantService {
	return &AssistantService{steps: steps, llm: suggester}
}

type SuggestToolsRequest struct {
	Limit int `json:"limit" binding:"omitempty,min=1,max=10"`
}

func (s *AssistantService) SuggestTools(ctx context.Context, stepID uuid.UUID, req SuggestToolsRequest) (*llm.Suggestions, error) {
	if s.llm == nil {
		return nil, ErrAssistantUnavailable
	}
	step, err := s.steps.GetStep(ctx, stepID)
	if err != nil {
		return nil, err
	}

	out, err := s.llm.SuggestTools(ctx, *step, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get tool suggestions: %w", err)
	}
	slog.Info("ai tool suggestions", "step_id", stepID, "count", len(out.Tools), "repair_strategy", out.Strategy)
	return out, nil
}
