package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"startup_journey/internal/models"
)

const defaultCurrency = "USD"

type BudgetStore interface {
	GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Company, error)
	GetBudget(ctx context.Context, companyID uuid.UUID) (*models.Budget, error)
	UpsertBudget(ctx context.Context, b *models.Budget) error
	ListSelections(ctx context.Context, companyID uuid.UUID) ([]models.ToolSelection, error)
	UpsertSelection(ctx context.Context, s *models.ToolSelection) error
	DeleteSelection(ctx context.Context, companyID, toolID uuid.UUID) error
}

type ToolReader interface {
	GetTool(ctx context.Context, id uuid.UUID) (*models.Tool, error)
}

type BudgetService struct {
	companyRepo BudgetStore
	tools       ToolReader
}

func NewBudgetService(companyRepo BudgetStore, tools ToolReader) *BudgetService {
	return &BudgetService{companyRepo: companyRepo, tools: tools}
}

type SetBudgetRequest struct {
	MonthlyBudgetCents int64  `json:"monthly_budget_cents" binding:"min=0"`
	Currency           string `json:"currency"`
}

type SelectToolRequest struct {
	ToolID uuid.UUID  `json:"tool_id" binding:"required"`
	StepID *uuid.UUID `json:"step_id,omitempty"`
	// Overrides the catalog price, e.g. for a negotiated plan.
	MonthlyCostCents *int `json:"monthly_cost_cents,omitempty" binding:"omitempty,min=0"`
}

func (s *BudgetService) SetBudget(ctx context.Context, ownerID, companyID uuid.UUID, req SetBudgetRequest) (*models.Budget, error) {
	if req.MonthlyBudgetCents < 0 {
		return nil, invalid("monthly_budget_cents must not be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if !validCurrency(currency) {
		return nil, ErrInvalidCurrency
	}
	if _, err := s.companyRepo.GetByIDAndOwner(ctx, companyID, ownerID); err != nil {
		return nil, err
	}

	b := &models.Budget{
		CompanyID:          companyID,
		MonthlyBudgetCents: req.MonthlyBudgetCents,
		Currency:           currency,
	}
	if err := s.companyRepo.UpsertBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}
	return b, nil
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

// SelectTool records that the company uses a tool, at the catalog's monthly
// cost unless the request overrides it.
func (s *BudgetService) SelectTool(ctx context.Context, ownerID, companyID uuid.UUID, req SelectToolRequest) (*models.ToolSelection, error) {
	if _, err := s.companyRepo.GetByIDAndOwner(ctx, companyID, ownerID); err != nil {
		return nil, err
	}
	tool, err := s.tools.GetTool(ctx, req.ToolID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: tool %s", ErrInvalidReference, req.ToolID)
		}
		return nil, err
	}

	cost := tool.MonthlyCostCents
	if req.MonthlyCostCents != nil {
		cost = *req.MonthlyCostCents
	}
	sel := &models.ToolSelection{
		CompanyID:        companyID,
		ToolID:           tool.ID,
		StepID:           req.StepID,
		MonthlyCostCents: cost,
		ToolName:         tool.Name,
		Category:         tool.Category,
	}
	if err := s.companyRepo.UpsertSelection(ctx, sel); err != nil {
		return nil, fmt.Errorf("failed to save selection: %w", err)
	}
	return sel, nil
}

func (s *BudgetService) DeselectTool(ctx context.Context, ownerID, companyID, toolID uuid.UUID) error {
	if _, err := s.companyRepo.GetByIDAndOwner(ctx, companyID, ownerID); err != nil {
		return err
	}
	return s.companyRepo.DeleteSelection(ctx, companyID, toolID)
}

// Summary totals the company's selections against its budget. A company
// without a budget row reports HasBudget=false and is never over budget.
func (s *BudgetService) Summary(ctx context.Context, ownerID, companyID uuid.UUID) (*models.BudgetSummary, error) {
	if _, err := s.companyRepo.GetByIDAndOwner(ctx, companyID, ownerID); err != nil {
		return nil, err
	}

	sum := &models.BudgetSummary{
		CompanyID:  companyID,
		Currency:   defaultCurrency,
		ByCategory: map[string]int64{},
	}
	b, err := s.companyRepo.GetBudget(ctx, companyID)
	switch {
	case err == nil:
		sum.HasBudget = true
		sum.Currency = b.Currency
		sum.MonthlyBudgetCents = b.MonthlyBudgetCents
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("failed to load budget: %w", err)
	}

	sum.Selections, err = s.companyRepo.ListSelections(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	if sum.Selections == nil {
		sum.Selections = []models.ToolSelection{}
	}
	for _, sel := range sum.Selections {
		cost := int64(sel.MonthlyCostCents)
		sum.SpentCents += cost
		category := sel.Category
		if category == "" {
			category = "other"
		}
		sum.ByCategory[category] += cost
	}

	if sum.HasBudget {
		sum.RemainingCents = sum.MonthlyBudgetCents - sum.SpentCents
		sum.OverBudget = sum.RemainingCents < 0
	}
	return sum, nil
}
