package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type CompanyRepository struct {
	pool *pgxpool.Pool
}

func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	company.Prepare()

	query := `
		INSERT INTO companies (id, owner_id, name, industry, stage, team_size)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query,
		company.ID,
		company.OwnerID,
		company.Name,
		company.Industry,
		company.Stage,
		company.TeamSize,
	).Scan(&company.CreatedAt)

	return translate(err)
}

func (r *CompanyRepository) GetByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*models.Company, error) {
	query := `
		SELECT id, owner_id, name, industry, stage, team_size, created_at
		FROM companies WHERE id = $1 AND owner_id = $2
	`

	var c models.Company
	err := r.pool.QueryRow(ctx, query, id, ownerID).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Industry,
		&c.Stage,
		&c.TeamSize,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *CompanyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Company, error) {
	query := `
		SELECT id, owner_id, name, industry, stage, team_size, created_at
		FROM companies WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Industry, &c.Stage, &c.TeamSize, &c.CreatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListProgress returns only the progress rows that exist; steps the company
// has never touched have no row.
func (r *CompanyRepository) ListProgress(ctx context.Context, companyID uuid.UUID) ([]models.Progress, error) {
	query := `
		SELECT id, company_id, step_id, status, notes, started_at, completed_at, updated_at
		FROM company_journey_progress WHERE company_id = $1
	`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	progress := []models.Progress{}
	for rows.Next() {
		var p models.Progress
		err := rows.Scan(
			&p.ID,
			&p.CompanyID,
			&p.StepID,
			&p.Status,
			&p.Notes,
			&p.StartedAt,
			&p.CompletedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

func (r *CompanyRepository) GetProgress(ctx context.Context, companyID, stepID uuid.UUID) (*models.Progress, error) {
	query := `
		SELECT id, company_id, step_id, status, notes, started_at, completed_at, updated_at
		FROM company_journey_progress WHERE company_id = $1 AND step_id = $2
	`

	var p models.Progress
	err := r.pool.QueryRow(ctx, query, companyID, stepID).Scan(
		&p.ID,
		&p.CompanyID,
		&p.StepID,
		&p.Status,
		&p.Notes,
		&p.StartedAt,
		&p.CompletedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *CompanyRepository) UpsertProgress(ctx context.Context, p *models.Progress) error {
	p.Prepare()

	query := `
		INSERT INTO company_journey_progress (id, company_id, step_id, status, notes, started_at, completed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (company_id, step_id) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at,
			updated_at = NOW()
		RETURNING id, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.ID,
		p.CompanyID,
		p.StepID,
		p.Status,
		p.Notes,
		p.StartedAt,
		p.CompletedAt,
	).Scan(&p.ID, &p.UpdatedAt)

	return translate(err)
}

func (r *CompanyRepository) GetBudget(ctx context.Context, companyID uuid.UUID) (*models.Budget, error) {
	query := `
		SELECT company_id, monthly_budget_cents, currency, updated_at
		FROM company_budgets WHERE company_id = $1
	`

	var b models.Budget
	err := r.pool.QueryRow(ctx, query, companyID).Scan(&b.CompanyID, &b.MonthlyBudgetCents, &b.Currency, &b.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *CompanyRepository) UpsertBudget(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO company_budgets (company_id, monthly_budget_cents, currency, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			monthly_budget_cents = EXCLUDED.monthly_budget_cents,
			currency = EXCLUDED.currency,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, b.CompanyID, b.MonthlyBudgetCents, b.Currency).Scan(&b.UpdatedAt)
	return translate(err)
}

func (r *CompanyRepository) ListSelections(ctx context.Context, companyID uuid.UUID) ([]models.ToolSelection, error) {
	query := `
		SELECT s.id, s.company_id, s.tool_id, s.step_id, s.monthly_cost_cents, s.selected_at, t.name, t.category
		FROM company_tool_selections s
		JOIN journey_tools_catalog t ON t.id = s.tool_id
		WHERE s.company_id = $1
		ORDER BY s.selected_at
	`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	selections := []models.ToolSelection{}
	for rows.Next() {
		var s models.ToolSelection
		err := rows.Scan(
			&s.ID,
			&s.CompanyID,
			&s.ToolID,
			&s.StepID,
			&s.MonthlyCostCents,
			&s.SelectedAt,
			&s.ToolName,
			&s.Category,
		)
		if err != nil {
			return nil, err
		}
		selections = append(selections, s)
	}
	return selections, rows.Err()
}

// UpsertSelection records a tool choice. Selecting the same tool again
// refreshes its cost and step.
func (r *CompanyRepository) UpsertSelection(ctx context.Context, s *models.ToolSelection) error {
	s.Prepare()

	query := `
		INSERT INTO company_tool_selections (id, company_id, tool_id, step_id, monthly_cost_cents, selected_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (company_id, tool_id) DO UPDATE SET
			step_id = EXCLUDED.step_id,
			monthly_cost_cents = EXCLUDED.monthly_cost_cents
		RETURNING id, selected_at
	`

	err := r.pool.QueryRow(ctx, query,
		s.ID,
		s.CompanyID,
		s.ToolID,
		s.StepID,
		s.MonthlyCostCents,
		s.SelectedAt,
	).Scan(&s.ID, &s.SelectedAt)

	return translate(err)
}

func (r *CompanyRepository) DeleteSelection(ctx context.Context, companyID, toolID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM company_tool_selections WHERE company_id = $1 AND tool_id = $2`, companyID, toolID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
