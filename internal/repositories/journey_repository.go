package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"startup_journey/internal/models"
)

type JourneyRepository struct {
	pool *pgxpool.Pool
}

func NewJourneyRepository(pool *pgxpool.Pool) *JourneyRepository {
	return &JourneyRepository{pool: pool}
}

func (r *JourneyRepository) ListPhases(ctx context.Context) ([]models.Phase, error) {
	query := `
		SELECT id, name, description, order_index, color, icon, created_at
		FROM journey_phases_new
		ORDER BY order_index
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phases := []models.Phase{}
	for rows.Next() {
		var p models.Phase
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OrderIndex, &p.Color, &p.Icon, &p.CreatedAt); err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *JourneyRepository) ListDomains(ctx context.Context) ([]models.Domain, error) {
	query := `
		SELECT id, name, description, color, created_at
		FROM journey_domains
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains := []models.Domain{}
	for rows.Next() {
		var d models.Domain
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Color, &d.CreatedAt); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

const stepColumns = `
	s.id, s.phase_id, s.domain_id, s.name, s.description, s.objective, s.order_index,
	s.estimated_days, s.difficulty, s.deliverables, s.success_criteria, s.created_at, s.updated_at,
	p.order_index, p.name, d.name
`

const stepFrom = `
	FROM journey_canonical_steps s
	JOIN journey_phases_new p ON p.id = s.phase_id
	JOIN journey_domains d ON d.id = s.domain_id
`

func scanStep(row pgx.Row) (models.Step, error) {
	var s models.Step
	err := row.Scan(
		&s.ID,
		&s.PhaseID,
		&s.DomainID,
		&s.Name,
		&s.Description,
		&s.Objective,
		&s.OrderIndex,
		&s.EstimatedDays,
		&s.Difficulty,
		&s.Deliverables,
		&s.SuccessCriteria,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.PhaseOrder,
		&s.PhaseName,
		&s.DomainName,
	)
	return s, err
}

// ListSteps returns steps in journey order: phase order, then step order.
func (r *JourneyRepository) ListSteps(ctx context.Context, filter models.StepFilter) ([]models.Step, error) {
	var (
		where []string
		args  []any
	)
	if filter.PhaseID != nil {
		args = append(args, *filter.PhaseID)
		where = append(where, fmt.Sprintf("s.phase_id = $%d", len(args)))
	}
	if filter.DomainID != nil {
		args = append(args, *filter.DomainID)
		where = append(where, fmt.Sprintf("s.domain_id = $%d", len(args)))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		where = append(where, fmt.Sprintf("s.difficulty = $%d", len(args)))
	}

	query := "SELECT " + stepColumns + stepFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.order_index, s.order_index, s.name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []models.Step{}
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

func (r *JourneyRepository) GetStep(ctx context.Context, id uuid.UUID) (*models.Step, error) {
	query := "SELECT " + stepColumns + stepFrom + " WHERE s.id = $1"
	s, err := scanStep(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *JourneyRepository) CreateStep(ctx context.Context, step *models.Step) error {
	step.Prepare()

	query := `
		INSERT INTO journey_canonical_steps
			(id, phase_id, domain_id, name, description, objective, order_index,
			 estimated_days, difficulty, deliverables, success_criteria)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		step.ID,
		step.PhaseID,
		step.DomainID,
		step.Name,
		step.Description,
		step.Objective,
		step.OrderIndex,
		step.EstimatedDays,
		step.Difficulty,
		step.Deliverables,
		step.SuccessCriteria,
	).Scan(&step.CreatedAt, &step.UpdatedAt)

	return translate(err)
}

func (r *JourneyRepository) UpdateStep(ctx context.Context, step *models.Step) error {
	query := `
		UPDATE journey_canonical_steps SET
			phase_id = $2, domain_id = $3, name = $4, description = $5, objective = $6,
			order_index = $7, estimated_days = $8, difficulty = $9, deliverables = $10,
			success_criteria = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		step.ID,
		step.PhaseID,
		step.DomainID,
		step.Name,
		step.Description,
		step.Objective,
		step.OrderIndex,
		step.EstimatedDays,
		step.Difficulty,
		step.Deliverables,
		step.SuccessCriteria,
	).Scan(&step.UpdatedAt)

	return translate(err)
}

// ChallengeCandidates returns canonical steps that have no challenge yet.
func (r *JourneyRepository) ChallengeCandidates(ctx context.Context) ([]models.Step, error) {
	query := "SELECT " + stepColumns + stepFrom + `
		WHERE NOT EXISTS (SELECT 1 FROM journey_challenges c WHERE c.legacy_step_id = s.id)
		ORDER BY p.order_index, s.order_index
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []models.Step
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// MigratedStepCount returns how many canonical steps already have a
// challenge.
func (r *JourneyRepository) MigratedStepCount(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM journey_canonical_steps s
		WHERE EXISTS (SELECT 1 FROM journey_challenges c WHERE c.legacy_step_id = s.id)
	`).Scan(&n)
	return n, err
}

// CreateChallenge inserts a challenge; a second insert for the same legacy
// step is a no-op and reports created=false.
func (r *JourneyRepository) CreateChallenge(ctx context.Context, c *models.Challenge) (bool, error) {
	c.Prepare()

	query := `
		INSERT INTO journey_challenges
			(id, legacy_step_id, phase_id, domain_id, title, problem_statement, order_index, success_criteria)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (legacy_step_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query,
		c.ID,
		c.LegacyStepID,
		c.PhaseID,
		c.DomainID,
		c.Title,
		c.ProblemStatement,
		c.OrderIndex,
		c.SuccessCriteria,
	)
	if err != nil {
		return false, translate(err)
	}
	return tag.RowsAffected() == 1, nil
}
