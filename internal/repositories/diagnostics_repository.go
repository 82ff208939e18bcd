package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tables lists every application table the diagnostics report counts.
var Tables = []string{
	"journey_phases_new",
	"journey_domains",
	"journey_canonical_steps",
	"journey_tools_catalog",
	"journey_step_tool_recommendations",
	"journey_tool_relationships",
	"journey_tool_pathways",
	"journey_challenges",
	"companies",
	"company_journey_progress",
	"company_budgets",
	"company_tool_selections",
	"feedback",
	"improvement_suggestions",
	"user_personas",
	"profile_sections",
	"decks",
	"deck_slides",
}

type DiagnosticsRepository struct {
	pool *pgxpool.Pool
}

func NewDiagnosticsRepository(pool *pgxpool.Pool) *DiagnosticsRepository {
	return &DiagnosticsRepository{pool: pool}
}

// Ping measures one round trip to the database.
func (r *DiagnosticsRepository) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := r.pool.Ping(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

func (r *DiagnosticsRepository) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", pgx.Identifier{table}.Sanitize())
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// OrphanRecommendations counts recommendations whose step or tool is gone.
func (r *DiagnosticsRepository) OrphanRecommendations(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM journey_step_tool_recommendations r
		LEFT JOIN journey_canonical_steps s ON s.id = r.step_id
		LEFT JOIN journey_tools_catalog t ON t.id = r.tool_id
		WHERE s.id IS NULL OR t.id IS NULL
	`

	var n int64
	err := r.pool.QueryRow(ctx, query).Scan(&n)
	return n, err
}

// StepsWithoutRecommendations returns the names of steps no tool is
// recommended for.
func (r *DiagnosticsRepository) StepsWithoutRecommendations(ctx context.Context) ([]string, error) {
	query := `
		SELECT s.name
		FROM journey_canonical_steps s
		JOIN journey_phases_new p ON p.id = s.phase_id
		WHERE NOT EXISTS (SELECT 1 FROM journey_step_tool_recommendations r WHERE r.step_id = s.id)
		ORDER BY p.order_index, s.order_index
	`
	return r.names(ctx, query)
}

func (r *DiagnosticsRepository) PhasesWithoutSteps(ctx context.Context) ([]string, error) {
	query := `
		SELECT p.name
		FROM journey_phases_new p
		WHERE NOT EXISTS (SELECT 1 FROM journey_canonical_steps s WHERE s.phase_id = p.id)
		ORDER BY p.order_index
	`
	return r.names(ctx, query)
}

func (r *DiagnosticsRepository) names(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
